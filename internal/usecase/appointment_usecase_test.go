package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"doctor-appointment-api/internal/delivery/dto"
	"doctor-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
)

// 2030-03-04 is a Monday
var monday = time.Date(2030, time.March, 4, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(monday.Year(), monday.Month(), monday.Day(), hour, minute, 0, 0, time.UTC)
}

type appointmentFixture struct {
	usecase      *appointmentUsecase
	appointments *fakeAppointmentRepo
	availability *fakeAvailabilityRepo
	locker       *fakeLocker
	audit        *fakeAuditService
	doctorID     uuid.UUID
	patientID    uuid.UUID
}

func newAppointmentFixture(t *testing.T) *appointmentFixture {
	t.Helper()
	f := &appointmentFixture{
		appointments: newFakeAppointmentRepo(),
		availability: newFakeAvailabilityRepo(),
		locker:       &fakeLocker{},
		audit:        &fakeAuditService{},
		doctorID:     uuid.New(),
		patientID:    uuid.New(),
	}
	_ = f.availability.ReplaceForDoctor(context.Background(), f.doctorID, []entity.DoctorAvailability{
		{DayOfWeek: int(time.Monday), StartTime: "09:00", EndTime: "17:00"},
	})
	f.usecase = NewAppointmentUsecase(
		newTestLogger(), f.appointments, f.availability, f.locker, f.audit, time.UTC, 30*time.Minute,
	).(*appointmentUsecase)
	f.usecase.now = func() time.Time { return monday }
	return f
}

func (f *appointmentFixture) book(t *testing.T, patientID uuid.UUID, when time.Time) *dto.AppointmentResponse {
	t.Helper()
	resp, err := f.usecase.CreateAppointment(context.Background(), patientID, &dto.CreateAppointmentRequest{
		DoctorID: f.doctorID.String(),
		DateTime: when,
	})
	if err != nil {
		t.Fatalf("unexpected error booking %v: %v", when, err)
	}
	return resp
}

func TestGetAvailableSlotsFullDay(t *testing.T) {
	f := newAppointmentFixture(t)

	slots, err := f.usecase.GetAvailableSlots(context.Background(), f.doctorID, "2030-03-04")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 16 {
		t.Fatalf("expected 16 slots, got %d", len(slots))
	}
	if !slots[0].Equal(at(9, 0)) || !slots[15].Equal(at(16, 30)) {
		t.Errorf("unexpected bounds: %v .. %v", slots[0], slots[15])
	}

	again, _ := f.usecase.GetAvailableSlots(context.Background(), f.doctorID, "2030-03-04")
	if len(again) != len(slots) {
		t.Fatal("expected identical results without intervening writes")
	}
	for i := range slots {
		if !slots[i].Equal(again[i]) {
			t.Fatalf("slot %d differs between calls", i)
		}
	}
}

func TestGetAvailableSlotsExcludesBooked(t *testing.T) {
	f := newAppointmentFixture(t)
	f.book(t, f.patientID, at(10, 0))
	cancelled := f.book(t, f.patientID, at(11, 0))
	if _, err := f.usecase.CancelAppointment(context.Background(), cancelled.ID, f.patientID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Off-grid bookings never hide a slot
	f.book(t, uuid.New(), at(12, 15))

	slots, err := f.usecase.GetAvailableSlots(context.Background(), f.doctorID, "2030-03-04")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 15 {
		t.Fatalf("expected 15 slots, got %d", len(slots))
	}
	for _, s := range slots {
		if s.Equal(at(10, 0)) {
			t.Fatal("booked slot 10:00 returned as available")
		}
	}
	found := false
	for _, s := range slots {
		if s.Equal(at(11, 0)) {
			found = true
		}
	}
	if !found {
		t.Error("cancelled slot 11:00 should be available again")
	}
}

func TestGetAvailableSlotsErrors(t *testing.T) {
	f := newAppointmentFixture(t)

	// Tuesday has no window
	if _, err := f.usecase.GetAvailableSlots(context.Background(), f.doctorID, "2030-03-05"); !errors.Is(err, ErrAvailabilityNotFound) {
		t.Errorf("expected ErrAvailabilityNotFound, got %v", err)
	}
	if _, err := f.usecase.GetAvailableSlots(context.Background(), uuid.New(), "2030-03-04"); !errors.Is(err, ErrAvailabilityNotFound) {
		t.Errorf("expected ErrAvailabilityNotFound for unknown doctor, got %v", err)
	}
	if _, err := f.usecase.GetAvailableSlots(context.Background(), f.doctorID, "04-03-2030"); !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("expected ErrInvalidDateFormat, got %v", err)
	}
}

func TestCreateAppointmentConflict(t *testing.T) {
	f := newAppointmentFixture(t)

	first := f.book(t, f.patientID, at(10, 0))
	if first.Status != string(entity.AppointmentStatusScheduled) || first.DurationMinutes != 30 {
		t.Errorf("unexpected appointment: %+v", first)
	}

	_, err := f.usecase.CreateAppointment(context.Background(), uuid.New(), &dto.CreateAppointmentRequest{
		DoctorID: f.doctorID.String(),
		DateTime: at(10, 0),
	})
	if !errors.Is(err, ErrSlotAlreadyBooked) {
		t.Fatalf("expected ErrSlotAlreadyBooked, got %v", err)
	}

	// Another doctor at the same time is fine
	other := f.doctorID
	f.doctorID = uuid.New()
	f.book(t, f.patientID, at(10, 0))
	f.doctorID = other

	if got := f.audit.actions(); len(got) != 2 || got[0] != entity.AuditActionAppointmentCreate {
		t.Errorf("expected two create audit entries, got %v", got)
	}
}

func TestCreateAppointmentLockBusy(t *testing.T) {
	f := newAppointmentFixture(t)
	f.locker.busy = true

	_, err := f.usecase.CreateAppointment(context.Background(), f.patientID, &dto.CreateAppointmentRequest{
		DoctorID: f.doctorID.String(),
		DateTime: at(9, 0),
	})
	if !errors.Is(err, ErrSlotBeingBooked) {
		t.Fatalf("expected ErrSlotBeingBooked, got %v", err)
	}
	if n, _ := f.appointments.CountByPatient(context.Background(), f.patientID); n != 0 {
		t.Fatalf("expected nothing stored, got %d", n)
	}
}

func TestCancelAppointment(t *testing.T) {
	f := newAppointmentFixture(t)
	booked := f.book(t, f.patientID, at(9, 30))

	if _, err := f.usecase.CancelAppointment(context.Background(), booked.ID, uuid.New()); !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound for another patient, got %v", err)
	}
	if _, err := f.usecase.CancelAppointment(context.Background(), uuid.New(), f.patientID); !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound for unknown id, got %v", err)
	}

	resp, err := f.usecase.CancelAppointment(context.Background(), booked.ID, f.patientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != string(entity.AppointmentStatusCancelled) {
		t.Errorf("expected cancelled, got %s", resp.Status)
	}

	if _, err := f.usecase.CancelAppointment(context.Background(), booked.ID, f.patientID); !errors.Is(err, ErrCannotCancel) {
		t.Fatalf("expected ErrCannotCancel on second cancel, got %v", err)
	}
	if _, err := f.usecase.RescheduleAppointment(context.Background(), booked.ID, f.patientID, &dto.RescheduleAppointmentRequest{NewDateTime: at(13, 0)}); !errors.Is(err, ErrCannotReschedule) {
		t.Fatalf("expected ErrCannotReschedule after cancel, got %v", err)
	}
}

func TestRescheduleAppointment(t *testing.T) {
	f := newAppointmentFixture(t)
	mine := f.book(t, f.patientID, at(9, 0))
	f.book(t, uuid.New(), at(10, 0))

	_, err := f.usecase.RescheduleAppointment(context.Background(), mine.ID, f.patientID, &dto.RescheduleAppointmentRequest{NewDateTime: at(10, 0)})
	if !errors.Is(err, ErrSlotAlreadyBooked) {
		t.Fatalf("expected ErrSlotAlreadyBooked, got %v", err)
	}
	if stored := f.appointments.get(mine.ID); !stored.DateTime.Equal(at(9, 0)) || stored.Status != entity.AppointmentStatusScheduled {
		t.Fatalf("expected original appointment unchanged, got %v %s", stored.DateTime, stored.Status)
	}

	// Its own current time counts as taken
	_, err = f.usecase.RescheduleAppointment(context.Background(), mine.ID, f.patientID, &dto.RescheduleAppointmentRequest{NewDateTime: at(9, 0)})
	if !errors.Is(err, ErrSlotAlreadyBooked) {
		t.Fatalf("expected ErrSlotAlreadyBooked for own time, got %v", err)
	}

	resp, err := f.usecase.RescheduleAppointment(context.Background(), mine.ID, f.patientID, &dto.RescheduleAppointmentRequest{NewDateTime: at(14, 30)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.DateTime.Equal(at(14, 30)) || resp.Status != string(entity.AppointmentStatusRescheduled) {
		t.Errorf("unexpected response: %+v", resp)
	}

	// A rescheduled appointment can be moved again
	if _, err := f.usecase.RescheduleAppointment(context.Background(), mine.ID, f.patientID, &dto.RescheduleAppointmentRequest{NewDateTime: at(15, 0)}); err != nil {
		t.Fatalf("unexpected error on second reschedule: %v", err)
	}

	slots, _ := f.usecase.GetAvailableSlots(context.Background(), f.doctorID, "2030-03-04")
	for _, s := range slots {
		if s.Equal(at(15, 0)) {
			t.Fatal("new time still reported as available")
		}
	}
}

// staleSlotRepo misses concurrent bookings on the pre-check, as a read that
// raced another writer would, so only the write-time constraint catches them.
type staleSlotRepo struct {
	*fakeAppointmentRepo
}

func (staleSlotRepo) FindActiveByDoctorAndTime(context.Context, uuid.UUID, time.Time) (*entity.Appointment, error) {
	return nil, nil
}

func TestWriteConflictMapsToSlotAlreadyBooked(t *testing.T) {
	f := newAppointmentFixture(t)
	f.book(t, uuid.New(), at(10, 0))
	mine := f.book(t, f.patientID, at(11, 0))

	f.usecase.appointmentRepo = staleSlotRepo{f.appointments}
	auditsBefore := len(f.audit.entries)

	_, err := f.usecase.CreateAppointment(context.Background(), f.patientID, &dto.CreateAppointmentRequest{
		DoctorID: f.doctorID.String(),
		DateTime: at(10, 0),
	})
	if !errors.Is(err, ErrSlotAlreadyBooked) {
		t.Fatalf("create: expected ErrSlotAlreadyBooked, got %v", err)
	}

	_, err = f.usecase.RescheduleAppointment(context.Background(), mine.ID, f.patientID, &dto.RescheduleAppointmentRequest{NewDateTime: at(10, 0)})
	if !errors.Is(err, ErrSlotAlreadyBooked) {
		t.Fatalf("reschedule: expected ErrSlotAlreadyBooked, got %v", err)
	}
	if stored := f.appointments.get(mine.ID); !stored.DateTime.Equal(at(11, 0)) || stored.Status != entity.AppointmentStatusScheduled {
		t.Fatalf("expected appointment kept at 11:00, got %v %s", stored.DateTime, stored.Status)
	}
	if len(f.audit.entries) != auditsBefore {
		t.Errorf("rejected writes must not be audited, got %d new entries", len(f.audit.entries)-auditsBefore)
	}
}

func TestGetUpcomingAppointments(t *testing.T) {
	f := newAppointmentFixture(t)
	f.usecase.now = func() time.Time { return at(12, 0) }

	past := &entity.Appointment{
		DoctorID:  f.doctorID,
		PatientID: f.patientID,
		DateTime:  at(9, 0),
		Status:    entity.AppointmentStatusCompleted,
	}
	_ = f.appointments.Create(context.Background(), past)
	f.book(t, f.patientID, at(13, 0))
	f.book(t, f.patientID, at(15, 30))
	cancelled := f.book(t, f.patientID, at(16, 0))
	_, _ = f.usecase.CancelAppointment(context.Background(), cancelled.ID, f.patientID)
	f.book(t, uuid.New(), at(14, 0))

	upcoming, err := f.usecase.GetUpcomingAppointments(context.Background(), f.patientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(upcoming) != 2 {
		t.Fatalf("expected 2 upcoming appointments, got %d", len(upcoming))
	}
	for _, a := range upcoming {
		if a.PatientID != f.patientID || !a.DateTime.After(at(12, 0)) {
			t.Errorf("unexpected appointment in upcoming: %+v", a)
		}
	}
}

func TestGetPatientAppointmentsPaginates(t *testing.T) {
	f := newAppointmentFixture(t)
	for h := 9; h < 14; h++ {
		f.book(t, f.patientID, at(h, 0))
	}

	page, total, err := f.usecase.GetPatientAppointments(context.Background(), f.patientID, 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 5 || len(page) != 2 {
		t.Fatalf("expected 2 of 5, got %d of %d", len(page), total)
	}
	if !page[0].DateTime.Equal(at(13, 0)) {
		t.Errorf("expected newest first, got %v", page[0].DateTime)
	}

	last, _, _ := f.usecase.GetPatientAppointments(context.Background(), f.patientID, 3, 2)
	if len(last) != 1 || !last[0].DateTime.Equal(at(9, 0)) {
		t.Errorf("unexpected last page: %+v", last)
	}

	defaults, _, _ := f.usecase.GetPatientAppointments(context.Background(), f.patientID, 0, 0)
	if len(defaults) != 5 {
		t.Errorf("expected defaults to return all 5, got %d", len(defaults))
	}
}

func TestNormalizePage(t *testing.T) {
	tests := []struct{ page, limit, wantPage, wantLimit int }{
		{0, 0, 1, 10},
		{-3, 5, 1, 5},
		{2, 500, 2, 100},
		{math.MaxInt, 100, MaxPage, 100},
	}
	for _, tt := range tests {
		p, l := NormalizePage(tt.page, tt.limit)
		if p != tt.wantPage || l != tt.wantLimit {
			t.Errorf("NormalizePage(%d, %d) = %d, %d", tt.page, tt.limit, p, l)
		}
	}
}
