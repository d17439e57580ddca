package usecase

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"doctor-appointment-api/internal/domain/entity"
	"doctor-appointment-api/internal/domain/repository"
	"doctor-appointment-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeAppointmentRepo enforces the same active-slot uniqueness as the database index
type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*entity.Appointment
	order        []uuid.UUID
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: map[uuid.UUID]*entity.Appointment{}}
}

func (r *fakeAppointmentRepo) activeAt(doctorID uuid.UUID, t time.Time, except uuid.UUID) bool {
	for id, a := range r.appointments {
		if id != except && a.DoctorID == doctorID && a.DateTime.Equal(t) && a.IsActive() {
			return true
		}
	}
	return false
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, appointment *entity.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if appointment.IsActive() && r.activeAt(appointment.DoctorID, appointment.DateTime, uuid.Nil) {
		return repository.ErrActiveSlotTaken
	}
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	now := time.Now()
	appointment.CreatedAt, appointment.UpdatedAt = now, now
	cp := *appointment
	r.appointments[cp.ID] = &cp
	r.order = append(r.order, cp.ID)
	return nil
}

func (r *fakeAppointmentRepo) get(id uuid.UUID) *entity.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.appointments[id]; ok {
		cp := *a
		return &cp
	}
	return nil
}

func (r *fakeAppointmentRepo) FindByIDAndPatient(ctx context.Context, id, patientID uuid.UUID) (*entity.Appointment, error) {
	a := r.get(id)
	if a == nil || a.PatientID != patientID {
		return nil, nil
	}
	return a, nil
}

func (r *fakeAppointmentRepo) FindActiveByDoctorAndTime(ctx context.Context, doctorID uuid.UUID, dateTime time.Time) (*entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		a := r.appointments[id]
		if a.DoctorID == doctorID && a.DateTime.Equal(dateTime) && a.IsActive() {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) FindActiveByDoctorInRange(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Appointment
	for _, id := range r.order {
		a := r.appointments[id]
		if a.DoctorID == doctorID && a.IsActive() && !a.DateTime.Before(from) && a.DateTime.Before(to) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) Cancel(ctx context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok || !a.IsActive() {
		return 0, nil
	}
	a.Status = entity.AppointmentStatusCancelled
	return 1, nil
}

func (r *fakeAppointmentRepo) Reschedule(ctx context.Context, id uuid.UUID, newDateTime time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok || !a.IsActive() {
		return 0, nil
	}
	if r.activeAt(a.DoctorID, newDateTime, id) {
		return 0, repository.ErrActiveSlotTaken
	}
	a.DateTime = newDateTime
	a.Status = entity.AppointmentStatusRescheduled
	return 1, nil
}

func (r *fakeAppointmentRepo) FindUpcomingByPatient(ctx context.Context, patientID uuid.UUID, now time.Time) ([]entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Appointment
	for _, id := range r.order {
		a := r.appointments[id]
		if a.PatientID == patientID && a.DateTime.After(now) && a.IsActive() {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) FindByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]entity.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []entity.Appointment
	for _, id := range r.order {
		if a := r.appointments[id]; a.PatientID == patientID {
			all = append(all, *a)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].DateTime.After(all[j].DateTime) })
	if offset >= len(all) {
		return []entity.Appointment{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *fakeAppointmentRepo) CountByPatient(ctx context.Context, patientID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, a := range r.appointments {
		if a.PatientID == patientID {
			n++
		}
	}
	return n, nil
}

type fakeAvailabilityRepo struct {
	mu      sync.Mutex
	windows map[uuid.UUID][]entity.DoctorAvailability
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{windows: map[uuid.UUID][]entity.DoctorAvailability{}}
}

func (r *fakeAvailabilityRepo) FindByDoctorAndDay(ctx context.Context, doctorID uuid.UUID, dayOfWeek int) (*entity.DoctorAvailability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.windows[doctorID] {
		if w.DayOfWeek == dayOfWeek {
			cp := w
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAvailabilityRepo) FindByDoctor(ctx context.Context, doctorID uuid.UUID) ([]entity.DoctorAvailability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.DoctorAvailability(nil), r.windows[doctorID]...), nil
}

func (r *fakeAvailabilityRepo) ReplaceForDoctor(ctx context.Context, doctorID uuid.UUID, windows []entity.DoctorAvailability) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := make([]entity.DoctorAvailability, len(windows))
	for i, w := range windows {
		w.ID = uuid.New()
		w.DoctorID = doctorID
		stored[i] = w
	}
	r.windows[doctorID] = stored
	return nil
}

// fakeLocker runs fn inline unless busy is set
type fakeLocker struct {
	busy  bool
	calls int
}

func (l *fakeLocker) WithSlotLock(ctx context.Context, doctorID uuid.UUID, dateTime time.Time, fn func(ctx context.Context) error) error {
	l.calls++
	if l.busy {
		return service.ErrSlotLocked
	}
	return fn(ctx)
}

type auditEntry struct {
	action   string
	entityID string
}

type fakeAuditService struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (s *fakeAuditService) record(action, entityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, auditEntry{action: action, entityID: entityID})
	return nil
}

func (s *fakeAuditService) LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	return s.record(action, entityID)
}

func (s *fakeAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return s.record(action, entityID)
}

func (s *fakeAuditService) LogDelete(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue interface{}) error {
	return s.record(action, entityID)
}

func (s *fakeAuditService) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.action
	}
	return out
}
