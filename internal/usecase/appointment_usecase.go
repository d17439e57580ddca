package usecase

import (
	"context"
	"errors"
	"time"

	"doctor-appointment-api/internal/converter"
	"doctor-appointment-api/internal/delivery/dto"
	"doctor-appointment-api/internal/domain/entity"
	"doctor-appointment-api/internal/domain/repository"
	"doctor-appointment-api/internal/service"
	"doctor-appointment-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	ErrAvailabilityNotFound = errors.New("doctor is not available on this day")
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrSlotAlreadyBooked    = errors.New("this slot is already booked")
	ErrSlotBeingBooked      = errors.New("this slot is being booked, try again")
	ErrCannotCancel         = errors.New("cannot cancel this appointment")
	ErrCannotReschedule     = errors.New("cannot reschedule this appointment")
)

type AppointmentUsecase interface {
	GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]time.Time, error)
	CreateAppointment(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, appointmentID, patientID uuid.UUID) (*dto.AppointmentResponse, error)
	RescheduleAppointment(ctx context.Context, appointmentID, patientID uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error)
	GetUpcomingAppointments(ctx context.Context, patientID uuid.UUID) ([]dto.AppointmentResponse, error)
	GetPatientAppointments(ctx context.Context, patientID uuid.UUID, page, limit int) ([]dto.AppointmentResponse, int64, error)
}

type appointmentUsecase struct {
	log              *logrus.Logger
	appointmentRepo  repository.AppointmentRepository
	availabilityRepo repository.AvailabilityRepository
	locker           service.SlotLocker
	auditService     service.AuditService
	location         *time.Location
	slotDuration     time.Duration
	now              func() time.Time
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	availabilityRepo repository.AvailabilityRepository,
	locker service.SlotLocker,
	auditService service.AuditService,
	location *time.Location,
	slotDuration time.Duration,
) AppointmentUsecase {
	if slotDuration <= 0 {
		slotDuration = entity.DefaultSlotDuration
	}
	return &appointmentUsecase{
		log:              log,
		appointmentRepo:  appointmentRepo,
		availabilityRepo: availabilityRepo,
		locker:           locker,
		auditService:     auditService,
		location:         location,
		slotDuration:     slotDuration,
		now:              time.Now,
	}
}

// GetAvailableSlots lists the free slot start times of a doctor on a calendar date.
// Slots are dropped only when an active appointment starts at exactly the same instant.
func (u *appointmentUsecase) GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]time.Time, error) {
	day, err := time.ParseInLocation(validator.DateLayout, date, u.location)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	availability, err := u.availabilityRepo.FindByDoctorAndDay(ctx, doctorID, int(day.Weekday()))
	if err != nil {
		u.log.Warnf("Failed to find availability: %+v", err)
		return nil, err
	}
	if availability == nil {
		return nil, ErrAvailabilityNotFound
	}

	start, end, err := availability.Window(day)
	if err != nil {
		u.log.Warnf("Stored availability %s is malformed: %+v", availability.ID, err)
		return nil, err
	}

	booked, err := u.appointmentRepo.FindActiveByDoctorInRange(ctx, doctorID, start, end)
	if err != nil {
		u.log.Warnf("Failed to find booked appointments: %+v", err)
		return nil, err
	}

	taken := make(map[int64]struct{}, len(booked))
	for _, a := range booked {
		taken[a.DateTime.UnixNano()] = struct{}{}
	}

	slots := make([]time.Time, 0)
	for slot := range availability.Slots(day, u.slotDuration) {
		if _, ok := taken[slot.UnixNano()]; ok {
			continue
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func (u *appointmentUsecase) CreateAppointment(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, ErrDoctorNotFound
	}

	appointment := &entity.Appointment{
		DoctorID:        doctorID,
		PatientID:       patientID,
		DateTime:        req.DateTime,
		DurationMinutes: int(u.slotDuration / time.Minute),
		Status:          entity.AppointmentStatusScheduled,
		Notes:           req.Notes,
	}

	err = u.withSlotLock(ctx, doctorID, req.DateTime, func(ctx context.Context) error {
		if err := u.ensureSlotFree(ctx, doctorID, req.DateTime); err != nil {
			return err
		}
		if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
			if errors.Is(err, repository.ErrActiveSlotTaken) {
				return ErrSlotAlreadyBooked
			}
			if isForeignKeyError(err, "doctor") {
				return ErrDoctorNotFound
			}
			u.log.Warnf("Failed to create appointment: %+v", err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.audit(ctx, patientID, entity.AuditActionAppointmentCreate, appointment.ID, nil, appointment)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) CancelAppointment(ctx context.Context, appointmentID, patientID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.findOwned(ctx, appointmentID, patientID)
	if err != nil {
		return nil, err
	}
	if !appointment.CanCancel() {
		return nil, ErrCannotCancel
	}

	// Atomic conditional update: only one concurrent cancel can succeed
	affected, err := u.appointmentRepo.Cancel(ctx, appointment.ID)
	if err != nil {
		u.log.Warnf("Failed to cancel appointment: %+v", err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrCannotCancel
	}

	before := *appointment
	appointment.Status = entity.AppointmentStatusCancelled
	appointment.UpdatedAt = u.now()

	u.audit(ctx, patientID, entity.AuditActionAppointmentCancel, appointment.ID, before.Status, appointment.Status)
	return converter.AppointmentToResponse(appointment), nil
}

// RescheduleAppointment moves an active appointment to a free time. The appointment's
// own current time counts as taken, so rescheduling onto it is rejected.
func (u *appointmentUsecase) RescheduleAppointment(ctx context.Context, appointmentID, patientID uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	appointment, err := u.findOwned(ctx, appointmentID, patientID)
	if err != nil {
		return nil, err
	}
	if !appointment.CanReschedule() {
		return nil, ErrCannotReschedule
	}

	previous := appointment.DateTime
	err = u.withSlotLock(ctx, appointment.DoctorID, req.NewDateTime, func(ctx context.Context) error {
		if err := u.ensureSlotFree(ctx, appointment.DoctorID, req.NewDateTime); err != nil {
			return err
		}
		affected, err := u.appointmentRepo.Reschedule(ctx, appointment.ID, req.NewDateTime)
		if err != nil {
			if errors.Is(err, repository.ErrActiveSlotTaken) {
				return ErrSlotAlreadyBooked
			}
			u.log.Warnf("Failed to reschedule appointment: %+v", err)
			return err
		}
		if affected == 0 {
			return ErrCannotReschedule
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	appointment.DateTime = req.NewDateTime
	appointment.Status = entity.AppointmentStatusRescheduled
	appointment.UpdatedAt = u.now()

	u.audit(ctx, patientID, entity.AuditActionAppointmentReschedule, appointment.ID,
		map[string]interface{}{"date_time": previous},
		map[string]interface{}{"date_time": appointment.DateTime, "status": appointment.Status},
	)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetUpcomingAppointments(ctx context.Context, patientID uuid.UUID) ([]dto.AppointmentResponse, error) {
	appointments, err := u.appointmentRepo.FindUpcomingByPatient(ctx, patientID, u.now())
	if err != nil {
		u.log.Warnf("Failed to find upcoming appointments: %+v", err)
		return nil, err
	}
	return converter.AppointmentsToResponses(appointments), nil
}

// GetPatientAppointments returns one page of the patient's appointments, newest first, and the total count.
func (u *appointmentUsecase) GetPatientAppointments(ctx context.Context, patientID uuid.UUID, page, limit int) ([]dto.AppointmentResponse, int64, error) {
	page, limit = NormalizePage(page, limit)

	var (
		appointments []entity.Appointment
		total        int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		appointments, err = u.appointmentRepo.FindByPatient(gctx, patientID, limit, (page-1)*limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = u.appointmentRepo.CountByPatient(gctx, patientID)
		return err
	})
	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to list patient appointments: %+v", err)
		return nil, 0, err
	}

	return converter.AppointmentsToResponses(appointments), total, nil
}

func (u *appointmentUsecase) findOwned(ctx context.Context, appointmentID, patientID uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByIDAndPatient(ctx, appointmentID, patientID)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

func (u *appointmentUsecase) ensureSlotFree(ctx context.Context, doctorID uuid.UUID, dateTime time.Time) error {
	existing, err := u.appointmentRepo.FindActiveByDoctorAndTime(ctx, doctorID, dateTime)
	if err != nil {
		u.log.Warnf("Failed to check slot: %+v", err)
		return err
	}
	if existing != nil {
		return ErrSlotAlreadyBooked
	}
	return nil
}

func (u *appointmentUsecase) withSlotLock(ctx context.Context, doctorID uuid.UUID, dateTime time.Time, fn func(ctx context.Context) error) error {
	err := u.locker.WithSlotLock(ctx, doctorID, dateTime, fn)
	if errors.Is(err, service.ErrSlotLocked) {
		return ErrSlotBeingBooked
	}
	return err
}

// audit records the mutation after it is committed; failures are logged by the audit service only
func (u *appointmentUsecase) audit(ctx context.Context, patientID uuid.UUID, action string, appointmentID uuid.UUID, oldValue, newValue interface{}) {
	actor := patientID
	_ = u.auditService.LogUpdate(ctx, nil, &actor, action, "appointment", appointmentID.String(), oldValue, newValue)
}
