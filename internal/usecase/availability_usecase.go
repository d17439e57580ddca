package usecase

import (
	"context"
	"errors"

	"doctor-appointment-api/internal/converter"
	"doctor-appointment-api/internal/delivery/dto"
	"doctor-appointment-api/internal/domain/entity"
	"doctor-appointment-api/internal/domain/repository"
	"doctor-appointment-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidTimeRange = errors.New("start time must be before end time")
	ErrDuplicateWeekday = errors.New("only one availability window per weekday is allowed")
)

type AvailabilityUsecase interface {
	GetAvailability(ctx context.Context, doctorID uuid.UUID) ([]dto.AvailabilityResponse, error)
	UpdateAvailability(ctx context.Context, actorID, doctorID uuid.UUID, req *dto.UpdateAvailabilityRequest) ([]dto.AvailabilityResponse, error)
}

type availabilityUsecase struct {
	log              *logrus.Logger
	availabilityRepo repository.AvailabilityRepository
	auditService     service.AuditService
}

func NewAvailabilityUsecase(log *logrus.Logger, availabilityRepo repository.AvailabilityRepository, auditService service.AuditService) AvailabilityUsecase {
	return &availabilityUsecase{
		log:              log,
		availabilityRepo: availabilityRepo,
		auditService:     auditService,
	}
}

func (u *availabilityUsecase) GetAvailability(ctx context.Context, doctorID uuid.UUID) ([]dto.AvailabilityResponse, error) {
	windows, err := u.availabilityRepo.FindByDoctor(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find availability: %+v", err)
		return nil, err
	}
	return converter.AvailabilitiesToResponses(windows), nil
}

// UpdateAvailability replaces the doctor's weekly windows. Doctors may only edit their own schedule.
func (u *availabilityUsecase) UpdateAvailability(ctx context.Context, actorID, doctorID uuid.UUID, req *dto.UpdateAvailabilityRequest) ([]dto.AvailabilityResponse, error) {
	if actorID != doctorID {
		return nil, ErrForbidden
	}

	seen := make(map[int]bool, len(req.Availability))
	windows := make([]entity.DoctorAvailability, 0, len(req.Availability))
	for _, w := range req.Availability {
		if !entity.ClockBefore(w.StartTime, w.EndTime) {
			return nil, ErrInvalidTimeRange
		}
		if seen[w.DayOfWeek] {
			return nil, ErrDuplicateWeekday
		}
		seen[w.DayOfWeek] = true
		windows = append(windows, entity.DoctorAvailability{
			DoctorID:  doctorID,
			DayOfWeek: w.DayOfWeek,
			StartTime: w.StartTime,
			EndTime:   w.EndTime,
		})
	}

	old, err := u.availabilityRepo.FindByDoctor(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find availability: %+v", err)
		return nil, err
	}

	if err := u.availabilityRepo.ReplaceForDoctor(ctx, doctorID, windows); err != nil {
		u.log.Warnf("Failed to replace availability: %+v", err)
		return nil, err
	}

	_ = u.auditService.LogUpdate(ctx, nil, &actorID, entity.AuditActionAvailabilityUpdate, "doctor_availability", doctorID.String(),
		converter.AvailabilitiesToResponses(old), converter.AvailabilitiesToResponses(windows))

	return converter.AvailabilitiesToResponses(windows), nil
}
