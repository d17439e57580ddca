package repository

import (
	"context"

	"doctor-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
)

type AvailabilityRepository interface {
	FindByDoctorAndDay(ctx context.Context, doctorID uuid.UUID, dayOfWeek int) (*entity.DoctorAvailability, error)
	FindByDoctor(ctx context.Context, doctorID uuid.UUID) ([]entity.DoctorAvailability, error)
	// ReplaceForDoctor swaps the whole weekly schedule in one transaction.
	ReplaceForDoctor(ctx context.Context, doctorID uuid.UUID, windows []entity.DoctorAvailability) error
}
