package repository

import (
	"context"
	"errors"
	"time"

	"doctor-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrActiveSlotTaken is returned by writes that would give a doctor two active
// appointments at the same instant.
var ErrActiveSlotTaken = errors.New("active appointment already exists for this doctor and time")

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByIDAndPatient(ctx context.Context, id, patientID uuid.UUID) (*entity.Appointment, error)
	FindActiveByDoctorAndTime(ctx context.Context, doctorID uuid.UUID, dateTime time.Time) (*entity.Appointment, error)
	FindActiveByDoctorInRange(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error)
	// Cancel and Reschedule only touch active appointments and report the affected row count.
	Cancel(ctx context.Context, id uuid.UUID) (int64, error)
	Reschedule(ctx context.Context, id uuid.UUID, newDateTime time.Time) (int64, error)
	FindUpcomingByPatient(ctx context.Context, patientID uuid.UUID, now time.Time) ([]entity.Appointment, error)
	FindByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]entity.Appointment, error)
	CountByPatient(ctx context.Context, patientID uuid.UUID) (int64, error)
}
