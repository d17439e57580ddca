package repository

import (
	"context"
	"errors"
	"time"

	"doctor-appointment-api/internal/domain/entity"
	domainRepo "doctor-appointment-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	err := r.db.WithContext(ctx).Omit("Doctor", "Patient").Create(appointment).Error
	if isUniqueViolation(err, ActiveSlotIndex) {
		return domainRepo.ErrActiveSlotTaken
	}
	return err
}

func (r *appointmentRepository) FindByIDAndPatient(ctx context.Context, id, patientID uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.db.WithContext(ctx).Where("id = ? AND patient_id = ?", id, patientID).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindActiveByDoctorAndTime(ctx context.Context, doctorID uuid.UUID, dateTime time.Time) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date_time = ? AND status IN ?", doctorID, dateTime, entity.ActiveAppointmentStatuses).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindActiveByDoctorInRange(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date_time >= ? AND date_time < ? AND status IN ?", doctorID, from, to, entity.ActiveAppointmentStatuses).
		Order("date_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// Cancel atomically cancels an appointment ONLY if it is still active.
// Returns affected rows: 1 = success, 0 = no longer active (prevents double-cancel race).
func (r *appointmentRepository) Cancel(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ? AND status IN ?", id, entity.ActiveAppointmentStatuses).
		Update("status", entity.AppointmentStatusCancelled)
	return result.RowsAffected, result.Error
}

// Reschedule moves an active appointment and marks it rescheduled in a single statement.
// A concurrent booking of the new time surfaces as ErrActiveSlotTaken and leaves the row untouched.
func (r *appointmentRepository) Reschedule(ctx context.Context, id uuid.UUID, newDateTime time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ? AND status IN ?", id, entity.ActiveAppointmentStatuses).
		Updates(map[string]interface{}{
			"date_time": newDateTime,
			"status":    entity.AppointmentStatusRescheduled,
		})
	if isUniqueViolation(result.Error, ActiveSlotIndex) {
		return 0, domainRepo.ErrActiveSlotTaken
	}
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) FindUpcomingByPatient(ctx context.Context, patientID uuid.UUID, now time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.db.WithContext(ctx).
		Preload("Doctor").
		Where("patient_id = ? AND date_time > ? AND status IN ?", patientID, now, entity.ActiveAppointmentStatuses).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.db.WithContext(ctx).
		Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("date_time DESC").
		Limit(limit).Offset(offset).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) CountByPatient(ctx context.Context, patientID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Appointment{}).Where("patient_id = ?", patientID).Count(&total).Error
	return total, err
}
