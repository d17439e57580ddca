package repository

import (
	"context"
	"errors"

	"doctor-appointment-api/internal/domain/entity"
	domainRepo "doctor-appointment-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type availabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) domainRepo.AvailabilityRepository {
	return &availabilityRepository{db: db}
}

func (r *availabilityRepository) FindByDoctorAndDay(ctx context.Context, doctorID uuid.UUID, dayOfWeek int) (*entity.DoctorAvailability, error) {
	var availability entity.DoctorAvailability
	err := r.db.WithContext(ctx).Where("doctor_id = ? AND day_of_week = ?", doctorID, dayOfWeek).First(&availability).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &availability, nil
}

func (r *availabilityRepository) FindByDoctor(ctx context.Context, doctorID uuid.UUID) ([]entity.DoctorAvailability, error) {
	var windows []entity.DoctorAvailability
	err := r.db.WithContext(ctx).Where("doctor_id = ?", doctorID).Order("day_of_week ASC").Find(&windows).Error
	if err != nil {
		return nil, err
	}
	return windows, nil
}

func (r *availabilityRepository) ReplaceForDoctor(ctx context.Context, doctorID uuid.UUID, windows []entity.DoctorAvailability) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("doctor_id = ?", doctorID).Delete(&entity.DoctorAvailability{}).Error; err != nil {
			return err
		}
		if len(windows) == 0 {
			return nil
		}
		for i := range windows {
			windows[i].DoctorID = doctorID
		}
		return tx.Create(&windows).Error
	})
}
