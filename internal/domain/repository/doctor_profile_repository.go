package repository

import (
	"context"

	"doctor-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorProfileRepository interface {
	Create(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error)
	FindAll(ctx context.Context, db *gorm.DB, filter *entity.DoctorFilter) ([]entity.DoctorProfile, error)
	Count(ctx context.Context, db *gorm.DB, filter *entity.DoctorFilter) (int64, error)
	FindHospitals(ctx context.Context, db *gorm.DB, search string) ([]string, error)
	Update(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error
	Delete(ctx context.Context, db *gorm.DB, userID uuid.UUID) (int64, error)
}

type SpecializationRepository interface {
	FindAll(ctx context.Context, db *gorm.DB, search string) ([]entity.Specialization, error)
	FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Specialization, error)
	Upsert(ctx context.Context, db *gorm.DB, specialization *entity.Specialization) error
}
