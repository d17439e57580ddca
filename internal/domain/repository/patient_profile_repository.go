package repository

import (
	"context"

	"doctor-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientProfileRepository interface {
	Create(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error)
	Update(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error

	CreateMedicalHistory(ctx context.Context, db *gorm.DB, history *entity.MedicalHistory) error
	FindMedicalHistory(ctx context.Context, db *gorm.DB, patientID, historyID uuid.UUID) (*entity.MedicalHistory, error)
	UpdateMedicalHistory(ctx context.Context, db *gorm.DB, history *entity.MedicalHistory) error
	DeleteMedicalHistory(ctx context.Context, db *gorm.DB, patientID, historyID uuid.UUID) (int64, error)

	CreateAllergy(ctx context.Context, db *gorm.DB, allergy *entity.Allergy) error
	DeleteAllergy(ctx context.Context, db *gorm.DB, patientID uuid.UUID, name string) (int64, error)

	CreateFavoriteDoctor(ctx context.Context, db *gorm.DB, favorite *entity.FavoriteDoctor) error
	DeleteFavoriteDoctor(ctx context.Context, db *gorm.DB, patientID, doctorID uuid.UUID) (int64, error)
	FindFavoriteDoctors(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.FavoriteDoctor, error)
}
