package repository

import (
	"context"
	"errors"

	"doctor-appointment-api/internal/domain/entity"
	domainRepo "doctor-appointment-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientProfileRepository struct{}

func NewPatientProfileRepository() domainRepo.PatientProfileRepository {
	return &patientProfileRepository{}
}

func (r *patientProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error {
	return db.WithContext(ctx).Omit("User", "MedicalHistory", "Allergies", "FavoriteDoctors").Create(profile).Error
}

func (r *patientProfileRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	var profile entity.PatientProfile
	err := db.WithContext(ctx).
		Preload("User").
		Preload("MedicalHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("medical_histories.diagnosis_date DESC NULLS LAST")
		}).
		Preload("Allergies").
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *patientProfileRepository) Update(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error {
	return db.WithContext(ctx).Omit("User", "MedicalHistory", "Allergies", "FavoriteDoctors").Save(profile).Error
}

func (r *patientProfileRepository) CreateMedicalHistory(ctx context.Context, db *gorm.DB, history *entity.MedicalHistory) error {
	return db.WithContext(ctx).Create(history).Error
}

func (r *patientProfileRepository) FindMedicalHistory(ctx context.Context, db *gorm.DB, patientID, historyID uuid.UUID) (*entity.MedicalHistory, error) {
	var history entity.MedicalHistory
	err := db.WithContext(ctx).Where("id = ? AND patient_id = ?", historyID, patientID).First(&history).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &history, nil
}

func (r *patientProfileRepository) UpdateMedicalHistory(ctx context.Context, db *gorm.DB, history *entity.MedicalHistory) error {
	return db.WithContext(ctx).Save(history).Error
}

func (r *patientProfileRepository) DeleteMedicalHistory(ctx context.Context, db *gorm.DB, patientID, historyID uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Where("id = ? AND patient_id = ?", historyID, patientID).Delete(&entity.MedicalHistory{})
	return result.RowsAffected, result.Error
}

func (r *patientProfileRepository) CreateAllergy(ctx context.Context, db *gorm.DB, allergy *entity.Allergy) error {
	return db.WithContext(ctx).Create(allergy).Error
}

func (r *patientProfileRepository) DeleteAllergy(ctx context.Context, db *gorm.DB, patientID uuid.UUID, name string) (int64, error) {
	result := db.WithContext(ctx).Where("patient_id = ? AND name = ?", patientID, name).Delete(&entity.Allergy{})
	return result.RowsAffected, result.Error
}

func (r *patientProfileRepository) CreateFavoriteDoctor(ctx context.Context, db *gorm.DB, favorite *entity.FavoriteDoctor) error {
	return db.WithContext(ctx).Omit("Doctor").Create(favorite).Error
}

func (r *patientProfileRepository) DeleteFavoriteDoctor(ctx context.Context, db *gorm.DB, patientID, doctorID uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Where("patient_id = ? AND doctor_id = ?", patientID, doctorID).Delete(&entity.FavoriteDoctor{})
	return result.RowsAffected, result.Error
}

func (r *patientProfileRepository) FindFavoriteDoctors(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.FavoriteDoctor, error) {
	var favorites []entity.FavoriteDoctor
	err := db.WithContext(ctx).
		Preload("Doctor.User").Preload("Doctor.Specialization").
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, err
	}
	return favorites, nil
}
