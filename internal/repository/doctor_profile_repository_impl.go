package repository

import (
	"context"
	"errors"
	"strings"

	"doctor-appointment-api/internal/domain/entity"
	domainRepo "doctor-appointment-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorProfileRepository struct{}

func NewDoctorProfileRepository() domainRepo.DoctorProfileRepository {
	return &doctorProfileRepository{}
}

func (r *doctorProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error {
	return db.WithContext(ctx).Omit("User", "Specialization", "Availability").Create(profile).Error
}

func (r *doctorProfileRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	var profile entity.DoctorProfile
	err := db.WithContext(ctx).
		Preload("User").Preload("Specialization").
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

// FindAll returns doctors whose user account is active, filtered and paginated.
func (r *doctorProfileRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.DoctorFilter) ([]entity.DoctorProfile, error) {
	var profiles []entity.DoctorProfile
	query := r.filtered(db.WithContext(ctx), filter)

	if filter != nil && filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset((filter.Page - 1) * filter.Limit)
	}

	err := query.
		Preload("User").Preload("Specialization").
		Order("doctor_profiles.rating DESC, users.full_name ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *doctorProfileRepository) Count(ctx context.Context, db *gorm.DB, filter *entity.DoctorFilter) (int64, error) {
	var total int64
	err := r.filtered(db.WithContext(ctx), filter).Count(&total).Error
	return total, err
}

func (r *doctorProfileRepository) filtered(db *gorm.DB, filter *entity.DoctorFilter) *gorm.DB {
	query := db.Model(&entity.DoctorProfile{}).
		Joins("JOIN users ON users.id = doctor_profiles.user_id").
		Where("users.status = ?", entity.UserStatusActive)

	if filter == nil {
		return query
	}
	if filter.SpecializationID > 0 {
		query = query.Where("doctor_profiles.specialization_id = ?", filter.SpecializationID)
	}
	if filter.Hospital != "" {
		query = query.Where("doctor_profiles.hospitals::text ILIKE ?", "%"+filter.Hospital+"%")
	}
	if filter.City != "" {
		query = query.Where("doctor_profiles.address_city ILIKE ?", filter.City+"%")
	}
	if filter.State != "" {
		query = query.Where("doctor_profiles.address_state ILIKE ?", filter.State+"%")
	}
	if filter.Country != "" {
		query = query.Where("doctor_profiles.address_country ILIKE ?", filter.Country+"%")
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where(
			db.Where("users.full_name ILIKE ?", like).
				Or("users.email ILIKE ?", like).
				Or("doctor_profiles.bio ILIKE ?", like).
				Or("doctor_profiles.qualifications::text ILIKE ?", like).
				Or("doctor_profiles.hospitals::text ILIKE ?", like).
				Or("doctor_profiles.address_city ILIKE ?", like).
				Or("doctor_profiles.address_state ILIKE ?", like).
				Or("doctor_profiles.address_country ILIKE ?", like),
		)
	}
	return query
}

func (r *doctorProfileRepository) FindHospitals(ctx context.Context, db *gorm.DB, search string) ([]string, error) {
	var hospitals []string
	query := db.WithContext(ctx).
		Table("doctor_profiles, jsonb_array_elements_text(doctor_profiles.hospitals) AS hospital").
		Distinct("hospital")
	if search != "" {
		query = query.Where("hospital ILIKE ?", "%"+search+"%")
	}
	err := query.Order("hospital ASC").Pluck("hospital", &hospitals).Error
	if err != nil {
		return nil, err
	}
	return hospitals, nil
}

func (r *doctorProfileRepository) Update(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error {
	return db.WithContext(ctx).Omit("User", "Specialization", "Availability").Save(profile).Error
}

func (r *doctorProfileRepository) Delete(ctx context.Context, db *gorm.DB, userID uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entity.DoctorProfile{})
	return result.RowsAffected, result.Error
}

// Specialization Repository

type specializationRepository struct{}

func NewSpecializationRepository() domainRepo.SpecializationRepository {
	return &specializationRepository{}
}

func (r *specializationRepository) FindAll(ctx context.Context, db *gorm.DB, search string) ([]entity.Specialization, error) {
	var specializations []entity.Specialization
	query := db.WithContext(ctx)
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	if err := query.Order("name ASC").Find(&specializations).Error; err != nil {
		return nil, err
	}
	return specializations, nil
}

func (r *specializationRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Specialization, error) {
	var specialization entity.Specialization
	err := db.WithContext(ctx).Where("id = ?", id).First(&specialization).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &specialization, nil
}

func (r *specializationRepository) Upsert(ctx context.Context, db *gorm.DB, specialization *entity.Specialization) error {
	return db.WithContext(ctx).
		Where(entity.Specialization{Name: specialization.Name}).
		Assign(entity.Specialization{Description: specialization.Description}).
		FirstOrCreate(specialization).Error
}
