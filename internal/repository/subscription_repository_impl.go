package repository

import (
	"context"
	"errors"
	"time"

	"doctor-appointment-api/internal/domain/entity"
	domainRepo "doctor-appointment-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Subscription Plan Repository

type subscriptionPlanRepository struct {
	db *gorm.DB
}

func NewSubscriptionPlanRepository(db *gorm.DB) domainRepo.SubscriptionPlanRepository {
	return &subscriptionPlanRepository{db: db}
}

func (r *subscriptionPlanRepository) Create(ctx context.Context, plan *entity.SubscriptionPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *subscriptionPlanRepository) FindAll(ctx context.Context) ([]entity.SubscriptionPlan, error) {
	var plans []entity.SubscriptionPlan
	if err := r.db.WithContext(ctx).Order("price ASC, duration_days ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *subscriptionPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.SubscriptionPlan, error) {
	var plan entity.SubscriptionPlan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *subscriptionPlanRepository) Update(ctx context.Context, plan *entity.SubscriptionPlan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

func (r *subscriptionPlanRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.SubscriptionPlan{})
	return result.RowsAffected, result.Error
}

// Doctor Subscription Repository

type doctorSubscriptionRepository struct {
	db *gorm.DB
}

func NewDoctorSubscriptionRepository(db *gorm.DB) domainRepo.DoctorSubscriptionRepository {
	return &doctorSubscriptionRepository{db: db}
}

func (r *doctorSubscriptionRepository) Create(ctx context.Context, subscription *entity.DoctorSubscription) error {
	return r.db.WithContext(ctx).Omit("Plan", "Doctor").Create(subscription).Error
}

func (r *doctorSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.DoctorSubscription, error) {
	var subscription entity.DoctorSubscription
	err := r.db.WithContext(ctx).Preload("Plan").Where("id = ?", id).First(&subscription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &subscription, nil
}

func (r *doctorSubscriptionRepository) FindPending(ctx context.Context) ([]entity.DoctorSubscription, error) {
	var subscriptions []entity.DoctorSubscription
	err := r.db.WithContext(ctx).
		Preload("Plan").Preload("Doctor").
		Where("payment_status = ?", entity.PaymentStatusPending).
		Order("created_at ASC").
		Find(&subscriptions).Error
	if err != nil {
		return nil, err
	}
	return subscriptions, nil
}

// FindCurrentByDoctor returns the latest-ending subscription that is active at now.
func (r *doctorSubscriptionRepository) FindCurrentByDoctor(ctx context.Context, doctorID uuid.UUID, now time.Time) (*entity.DoctorSubscription, error) {
	var subscription entity.DoctorSubscription
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("doctor_id = ? AND status = ? AND end_date > ?", doctorID, entity.SubscriptionStatusActive, now).
		Order("end_date DESC").
		First(&subscription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &subscription, nil
}

// UpdateStatus only changes subscriptions whose payment is still pending.
func (r *doctorSubscriptionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.SubscriptionStatus, paymentStatus entity.PaymentStatus) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.DoctorSubscription{}).
		Where("id = ? AND payment_status = ?", id, entity.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":         status,
			"payment_status": paymentStatus,
		})
	return result.RowsAffected, result.Error
}

func (r *doctorSubscriptionRepository) ExpireEnded(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entity.DoctorSubscription{}).
		Where("status = ? AND end_date <= ?", entity.SubscriptionStatusActive, now).
		Update("status", entity.SubscriptionStatusExpired)
	return result.RowsAffected, result.Error
}

// Payment Info Repository

type paymentInfoRepository struct {
	db *gorm.DB
}

func NewPaymentInfoRepository(db *gorm.DB) domainRepo.PaymentInfoRepository {
	return &paymentInfoRepository{db: db}
}

func (r *paymentInfoRepository) Get(ctx context.Context) (*entity.PaymentInfo, error) {
	var info entity.PaymentInfo
	err := r.db.WithContext(ctx).Where("id = ?", entity.PaymentInfoID).First(&info).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &info, nil
}

func (r *paymentInfoRepository) Upsert(ctx context.Context, info *entity.PaymentInfo) error {
	info.ID = entity.PaymentInfoID
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"bkash_number", "bank_account_name", "bank_account_number", "bank_name", "bank_branch", "updated_at"}),
	}).Create(info).Error
}
