package repository

import (
	"context"
	"time"

	"doctor-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
)

type SubscriptionPlanRepository interface {
	Create(ctx context.Context, plan *entity.SubscriptionPlan) error
	FindAll(ctx context.Context) ([]entity.SubscriptionPlan, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.SubscriptionPlan, error)
	Update(ctx context.Context, plan *entity.SubscriptionPlan) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type DoctorSubscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.DoctorSubscription) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.DoctorSubscription, error)
	FindPending(ctx context.Context) ([]entity.DoctorSubscription, error)
	FindCurrentByDoctor(ctx context.Context, doctorID uuid.UUID, now time.Time) (*entity.DoctorSubscription, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.SubscriptionStatus, paymentStatus entity.PaymentStatus) (int64, error)
	ExpireEnded(ctx context.Context, now time.Time) (int64, error)
}

type PaymentInfoRepository interface {
	Get(ctx context.Context) (*entity.PaymentInfo, error)
	Upsert(ctx context.Context, info *entity.PaymentInfo) error
}
