package usecase

import (
	"context"
	"errors"
	"time"

	"doctor-appointment-api/internal/converter"
	"doctor-appointment-api/internal/delivery/dto"
	"doctor-appointment-api/internal/domain/entity"
	"doctor-appointment-api/internal/domain/repository"
	"doctor-appointment-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrPlanNotFound           = errors.New("subscription plan not found")
	ErrPlanNameExists         = errors.New("subscription plan name already exists")
	ErrPlanInUse              = errors.New("subscription plan has subscriptions")
	ErrPaymentInfoNotFound    = errors.New("payment info not configured")
	ErrPaymentDetailsRequired = errors.New("payment details do not match payment method")
	ErrSubscriptionNotFound   = errors.New("subscription not found")
	ErrSubscriptionNotPending = errors.New("subscription payment is not pending")
	ErrNoActiveSubscription   = errors.New("no active subscription")
)

type SubscriptionUsecase interface {
	ListPlans(ctx context.Context) ([]dto.SubscriptionPlanResponse, error)
	GetPlan(ctx context.Context, planID uuid.UUID) (*dto.SubscriptionPlanResponse, error)
	CreatePlan(ctx context.Context, actorID uuid.UUID, req *dto.SubscriptionPlanRequest) (*dto.SubscriptionPlanResponse, error)
	UpdatePlan(ctx context.Context, actorID, planID uuid.UUID, req *dto.SubscriptionPlanRequest) (*dto.SubscriptionPlanResponse, error)
	DeletePlan(ctx context.Context, actorID, planID uuid.UUID) error
	GetPaymentInfo(ctx context.Context) (*dto.PaymentInfoResponse, error)
	UpdatePaymentInfo(ctx context.Context, actorID uuid.UUID, req *dto.PaymentInfoRequest) (*dto.PaymentInfoResponse, error)
	GetPendingSubscriptions(ctx context.Context) ([]dto.DoctorSubscriptionResponse, error)
	ApproveSubscription(ctx context.Context, actorID, subscriptionID uuid.UUID) (*dto.DoctorSubscriptionResponse, error)
	RejectSubscription(ctx context.Context, actorID, subscriptionID uuid.UUID) (*dto.DoctorSubscriptionResponse, error)
	Subscribe(ctx context.Context, doctorID uuid.UUID, req *dto.SubscribeRequest) (*dto.DoctorSubscriptionResponse, error)
	GetMySubscription(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorSubscriptionResponse, error)
	HasActiveSubscription(ctx context.Context, doctorID uuid.UUID) (bool, error)
	ExpireSubscriptions(ctx context.Context) (int64, error)
}

type subscriptionUsecase struct {
	log              *logrus.Logger
	planRepo         repository.SubscriptionPlanRepository
	subscriptionRepo repository.DoctorSubscriptionRepository
	paymentInfoRepo  repository.PaymentInfoRepository
	auditService     service.AuditService
	now              func() time.Time
}

func NewSubscriptionUsecase(
	log *logrus.Logger,
	planRepo repository.SubscriptionPlanRepository,
	subscriptionRepo repository.DoctorSubscriptionRepository,
	paymentInfoRepo repository.PaymentInfoRepository,
	auditService service.AuditService,
) SubscriptionUsecase {
	return &subscriptionUsecase{
		log:              log,
		planRepo:         planRepo,
		subscriptionRepo: subscriptionRepo,
		paymentInfoRepo:  paymentInfoRepo,
		auditService:     auditService,
		now:              time.Now,
	}
}

func (u *subscriptionUsecase) ListPlans(ctx context.Context) ([]dto.SubscriptionPlanResponse, error) {
	plans, err := u.planRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to find subscription plans: %+v", err)
		return nil, err
	}
	return converter.SubscriptionPlansToResponses(plans), nil
}

func (u *subscriptionUsecase) GetPlan(ctx context.Context, planID uuid.UUID) (*dto.SubscriptionPlanResponse, error) {
	plan, err := u.findPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	return converter.SubscriptionPlanToResponse(plan), nil
}

func (u *subscriptionUsecase) CreatePlan(ctx context.Context, actorID uuid.UUID, req *dto.SubscriptionPlanRequest) (*dto.SubscriptionPlanResponse, error) {
	plan := &entity.SubscriptionPlan{}
	applyPlanRequest(plan, req)

	if err := u.planRepo.Create(ctx, plan); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrPlanNameExists
		}
		u.log.Warnf("Failed to create subscription plan: %+v", err)
		return nil, err
	}

	response := converter.SubscriptionPlanToResponse(plan)
	_ = u.auditService.LogCreate(ctx, nil, &actorID, entity.AuditActionPlanCreate, "subscription_plan", plan.ID.String(), response)
	return response, nil
}

func (u *subscriptionUsecase) UpdatePlan(ctx context.Context, actorID, planID uuid.UUID, req *dto.SubscriptionPlanRequest) (*dto.SubscriptionPlanResponse, error) {
	plan, err := u.findPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	oldValue := converter.SubscriptionPlanToResponse(plan)

	applyPlanRequest(plan, req)
	if err := u.planRepo.Update(ctx, plan); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrPlanNameExists
		}
		u.log.Warnf("Failed to update subscription plan: %+v", err)
		return nil, err
	}

	response := converter.SubscriptionPlanToResponse(plan)
	_ = u.auditService.LogUpdate(ctx, nil, &actorID, entity.AuditActionPlanUpdate, "subscription_plan", planID.String(), oldValue, response)
	return response, nil
}

func (u *subscriptionUsecase) DeletePlan(ctx context.Context, actorID, planID uuid.UUID) error {
	affected, err := u.planRepo.Delete(ctx, planID)
	if err != nil {
		if isForeignKeyError(err, "plan") {
			return ErrPlanInUse
		}
		u.log.Warnf("Failed to delete subscription plan: %+v", err)
		return err
	}
	if affected == 0 {
		return ErrPlanNotFound
	}

	_ = u.auditService.LogDelete(ctx, nil, &actorID, entity.AuditActionPlanDelete, "subscription_plan", planID.String(), nil)
	return nil
}

func (u *subscriptionUsecase) GetPaymentInfo(ctx context.Context) (*dto.PaymentInfoResponse, error) {
	info, err := u.paymentInfoRepo.Get(ctx)
	if err != nil {
		u.log.Warnf("Failed to find payment info: %+v", err)
		return nil, err
	}
	if info == nil {
		return nil, ErrPaymentInfoNotFound
	}
	return converter.PaymentInfoToResponse(info), nil
}

func (u *subscriptionUsecase) UpdatePaymentInfo(ctx context.Context, actorID uuid.UUID, req *dto.PaymentInfoRequest) (*dto.PaymentInfoResponse, error) {
	info := &entity.PaymentInfo{
		BkashNumber:       req.BkashNumber,
		BankAccountName:   req.BankAccountName,
		BankAccountNumber: req.BankAccountNumber,
		BankName:          req.BankName,
		BankBranch:        req.BankBranch,
	}
	if err := u.paymentInfoRepo.Upsert(ctx, info); err != nil {
		u.log.Warnf("Failed to upsert payment info: %+v", err)
		return nil, err
	}

	response := converter.PaymentInfoToResponse(info)
	_ = u.auditService.LogUpdate(ctx, nil, &actorID, entity.AuditActionPaymentInfoUpdate, "payment_info", "1", nil, response)
	return response, nil
}

func (u *subscriptionUsecase) GetPendingSubscriptions(ctx context.Context) ([]dto.DoctorSubscriptionResponse, error) {
	subscriptions, err := u.subscriptionRepo.FindPending(ctx)
	if err != nil {
		u.log.Warnf("Failed to find pending subscriptions: %+v", err)
		return nil, err
	}
	return converter.DoctorSubscriptionsToResponses(subscriptions), nil
}

func (u *subscriptionUsecase) ApproveSubscription(ctx context.Context, actorID, subscriptionID uuid.UUID) (*dto.DoctorSubscriptionResponse, error) {
	return u.settlePayment(ctx, actorID, subscriptionID, entity.SubscriptionStatusActive, entity.PaymentStatusPaid, entity.AuditActionSubscriptionApprove)
}

// RejectSubscription marks the payment failed and cancels the subscription
func (u *subscriptionUsecase) RejectSubscription(ctx context.Context, actorID, subscriptionID uuid.UUID) (*dto.DoctorSubscriptionResponse, error) {
	return u.settlePayment(ctx, actorID, subscriptionID, entity.SubscriptionStatusCancelled, entity.PaymentStatusFailed, entity.AuditActionSubscriptionReject)
}

func (u *subscriptionUsecase) settlePayment(ctx context.Context, actorID, subscriptionID uuid.UUID, status entity.SubscriptionStatus, paymentStatus entity.PaymentStatus, action string) (*dto.DoctorSubscriptionResponse, error) {
	affected, err := u.subscriptionRepo.UpdateStatus(ctx, subscriptionID, status, paymentStatus)
	if err != nil {
		u.log.Warnf("Failed to update subscription status: %+v", err)
		return nil, err
	}

	subscription, err := u.subscriptionRepo.FindByID(ctx, subscriptionID)
	if err != nil {
		u.log.Warnf("Failed to find subscription: %+v", err)
		return nil, err
	}
	if subscription == nil {
		return nil, ErrSubscriptionNotFound
	}
	if affected == 0 {
		return nil, ErrSubscriptionNotPending
	}

	response := converter.DoctorSubscriptionToResponse(subscription)
	_ = u.auditService.LogUpdate(ctx, nil, &actorID, action, "doctor_subscription", subscriptionID.String(),
		map[string]interface{}{"payment_status": entity.PaymentStatusPending},
		map[string]interface{}{"status": status, "payment_status": paymentStatus})
	return response, nil
}

// Subscribe starts a subscription immediately; payment stays pending until an admin settles it
func (u *subscriptionUsecase) Subscribe(ctx context.Context, doctorID uuid.UUID, req *dto.SubscribeRequest) (*dto.DoctorSubscriptionResponse, error) {
	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		return nil, ErrPlanNotFound
	}
	plan, err := u.findPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	subscription := &entity.DoctorSubscription{
		DoctorID:      doctorID,
		PlanID:        plan.ID,
		Status:        entity.SubscriptionStatusActive,
		PaymentStatus: entity.PaymentStatusPending,
		PaymentMethod: req.PaymentMethod,
	}
	switch req.PaymentMethod {
	case entity.PaymentMethodBkash:
		if req.PaymentDetails.BkashNumber == "" {
			return nil, ErrPaymentDetailsRequired
		}
		subscription.BkashNumber = req.PaymentDetails.BkashNumber
	case entity.PaymentMethodBank:
		if req.PaymentDetails.BankName == "" {
			return nil, ErrPaymentDetailsRequired
		}
		subscription.BankName = req.PaymentDetails.BankName
		subscription.BankBranch = req.PaymentDetails.BankBranch
	default:
		return nil, ErrPaymentDetailsRequired
	}

	subscription.StartDate = u.now().UTC()
	subscription.EndDate = subscription.StartDate.AddDate(0, 0, plan.DurationDays)

	if err := u.subscriptionRepo.Create(ctx, subscription); err != nil {
		u.log.Warnf("Failed to create subscription: %+v", err)
		return nil, err
	}
	subscription.Plan = *plan

	response := converter.DoctorSubscriptionToResponse(subscription)
	_ = u.auditService.LogCreate(ctx, nil, &doctorID, entity.AuditActionSubscriptionCreate, "doctor_subscription", subscription.ID.String(), response)
	return response, nil
}

func (u *subscriptionUsecase) GetMySubscription(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorSubscriptionResponse, error) {
	subscription, err := u.subscriptionRepo.FindCurrentByDoctor(ctx, doctorID, u.now())
	if err != nil {
		u.log.Warnf("Failed to find doctor subscription: %+v", err)
		return nil, err
	}
	if subscription == nil {
		return nil, ErrNoActiveSubscription
	}
	return converter.DoctorSubscriptionToResponse(subscription), nil
}

func (u *subscriptionUsecase) HasActiveSubscription(ctx context.Context, doctorID uuid.UUID) (bool, error) {
	subscription, err := u.subscriptionRepo.FindCurrentByDoctor(ctx, doctorID, u.now())
	if err != nil {
		u.log.Warnf("Failed to find doctor subscription: %+v", err)
		return false, err
	}
	return subscription != nil, nil
}

// ExpireSubscriptions flips active subscriptions past their end date to expired
func (u *subscriptionUsecase) ExpireSubscriptions(ctx context.Context) (int64, error) {
	expired, err := u.subscriptionRepo.ExpireEnded(ctx, u.now())
	if err != nil {
		u.log.Warnf("Failed to expire subscriptions: %+v", err)
		return 0, err
	}
	u.log.WithField("expired", expired).Info("Expired ended subscriptions")
	return expired, nil
}

func (u *subscriptionUsecase) findPlan(ctx context.Context, planID uuid.UUID) (*entity.SubscriptionPlan, error) {
	plan, err := u.planRepo.FindByID(ctx, planID)
	if err != nil {
		u.log.Warnf("Failed to find subscription plan: %+v", err)
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

func applyPlanRequest(plan *entity.SubscriptionPlan, req *dto.SubscriptionPlanRequest) {
	plan.Name = req.Name
	plan.Description = req.Description
	plan.DurationDays = req.DurationDays
	plan.Price = req.Price
	plan.Features = req.Features
	plan.SpecialtyCategory = req.SpecialtyCategory
}
