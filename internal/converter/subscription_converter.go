package converter

import (
	"doctor-appointment-api/internal/delivery/dto"
	"doctor-appointment-api/internal/domain/entity"
)

func SubscriptionPlanToResponse(plan *entity.SubscriptionPlan) *dto.SubscriptionPlanResponse {
	if plan == nil {
		return nil
	}
	return &dto.SubscriptionPlanResponse{
		ID:                plan.ID,
		Name:              plan.Name,
		Description:       plan.Description,
		DurationDays:      plan.DurationDays,
		Price:             plan.Price,
		Features:          nonNil(plan.Features),
		SpecialtyCategory: plan.SpecialtyCategory,
	}
}

func SubscriptionPlansToResponses(plans []entity.SubscriptionPlan) []dto.SubscriptionPlanResponse {
	responses := make([]dto.SubscriptionPlanResponse, 0, len(plans))
	for i := range plans {
		responses = append(responses, *SubscriptionPlanToResponse(&plans[i]))
	}
	return responses
}

// DoctorSubscriptionToResponse includes the plan only when it was preloaded
func DoctorSubscriptionToResponse(subscription *entity.DoctorSubscription) *dto.DoctorSubscriptionResponse {
	if subscription == nil {
		return nil
	}

	response := &dto.DoctorSubscriptionResponse{
		ID:            subscription.ID,
		DoctorID:      subscription.DoctorID,
		Doctor:        UserToSummary(subscription.Doctor),
		StartDate:     subscription.StartDate,
		EndDate:       subscription.EndDate,
		Status:        string(subscription.Status),
		PaymentStatus: string(subscription.PaymentStatus),
		PaymentMethod: subscription.PaymentMethod,
		BkashNumber:   subscription.BkashNumber,
		BankName:      subscription.BankName,
		BankBranch:    subscription.BankBranch,
		CreatedAt:     subscription.CreatedAt,
	}
	if subscription.Plan.ID == subscription.PlanID {
		response.Plan = SubscriptionPlanToResponse(&subscription.Plan)
	}
	return response
}

func DoctorSubscriptionsToResponses(subscriptions []entity.DoctorSubscription) []dto.DoctorSubscriptionResponse {
	responses := make([]dto.DoctorSubscriptionResponse, 0, len(subscriptions))
	for i := range subscriptions {
		responses = append(responses, *DoctorSubscriptionToResponse(&subscriptions[i]))
	}
	return responses
}

func PaymentInfoToResponse(info *entity.PaymentInfo) *dto.PaymentInfoResponse {
	if info == nil {
		return nil
	}
	return &dto.PaymentInfoResponse{
		BkashNumber:       info.BkashNumber,
		BankAccountName:   info.BankAccountName,
		BankAccountNumber: info.BankAccountNumber,
		BankName:          info.BankName,
		BankBranch:        info.BankBranch,
		UpdatedAt:         info.UpdatedAt,
	}
}
