package handler

import (
	"encoding/json"
	"net/http"

	"doctor-appointment-api/internal/delivery/dto"
	"doctor-appointment-api/internal/usecase"
	"doctor-appointment-api/pkg/response"
	"doctor-appointment-api/pkg/validator"
)

type SubscriptionHandler struct {
	subscriptionUsecase usecase.SubscriptionUsecase
	validator           *validator.CustomValidator
}

func NewSubscriptionHandler(subscriptionUsecase usecase.SubscriptionUsecase, validator *validator.CustomValidator) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionUsecase: subscriptionUsecase,
		validator:           validator,
	}
}

// ListPlans handles listing subscription plans
// @Summary List plans
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} response.Response
// @Router /subscriptions/plans [get]
func (h *SubscriptionHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.subscriptionUsecase.ListPlans(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get plans")
		return
	}

	response.Success(w, http.StatusOK, "Plans retrieved successfully", plans)
}

// @Router /subscriptions/plans/{id} [get]
func (h *SubscriptionHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	planID, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid plan ID")
		return
	}

	plan, err := h.subscriptionUsecase.GetPlan(r.Context(), planID)
	if err != nil {
		h.writeError(w, err, "Failed to get plan")
		return
	}

	response.Success(w, http.StatusOK, "Plan retrieved successfully", plan)
}

// CreatePlan handles admin creation of a plan
// @Summary Create plan
// @Tags Subscriptions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SubscriptionPlanRequest true "Plan"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /subscriptions/plans [post]
func (h *SubscriptionHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.SubscriptionPlanRequest
	if !h.decode(w, r, &req) {
		return
	}

	plan, err := h.subscriptionUsecase.CreatePlan(r.Context(), actorID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to create plan")
		return
	}

	response.Success(w, http.StatusCreated, "Plan created successfully", plan)
}

// @Router /subscriptions/plans/{id} [put]
func (h *SubscriptionHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}
	planID, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid plan ID")
		return
	}

	var req dto.SubscriptionPlanRequest
	if !h.decode(w, r, &req) {
		return
	}

	plan, err := h.subscriptionUsecase.UpdatePlan(r.Context(), actorID, planID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update plan")
		return
	}

	response.Success(w, http.StatusOK, "Plan updated successfully", plan)
}

// @Router /subscriptions/plans/{id} [delete]
func (h *SubscriptionHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}
	planID, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid plan ID")
		return
	}

	if err := h.subscriptionUsecase.DeletePlan(r.Context(), actorID, planID); err != nil {
		h.writeError(w, err, "Failed to delete plan")
		return
	}

	response.Success(w, http.StatusOK, "Plan deleted successfully", nil)
}

// GetPaymentInfo handles the public payment instructions
// @Summary Get payment info
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /subscriptions/payment-info [get]
func (h *SubscriptionHandler) GetPaymentInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.subscriptionUsecase.GetPaymentInfo(r.Context())
	if err != nil {
		h.writeError(w, err, "Failed to get payment info")
		return
	}

	response.Success(w, http.StatusOK, "Payment info retrieved successfully", info)
}

// @Router /subscriptions/payment-info [put]
func (h *SubscriptionHandler) UpdatePaymentInfo(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.PaymentInfoRequest
	if !h.decode(w, r, &req) {
		return
	}

	info, err := h.subscriptionUsecase.UpdatePaymentInfo(r.Context(), actorID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update payment info")
		return
	}

	response.Success(w, http.StatusOK, "Payment info updated successfully", info)
}

// @Router /subscriptions/pending [get]
func (h *SubscriptionHandler) GetPendingSubscriptions(w http.ResponseWriter, r *http.Request) {
	subscriptions, err := h.subscriptionUsecase.GetPendingSubscriptions(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get pending subscriptions")
		return
	}

	response.Success(w, http.StatusOK, "Pending subscriptions retrieved successfully", subscriptions)
}

// ApproveSubscription handles confirming a pending payment
// @Summary Approve subscription payment
// @Tags Subscriptions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Subscription ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /subscriptions/{id}/approve [put]
func (h *SubscriptionHandler) ApproveSubscription(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}
	subscriptionID, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid subscription ID")
		return
	}

	subscription, err := h.subscriptionUsecase.ApproveSubscription(r.Context(), actorID, subscriptionID)
	if err != nil {
		h.writeError(w, err, "Failed to approve subscription")
		return
	}

	response.Success(w, http.StatusOK, "Subscription approved successfully", subscription)
}

// @Router /subscriptions/{id}/reject [put]
func (h *SubscriptionHandler) RejectSubscription(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}
	subscriptionID, err := pathUUID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid subscription ID")
		return
	}

	subscription, err := h.subscriptionUsecase.RejectSubscription(r.Context(), actorID, subscriptionID)
	if err != nil {
		h.writeError(w, err, "Failed to reject subscription")
		return
	}

	response.Success(w, http.StatusOK, "Subscription rejected successfully", subscription)
}

// Subscribe handles a doctor buying a plan
// @Summary Subscribe to a plan
// @Tags Subscriptions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SubscribeRequest true "Subscribe Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /subscriptions/subscribe [post]
func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.SubscribeRequest
	if !h.decode(w, r, &req) {
		return
	}

	subscription, err := h.subscriptionUsecase.Subscribe(r.Context(), doctorID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to subscribe")
		return
	}

	response.Success(w, http.StatusCreated, "Subscription created successfully", subscription)
}

// @Router /subscriptions/me [get]
func (h *SubscriptionHandler) GetMySubscription(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUser(w, r)
	if !ok {
		return
	}

	subscription, err := h.subscriptionUsecase.GetMySubscription(r.Context(), doctorID)
	if err != nil {
		h.writeError(w, err, "Failed to get subscription")
		return
	}

	response.Success(w, http.StatusOK, "Subscription retrieved successfully", subscription)
}

func (h *SubscriptionHandler) decode(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	if err := h.validator.Validate(req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return false
	}
	return true
}

func (h *SubscriptionHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrPlanNotFound, usecase.ErrPaymentInfoNotFound, usecase.ErrSubscriptionNotFound, usecase.ErrNoActiveSubscription:
		response.NotFound(w, err.Error())
	case usecase.ErrPlanNameExists, usecase.ErrPlanInUse:
		response.Conflict(w, err.Error())
	case usecase.ErrPaymentDetailsRequired, usecase.ErrSubscriptionNotPending:
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
