package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type SubscriptionPlanRequest struct {
	Name              string          `json:"name" validate:"required,max=100"`
	Description       string          `json:"description" validate:"omitempty,max=1000"`
	DurationDays      int             `json:"duration_days" validate:"required,gt=0"`
	Price             decimal.Decimal `json:"price"`
	Features          []string        `json:"features" validate:"omitempty,dive,required"`
	SpecialtyCategory string          `json:"specialty_category" validate:"omitempty,max=100"`
}

type PaymentDetailsRequest struct {
	BkashNumber string `json:"bkash_number" validate:"omitempty,max=20"`
	BankName    string `json:"bank_name" validate:"omitempty,max=100"`
	BankBranch  string `json:"bank_branch" validate:"omitempty,max=100"`
}

type SubscribeRequest struct {
	PlanID         string                `json:"plan_id" validate:"required,uuid"`
	PaymentMethod  string                `json:"payment_method" validate:"required,oneof=bkash bank"`
	PaymentDetails PaymentDetailsRequest `json:"payment_details"`
}

type PaymentInfoRequest struct {
	BkashNumber       string `json:"bkash_number" validate:"required,max=20"`
	BankAccountName   string `json:"bank_account_name" validate:"required,max=100"`
	BankAccountNumber string `json:"bank_account_number" validate:"required,max=50"`
	BankName          string `json:"bank_name" validate:"required,max=100"`
	BankBranch        string `json:"bank_branch" validate:"required,max=100"`
}

// Response DTOs

type SubscriptionPlanResponse struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	DurationDays      int             `json:"duration_days"`
	Price             decimal.Decimal `json:"price"`
	Features          []string        `json:"features"`
	SpecialtyCategory string          `json:"specialty_category,omitempty"`
}

type DoctorSubscriptionResponse struct {
	ID            uuid.UUID                 `json:"id"`
	DoctorID      uuid.UUID                 `json:"doctor_id"`
	Doctor        *UserSummaryResponse      `json:"doctor,omitempty"`
	Plan          *SubscriptionPlanResponse `json:"plan,omitempty"`
	StartDate     time.Time                 `json:"start_date"`
	EndDate       time.Time                 `json:"end_date"`
	Status        string                    `json:"status"`
	PaymentStatus string                    `json:"payment_status"`
	PaymentMethod string                    `json:"payment_method"`
	BkashNumber   string                    `json:"bkash_number,omitempty"`
	BankName      string                    `json:"bank_name,omitempty"`
	BankBranch    string                    `json:"bank_branch,omitempty"`
	CreatedAt     time.Time                 `json:"created_at"`
}

type PaymentInfoResponse struct {
	BkashNumber       string    `json:"bkash_number"`
	BankAccountName   string    `json:"bank_account_name"`
	BankAccountNumber string    `json:"bank_account_number"`
	BankName          string    `json:"bank_name"`
	BankBranch        string    `json:"bank_branch"`
	UpdatedAt         time.Time `json:"updated_at"`
}
