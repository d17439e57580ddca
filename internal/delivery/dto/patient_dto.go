package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreatePatientProfileRequest struct {
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,notfuture"` // Format: YYYY-MM-DD
	Gender      string `json:"gender" validate:"omitempty,oneof=male female other"`
}

type UpdatePatientProfileRequest struct {
	FullName    *string `json:"full_name" validate:"omitempty,min=3,max=30"`
	Phone       *string `json:"phone" validate:"omitempty,phone"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty,notfuture"`
	Gender      *string `json:"gender" validate:"omitempty,oneof=male female other"`
}

type MedicalHistoryRequest struct {
	Condition     string `json:"condition" validate:"required,max=255"`
	DiagnosisDate string `json:"diagnosis_date" validate:"omitempty,notfuture"`
	Notes         string `json:"notes" validate:"omitempty,max=1000"`
}

type AllergyRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// Response DTOs

type MedicalHistoryResponse struct {
	ID            uuid.UUID `json:"id"`
	Condition     string    `json:"condition"`
	DiagnosisDate string    `json:"diagnosis_date,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type PatientProfileResponse struct {
	UserID         uuid.UUID                `json:"user_id"`
	FullName       string                   `json:"full_name,omitempty"`
	Email          string                   `json:"email,omitempty"`
	Phone          string                   `json:"phone,omitempty"`
	DateOfBirth    string                   `json:"date_of_birth,omitempty"`
	Gender         string                   `json:"gender,omitempty"`
	MedicalHistory []MedicalHistoryResponse `json:"medical_history"`
	Allergies      []string                 `json:"allergies"`
}
