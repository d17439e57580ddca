package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RegisterPatientRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FullName    string `json:"full_name" validate:"required,min=3,max=30"`
	Phone       string `json:"phone" validate:"omitempty,phone"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,notfuture"` // Format: YYYY-MM-DD
	Gender      string `json:"gender" validate:"omitempty,oneof=male female other"`
}

// RegisterDoctorRequest is used both for self registration and admin creation of doctors
type RegisterDoctorRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,min=3,max=30"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	DoctorProfileRequest
}

// Response DTOs

type TokenResponse struct {
	AccessToken        string `json:"access_token"`
	RefreshToken       string `json:"refresh_token"`
	ExpiresIn          int64  `json:"expires_in"`
	Role               string `json:"role"`
	SubscriptionStatus string `json:"subscription_status,omitempty"`
}

type UserResponse struct {
	ID             uuid.UUID               `json:"id"`
	Email          string                  `json:"email"`
	Phone          string                  `json:"phone,omitempty"`
	FullName       string                  `json:"full_name"`
	Role           string                  `json:"role"`
	Status         string                  `json:"status"`
	DoctorProfile  *DoctorProfileResponse  `json:"doctor_profile,omitempty"`
	PatientProfile *PatientProfileResponse `json:"patient_profile,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// UserSummaryResponse is the short form of a user embedded in other resources
type UserSummaryResponse struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
}
