package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type AddressRequest struct {
	Street     string `json:"street" validate:"omitempty,max=255"`
	City       string `json:"city" validate:"omitempty,max=100"`
	State      string `json:"state" validate:"omitempty,max=100"`
	Country    string `json:"country" validate:"omitempty,max=100"`
	PostalCode string `json:"postal_code" validate:"omitempty,max=20"`
}

type DoctorProfileRequest struct {
	SpecializationID  int             `json:"specialization_id" validate:"required,gt=0"`
	Qualifications    []string        `json:"qualifications" validate:"omitempty,dive,required,max=255"`
	YearsOfExperience int             `json:"years_of_experience" validate:"gte=0,lte=80"`
	ConsultationFee   decimal.Decimal `json:"consultation_fee"`
	Bio               string          `json:"bio" validate:"omitempty,max=500"`
	ProfilePicture    string          `json:"profile_picture" validate:"omitempty,url"`
	Hospitals         []string        `json:"hospitals" validate:"omitempty,dive,required,max=255"`
	Address           AddressRequest  `json:"address"`
}

// UpdateDoctorRequest only changes the fields that are present
type UpdateDoctorRequest struct {
	FullName          *string          `json:"full_name" validate:"omitempty,min=3,max=30"`
	Phone             *string          `json:"phone" validate:"omitempty,phone"`
	SpecializationID  *int             `json:"specialization_id" validate:"omitempty,gt=0"`
	Qualifications    []string         `json:"qualifications" validate:"omitempty,dive,required,max=255"`
	YearsOfExperience *int             `json:"years_of_experience" validate:"omitempty,gte=0,lte=80"`
	ConsultationFee   *decimal.Decimal `json:"consultation_fee"`
	Bio               *string          `json:"bio" validate:"omitempty,max=500"`
	ProfilePicture    *string          `json:"profile_picture" validate:"omitempty,url"`
	Hospitals         []string         `json:"hospitals" validate:"omitempty,dive,required,max=255"`
	Address           *AddressRequest  `json:"address"`
}

// Response DTOs

type AddressResponse struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

type SpecializationResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type DoctorProfileResponse struct {
	UserID            uuid.UUID               `json:"user_id"`
	FullName          string                  `json:"full_name,omitempty"`
	Email             string                  `json:"email,omitempty"`
	Phone             string                  `json:"phone,omitempty"`
	Specialization    *SpecializationResponse `json:"specialization,omitempty"`
	Qualifications    []string                `json:"qualifications"`
	YearsOfExperience int                     `json:"years_of_experience"`
	ConsultationFee   decimal.Decimal         `json:"consultation_fee"`
	Bio               string                  `json:"bio,omitempty"`
	ProfilePicture    string                  `json:"profile_picture,omitempty"`
	Hospitals         []string                `json:"hospitals"`
	Address           AddressResponse         `json:"address"`
	Rating            float64                 `json:"rating"`
	ReviewsCount      int                     `json:"reviews_count"`
	Availability      []AvailabilityResponse  `json:"availability,omitempty"`
}
