package dto

import "github.com/google/uuid"

// Request DTOs

type AvailabilityWindowRequest struct {
	DayOfWeek int    `json:"day_of_week" validate:"gte=0,lte=6"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
}

// UpdateAvailabilityRequest replaces the whole weekly schedule; an empty list clears it
type UpdateAvailabilityRequest struct {
	Availability []AvailabilityWindowRequest `json:"availability" validate:"max=7,dive"`
}

// Response DTOs

type AvailabilityResponse struct {
	ID        uuid.UUID `json:"id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	DayOfWeek int       `json:"day_of_week"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
}
