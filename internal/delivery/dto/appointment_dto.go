package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID string    `json:"doctor_id" validate:"required,uuid"`
	DateTime time.Time `json:"date_time" validate:"required"`
	Notes    string    `json:"notes" validate:"omitempty,max=1000"`
}

type RescheduleAppointmentRequest struct {
	NewDateTime time.Time `json:"new_date_time" validate:"required"`
}

// Response DTOs

type AppointmentResponse struct {
	ID              uuid.UUID            `json:"id"`
	DoctorID        uuid.UUID            `json:"doctor_id"`
	PatientID       uuid.UUID            `json:"patient_id"`
	DateTime        time.Time            `json:"date_time"`
	DurationMinutes int                  `json:"duration_minutes"`
	Status          string               `json:"status"`
	Notes           string               `json:"notes,omitempty"`
	Doctor          *UserSummaryResponse `json:"doctor,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

type AvailableSlotsResponse struct {
	AvailableSlots []time.Time `json:"available_slots"`
}

type UpcomingAppointmentsResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}
