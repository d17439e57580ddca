package dto

import (
	"time"

	"doctor-appointment-api/internal/domain/entity"
)

// Response DTOs

type AuditLogResponse struct {
	ID        int64                `json:"id"`
	User      *UserSummaryResponse `json:"user,omitempty"`
	Role      string               `json:"role,omitempty"`
	Action    string               `json:"action"`
	Metadata  entity.JSON          `json:"metadata"`
	CreatedAt time.Time            `json:"created_at"`
}
