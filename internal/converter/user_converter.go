package converter

import (
	"doctor-appointment-api/internal/delivery/dto"
	"doctor-appointment-api/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO, including any loaded profile
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:             user.ID,
		Email:          user.Email,
		Phone:          user.Phone,
		FullName:       user.FullName,
		Role:           entity.RoleNameByID(user.RoleID),
		Status:         string(user.Status),
		DoctorProfile:  DoctorProfileToResponse(user.DoctorProfile),
		PatientProfile: PatientProfileToResponse(user.PatientProfile),
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

// UserToSummary returns nil for users that were not loaded
func UserToSummary(user *entity.User) *dto.UserSummaryResponse {
	if user == nil || user.Email == "" {
		return nil
	}
	return &dto.UserSummaryResponse{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
	}
}
