package converter

import (
	"time"

	"doctor-appointment-api/internal/delivery/dto"
	"doctor-appointment-api/internal/domain/entity"
	"doctor-appointment-api/pkg/validator"
)

// PatientProfileToResponse converts a PatientProfile entity to PatientProfileResponse DTO
func PatientProfileToResponse(profile *entity.PatientProfile) *dto.PatientProfileResponse {
	if profile == nil {
		return nil
	}

	allergies := make([]string, 0, len(profile.Allergies))
	for _, a := range profile.Allergies {
		allergies = append(allergies, a.Name)
	}

	return &dto.PatientProfileResponse{
		UserID:         profile.UserID,
		FullName:       profile.User.FullName,
		Email:          profile.User.Email,
		Phone:          profile.User.Phone,
		DateOfBirth:    formatDate(profile.DateOfBirth),
		Gender:         profile.Gender,
		MedicalHistory: MedicalHistoriesToResponses(profile.MedicalHistory),
		Allergies:      allergies,
	}
}

func MedicalHistoryToResponse(history *entity.MedicalHistory) *dto.MedicalHistoryResponse {
	if history == nil {
		return nil
	}
	return &dto.MedicalHistoryResponse{
		ID:            history.ID,
		Condition:     history.Condition,
		DiagnosisDate: formatDate(history.DiagnosisDate),
		Notes:         history.Notes,
		CreatedAt:     history.CreatedAt,
	}
}

func MedicalHistoriesToResponses(histories []entity.MedicalHistory) []dto.MedicalHistoryResponse {
	responses := make([]dto.MedicalHistoryResponse, 0, len(histories))
	for i := range histories {
		responses = append(responses, *MedicalHistoryToResponse(&histories[i]))
	}
	return responses
}

// FavoriteDoctorsToResponses unwraps favorites into the doctors they point at
func FavoriteDoctorsToResponses(favorites []entity.FavoriteDoctor) []dto.DoctorProfileResponse {
	responses := make([]dto.DoctorProfileResponse, 0, len(favorites))
	for i := range favorites {
		if favorites[i].Doctor.UserID == favorites[i].DoctorID {
			responses = append(responses, *DoctorProfileToResponse(&favorites[i].Doctor))
		}
	}
	return responses
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(validator.DateLayout)
}
