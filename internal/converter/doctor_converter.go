package converter

import (
	"doctor-appointment-api/internal/delivery/dto"
	"doctor-appointment-api/internal/domain/entity"
)

// DoctorProfileToResponse converts a DoctorProfile entity, flattening the owning user when loaded
func DoctorProfileToResponse(profile *entity.DoctorProfile) *dto.DoctorProfileResponse {
	if profile == nil {
		return nil
	}

	response := &dto.DoctorProfileResponse{
		UserID:            profile.UserID,
		FullName:          profile.User.FullName,
		Email:             profile.User.Email,
		Phone:             profile.User.Phone,
		Qualifications:    nonNil(profile.Qualifications),
		YearsOfExperience: profile.YearsOfExperience,
		ConsultationFee:   profile.ConsultationFee,
		Bio:               profile.Bio,
		ProfilePicture:    profile.ProfilePicture,
		Hospitals:         nonNil(profile.Hospitals),
		Address: dto.AddressResponse{
			Street:     profile.Address.Street,
			City:       profile.Address.City,
			State:      profile.Address.State,
			Country:    profile.Address.Country,
			PostalCode: profile.Address.PostalCode,
		},
		Rating:       profile.Rating,
		ReviewsCount: profile.ReviewsCount,
	}

	if profile.Specialization.ID != 0 {
		response.Specialization = SpecializationToResponse(&profile.Specialization)
	}
	if len(profile.Availability) > 0 {
		response.Availability = AvailabilitiesToResponses(profile.Availability)
	}

	return response
}

func DoctorProfilesToResponses(profiles []entity.DoctorProfile) []dto.DoctorProfileResponse {
	responses := make([]dto.DoctorProfileResponse, 0, len(profiles))
	for i := range profiles {
		responses = append(responses, *DoctorProfileToResponse(&profiles[i]))
	}
	return responses
}

func SpecializationToResponse(specialization *entity.Specialization) *dto.SpecializationResponse {
	return &dto.SpecializationResponse{
		ID:          specialization.ID,
		Name:        specialization.Name,
		Description: specialization.Description,
	}
}

func SpecializationsToResponses(specializations []entity.Specialization) []dto.SpecializationResponse {
	responses := make([]dto.SpecializationResponse, 0, len(specializations))
	for i := range specializations {
		responses = append(responses, *SpecializationToResponse(&specializations[i]))
	}
	return responses
}

func nonNil(list entity.StringList) []string {
	if list == nil {
		return []string{}
	}
	return list
}
