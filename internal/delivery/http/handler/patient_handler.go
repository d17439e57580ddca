package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"doctor-appointment-api/internal/delivery/dto"
	"doctor-appointment-api/internal/usecase"
	"doctor-appointment-api/pkg/response"
	"doctor-appointment-api/pkg/validator"

	"github.com/gorilla/mux"
)

type PatientHandler struct {
	patientUsecase usecase.PatientProfileUsecase
	validator      *validator.CustomValidator
}

func NewPatientHandler(patientUsecase usecase.PatientProfileUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

func (h *PatientHandler) RegisterProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.CreatePatientProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	profile, err := h.patientUsecase.RegisterProfile(r.Context(), userID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to create patient profile")
		return
	}

	response.Success(w, http.StatusCreated, "Patient profile created successfully", profile)
}

func (h *PatientHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	profile, err := h.patientUsecase.GetProfile(r.Context(), userID)
	if err != nil {
		h.writeError(w, err, "Failed to get patient profile")
		return
	}

	response.Success(w, http.StatusOK, "Patient profile retrieved successfully", profile)
}

func (h *PatientHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.UpdatePatientProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	profile, err := h.patientUsecase.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update patient profile")
		return
	}

	response.Success(w, http.StatusOK, "Patient profile updated successfully", profile)
}

func (h *PatientHandler) AddMedicalHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.MedicalHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	history, err := h.patientUsecase.AddMedicalHistory(r.Context(), userID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to add medical history")
		return
	}

	response.Success(w, http.StatusCreated, "Medical history added successfully", history)
}

func (h *PatientHandler) UpdateMedicalHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	historyID, err := pathUUID(r, "historyId")
	if err != nil {
		response.BadRequest(w, "Invalid medical history ID")
		return
	}

	var req dto.MedicalHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	history, err := h.patientUsecase.UpdateMedicalHistory(r.Context(), userID, historyID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update medical history")
		return
	}

	response.Success(w, http.StatusOK, "Medical history updated successfully", history)
}

func (h *PatientHandler) DeleteMedicalHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	historyID, err := pathUUID(r, "historyId")
	if err != nil {
		response.BadRequest(w, "Invalid medical history ID")
		return
	}

	if err := h.patientUsecase.DeleteMedicalHistory(r.Context(), userID, historyID); err != nil {
		h.writeError(w, err, "Failed to delete medical history")
		return
	}

	response.Success(w, http.StatusOK, "Medical history deleted successfully", nil)
}

func (h *PatientHandler) AddAllergy(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.AllergyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	req.Name = strings.TrimSpace(req.Name)

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	allergies, err := h.patientUsecase.AddAllergy(r.Context(), userID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to add allergy")
		return
	}

	response.Success(w, http.StatusCreated, "Allergy added successfully", allergies)
}

func (h *PatientHandler) RemoveAllergy(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.patientUsecase.RemoveAllergy(r.Context(), userID, mux.Vars(r)["allergy"]); err != nil {
		h.writeError(w, err, "Failed to remove allergy")
		return
	}

	response.Success(w, http.StatusOK, "Allergy removed successfully", nil)
}

func (h *PatientHandler) AddFavoriteDoctor(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	doctorID, err := pathUUID(r, "doctorId")
	if err != nil {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	if err := h.patientUsecase.AddFavoriteDoctor(r.Context(), userID, doctorID); err != nil {
		h.writeError(w, err, "Failed to add favorite doctor")
		return
	}

	response.Success(w, http.StatusCreated, "Doctor added to favorites", nil)
}

func (h *PatientHandler) RemoveFavoriteDoctor(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	doctorID, err := pathUUID(r, "doctorId")
	if err != nil {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	if err := h.patientUsecase.RemoveFavoriteDoctor(r.Context(), userID, doctorID); err != nil {
		h.writeError(w, err, "Failed to remove favorite doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor removed from favorites", nil)
}

func (h *PatientHandler) GetFavoriteDoctors(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	doctors, err := h.patientUsecase.GetFavoriteDoctors(r.Context(), userID)
	if err != nil {
		h.writeError(w, err, "Failed to get favorite doctors")
		return
	}

	response.Success(w, http.StatusOK, "Favorite doctors retrieved successfully", doctors)
}

func (h *PatientHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrPatientNotFound, usecase.ErrMedicalHistoryNotFound, usecase.ErrAllergyNotFound,
		usecase.ErrFavoriteDoctorNotFound, usecase.ErrDoctorNotFound, usecase.ErrUserNotFound:
		response.NotFound(w, err.Error())
	case usecase.ErrPatientProfileExists, usecase.ErrAllergyExists, usecase.ErrFavoriteDoctorExists:
		response.Conflict(w, err.Error())
	case usecase.ErrPatientProfileNotAllowed:
		response.Forbidden(w, err.Error())
	case usecase.ErrInvalidDateFormat:
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
