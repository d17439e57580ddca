package usecase

import (
	"context"
	"errors"

	"doctor-appointment-api/internal/converter"
	"doctor-appointment-api/internal/delivery/dto"
	"doctor-appointment-api/internal/domain/entity"
	"doctor-appointment-api/internal/domain/repository"
	"doctor-appointment-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound          = errors.New("patient profile not found")
	ErrPatientProfileExists     = errors.New("patient profile already exists")
	ErrMedicalHistoryNotFound   = errors.New("medical history not found")
	ErrAllergyExists            = errors.New("allergy already recorded")
	ErrAllergyNotFound          = errors.New("allergy not found")
	ErrFavoriteDoctorExists     = errors.New("doctor is already a favorite")
	ErrFavoriteDoctorNotFound   = errors.New("favorite doctor not found")
	ErrPatientProfileNotAllowed = errors.New("only patients can have a patient profile")
)

type PatientProfileUsecase interface {
	RegisterProfile(ctx context.Context, userID uuid.UUID, req *dto.CreatePatientProfileRequest) (*dto.PatientProfileResponse, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.PatientProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdatePatientProfileRequest) (*dto.PatientProfileResponse, error)
	AddMedicalHistory(ctx context.Context, userID uuid.UUID, req *dto.MedicalHistoryRequest) (*dto.MedicalHistoryResponse, error)
	UpdateMedicalHistory(ctx context.Context, userID, historyID uuid.UUID, req *dto.MedicalHistoryRequest) (*dto.MedicalHistoryResponse, error)
	DeleteMedicalHistory(ctx context.Context, userID, historyID uuid.UUID) error
	AddAllergy(ctx context.Context, userID uuid.UUID, req *dto.AllergyRequest) ([]string, error)
	RemoveAllergy(ctx context.Context, userID uuid.UUID, name string) error
	AddFavoriteDoctor(ctx context.Context, userID, doctorID uuid.UUID) error
	RemoveFavoriteDoctor(ctx context.Context, userID, doctorID uuid.UUID) error
	GetFavoriteDoctors(ctx context.Context, userID uuid.UUID) ([]dto.DoctorProfileResponse, error)
}

type patientProfileUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	patientProfileRepo repository.PatientProfileRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	auditService       service.AuditService
}

func NewPatientProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientProfileRepo repository.PatientProfileRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
) PatientProfileUsecase {
	return &patientProfileUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		patientProfileRepo: patientProfileRepo,
		doctorProfileRepo:  doctorProfileRepo,
		auditService:       auditService,
	}
}

// RegisterProfile creates the patient profile of an account that has none yet
func (u *patientProfileUsecase) RegisterProfile(ctx context.Context, userID uuid.UUID, req *dto.CreatePatientProfileRequest) (*dto.PatientProfileResponse, error) {
	dob, err := parseOptionalDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.RoleID != entity.RoleIDPatient {
		return nil, ErrPatientProfileNotAllowed
	}

	profile := &entity.PatientProfile{
		UserID:      userID,
		DateOfBirth: dob,
		Gender:      req.Gender,
	}
	if err := u.patientProfileRepo.Create(ctx, tx, profile); err != nil {
		if isDuplicateKeyError(err, "patient_profiles") {
			return nil, ErrPatientProfileExists
		}
		u.log.Warnf("Failed to create patient profile: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, &userID, entity.AuditActionProfileUpdate, "patient_profile", userID.String(), req); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	profile.User = *user
	return converter.PatientProfileToResponse(profile), nil
}

func (u *patientProfileUsecase) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.PatientProfileResponse, error) {
	profile, err := u.findProfile(ctx, u.db, userID)
	if err != nil {
		return nil, err
	}
	return converter.PatientProfileToResponse(profile), nil
}

func (u *patientProfileUsecase) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdatePatientProfileRequest) (*dto.PatientProfileResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.findProfile(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	oldValue := converter.PatientProfileToResponse(profile)

	if req.FullName != nil || req.Phone != nil {
		user := profile.User
		if req.FullName != nil {
			user.FullName = *req.FullName
		}
		if req.Phone != nil {
			user.Phone = *req.Phone
		}
		if err := u.userRepo.Update(tx, &user); err != nil {
			u.log.Warnf("Failed to update user: %+v", err)
			return nil, err
		}
		profile.User = user
	}

	if req.DateOfBirth != nil {
		dob, err := parseOptionalDate(*req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		profile.DateOfBirth = dob
	}
	if req.Gender != nil {
		profile.Gender = *req.Gender
	}

	if err := u.patientProfileRepo.Update(ctx, tx, profile); err != nil {
		u.log.Warnf("Failed to update patient profile: %+v", err)
		return nil, err
	}

	response := converter.PatientProfileToResponse(profile)
	if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionProfileUpdate, "patient_profile", userID.String(), oldValue, response); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

func (u *patientProfileUsecase) AddMedicalHistory(ctx context.Context, userID uuid.UUID, req *dto.MedicalHistoryRequest) (*dto.MedicalHistoryResponse, error) {
	diagnosisDate, err := parseOptionalDate(req.DiagnosisDate)
	if err != nil {
		return nil, err
	}
	if _, err := u.findProfile(ctx, u.db, userID); err != nil {
		return nil, err
	}

	history := &entity.MedicalHistory{
		PatientID:     userID,
		Condition:     req.Condition,
		DiagnosisDate: diagnosisDate,
		Notes:         req.Notes,
	}
	if err := u.patientProfileRepo.CreateMedicalHistory(ctx, u.db, history); err != nil {
		u.log.Warnf("Failed to create medical history: %+v", err)
		return nil, err
	}

	return converter.MedicalHistoryToResponse(history), nil
}

func (u *patientProfileUsecase) UpdateMedicalHistory(ctx context.Context, userID, historyID uuid.UUID, req *dto.MedicalHistoryRequest) (*dto.MedicalHistoryResponse, error) {
	diagnosisDate, err := parseOptionalDate(req.DiagnosisDate)
	if err != nil {
		return nil, err
	}

	history, err := u.patientProfileRepo.FindMedicalHistory(ctx, u.db, userID, historyID)
	if err != nil {
		u.log.Warnf("Failed to find medical history: %+v", err)
		return nil, err
	}
	if history == nil {
		return nil, ErrMedicalHistoryNotFound
	}

	history.Condition = req.Condition
	history.DiagnosisDate = diagnosisDate
	history.Notes = req.Notes
	if err := u.patientProfileRepo.UpdateMedicalHistory(ctx, u.db, history); err != nil {
		u.log.Warnf("Failed to update medical history: %+v", err)
		return nil, err
	}

	return converter.MedicalHistoryToResponse(history), nil
}

func (u *patientProfileUsecase) DeleteMedicalHistory(ctx context.Context, userID, historyID uuid.UUID) error {
	affected, err := u.patientProfileRepo.DeleteMedicalHistory(ctx, u.db, userID, historyID)
	if err != nil {
		u.log.Warnf("Failed to delete medical history: %+v", err)
		return err
	}
	if affected == 0 {
		return ErrMedicalHistoryNotFound
	}
	return nil
}

// AddAllergy returns the patient's full allergy list after the insert
func (u *patientProfileUsecase) AddAllergy(ctx context.Context, userID uuid.UUID, req *dto.AllergyRequest) ([]string, error) {
	profile, err := u.findProfile(ctx, u.db, userID)
	if err != nil {
		return nil, err
	}

	allergy := &entity.Allergy{PatientID: userID, Name: req.Name}
	if err := u.patientProfileRepo.CreateAllergy(ctx, u.db, allergy); err != nil {
		if isDuplicateKeyError(err, "patient_allergies") {
			return nil, ErrAllergyExists
		}
		u.log.Warnf("Failed to create allergy: %+v", err)
		return nil, err
	}

	allergies := make([]string, 0, len(profile.Allergies)+1)
	for _, a := range profile.Allergies {
		allergies = append(allergies, a.Name)
	}
	return append(allergies, allergy.Name), nil
}

func (u *patientProfileUsecase) RemoveAllergy(ctx context.Context, userID uuid.UUID, name string) error {
	affected, err := u.patientProfileRepo.DeleteAllergy(ctx, u.db, userID, name)
	if err != nil {
		u.log.Warnf("Failed to delete allergy: %+v", err)
		return err
	}
	if affected == 0 {
		return ErrAllergyNotFound
	}
	return nil
}

func (u *patientProfileUsecase) AddFavoriteDoctor(ctx context.Context, userID, doctorID uuid.UUID) error {
	if _, err := u.findProfile(ctx, u.db, userID); err != nil {
		return err
	}

	doctor, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	favorite := &entity.FavoriteDoctor{PatientID: userID, DoctorID: doctorID}
	if err := u.patientProfileRepo.CreateFavoriteDoctor(ctx, u.db, favorite); err != nil {
		if isDuplicateKeyError(err, "favorite_doctors") {
			return ErrFavoriteDoctorExists
		}
		u.log.Warnf("Failed to create favorite doctor: %+v", err)
		return err
	}
	return nil
}

func (u *patientProfileUsecase) RemoveFavoriteDoctor(ctx context.Context, userID, doctorID uuid.UUID) error {
	affected, err := u.patientProfileRepo.DeleteFavoriteDoctor(ctx, u.db, userID, doctorID)
	if err != nil {
		u.log.Warnf("Failed to delete favorite doctor: %+v", err)
		return err
	}
	if affected == 0 {
		return ErrFavoriteDoctorNotFound
	}
	return nil
}

func (u *patientProfileUsecase) GetFavoriteDoctors(ctx context.Context, userID uuid.UUID) ([]dto.DoctorProfileResponse, error) {
	if _, err := u.findProfile(ctx, u.db, userID); err != nil {
		return nil, err
	}

	favorites, err := u.patientProfileRepo.FindFavoriteDoctors(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find favorite doctors: %+v", err)
		return nil, err
	}
	return converter.FavoriteDoctorsToResponses(favorites), nil
}

func (u *patientProfileUsecase) findProfile(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	profile, err := u.patientProfileRepo.FindByUserID(ctx, db, userID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPatientNotFound
	}
	return profile, nil
}
