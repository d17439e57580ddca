package usecase

import (
	"context"
	"errors"
	"fmt"

	"doctor-appointment-api/internal/converter"
	"doctor-appointment-api/internal/delivery/dto"
	"doctor-appointment-api/internal/domain/entity"
	"doctor-appointment-api/internal/domain/repository"
	"doctor-appointment-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound         = errors.New("doctor not found")
	ErrSpecializationNotFound = errors.New("specialization not found")
)

type DoctorProfileUsecase interface {
	ListDoctors(ctx context.Context, filter *entity.DoctorFilter) ([]dto.DoctorProfileResponse, int64, error)
	GetHospitals(ctx context.Context, search string) ([]string, error)
	GetSpecializations(ctx context.Context, search string) ([]dto.SpecializationResponse, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorProfileResponse, error)
	CreateDoctor(ctx context.Context, actorID uuid.UUID, req *dto.RegisterDoctorRequest) (*dto.DoctorProfileResponse, error)
	UpdateDoctor(ctx context.Context, actorID uuid.UUID, actorRoleID int, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorProfileResponse, error)
	DeleteDoctor(ctx context.Context, actorID, doctorID uuid.UUID) error
}

type doctorProfileUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	specializationRepo repository.SpecializationRepository
	availabilityRepo   repository.AvailabilityRepository
	tokenStore         service.TokenStore
	auditService       service.AuditService
}

func NewDoctorProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	specializationRepo repository.SpecializationRepository,
	availabilityRepo repository.AvailabilityRepository,
	tokenStore service.TokenStore,
	auditService service.AuditService,
) DoctorProfileUsecase {
	return &doctorProfileUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		doctorProfileRepo:  doctorProfileRepo,
		specializationRepo: specializationRepo,
		availabilityRepo:   availabilityRepo,
		tokenStore:         tokenStore,
		auditService:       auditService,
	}
}

// ListDoctors runs the page query and the count query concurrently
func (u *doctorProfileUsecase) ListDoctors(ctx context.Context, filter *entity.DoctorFilter) ([]dto.DoctorProfileResponse, int64, error) {
	filter.Page, filter.Limit = NormalizePage(filter.Page, filter.Limit)

	var (
		profiles []entity.DoctorProfile
		total    int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profiles, err = u.doctorProfileRepo.FindAll(gctx, u.db, filter)
		if err != nil {
			return fmt.Errorf("find doctors: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = u.doctorProfileRepo.Count(gctx, u.db, filter)
		if err != nil {
			return fmt.Errorf("count doctors: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, 0, err
	}

	return converter.DoctorProfilesToResponses(profiles), total, nil
}

func (u *doctorProfileUsecase) GetHospitals(ctx context.Context, search string) ([]string, error) {
	hospitals, err := u.doctorProfileRepo.FindHospitals(ctx, u.db, search)
	if err != nil {
		u.log.Warnf("Failed to find hospitals: %+v", err)
		return nil, err
	}
	if hospitals == nil {
		hospitals = []string{}
	}
	return hospitals, nil
}

func (u *doctorProfileUsecase) GetSpecializations(ctx context.Context, search string) ([]dto.SpecializationResponse, error) {
	specializations, err := u.specializationRepo.FindAll(ctx, u.db, search)
	if err != nil {
		u.log.Warnf("Failed to find specializations: %+v", err)
		return nil, err
	}
	return converter.SpecializationsToResponses(specializations), nil
}

func (u *doctorProfileUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorProfileResponse, error) {
	profile, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	profile.Availability, err = u.availabilityRepo.FindByDoctor(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor availability: %+v", err)
		return nil, err
	}

	return converter.DoctorProfileToResponse(profile), nil
}

func (u *doctorProfileUsecase) CreateDoctor(ctx context.Context, actorID uuid.UUID, req *dto.RegisterDoctorRequest) (*dto.DoctorProfileResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	_, profile, err := createDoctorAccount(ctx, tx, u.log, u.userRepo, u.doctorProfileRepo, u.specializationRepo, req)
	if err != nil {
		return nil, err
	}

	response := converter.DoctorProfileToResponse(profile)
	if err := u.auditService.LogCreate(ctx, tx, &actorID, entity.AuditActionDoctorCreate, "doctor_profile", profile.UserID.String(), response); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

// UpdateDoctor is allowed for doctor managers and for the doctor themself
func (u *doctorProfileUsecase) UpdateDoctor(ctx context.Context, actorID uuid.UUID, actorRoleID int, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorProfileResponse, error) {
	if actorID != doctorID && !entity.RoleHasPermission(actorRoleID, entity.PermissionDoctorManage) {
		return nil, ErrForbidden
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.doctorProfileRepo.FindByUserID(ctx, tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}
	oldValue := converter.DoctorProfileToResponse(profile)

	if req.FullName != nil || req.Phone != nil {
		user := profile.User
		if req.FullName != nil {
			user.FullName = *req.FullName
		}
		if req.Phone != nil {
			user.Phone = *req.Phone
		}
		if err := u.userRepo.Update(tx, &user); err != nil {
			u.log.Warnf("Failed to update doctor user: %+v", err)
			return nil, err
		}
		profile.User = user
	}

	if req.SpecializationID != nil && *req.SpecializationID != profile.SpecializationID {
		specialization, err := u.specializationRepo.FindByID(ctx, tx, *req.SpecializationID)
		if err != nil {
			u.log.Warnf("Failed to find specialization: %+v", err)
			return nil, err
		}
		if specialization == nil {
			return nil, ErrSpecializationNotFound
		}
		profile.SpecializationID = specialization.ID
		profile.Specialization = *specialization
	}
	if req.Qualifications != nil {
		profile.Qualifications = req.Qualifications
	}
	if req.YearsOfExperience != nil {
		profile.YearsOfExperience = *req.YearsOfExperience
	}
	if req.ConsultationFee != nil {
		profile.ConsultationFee = *req.ConsultationFee
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.ProfilePicture != nil {
		profile.ProfilePicture = *req.ProfilePicture
	}
	if req.Hospitals != nil {
		profile.Hospitals = req.Hospitals
	}
	if req.Address != nil {
		profile.Address = addressFromRequest(req.Address)
	}

	if err := u.doctorProfileRepo.Update(ctx, tx, profile); err != nil {
		u.log.Warnf("Failed to update doctor profile: %+v", err)
		return nil, err
	}

	response := converter.DoctorProfileToResponse(profile)
	if err := u.auditService.LogUpdate(ctx, tx, &actorID, entity.AuditActionDoctorUpdate, "doctor_profile", doctorID.String(), oldValue, response); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

// DeleteDoctor removes the doctor profile and demotes the account to a patient.
// Outstanding tokens carry the old role, so they are revoked.
func (u *doctorProfileUsecase) DeleteDoctor(ctx context.Context, actorID, doctorID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.doctorProfileRepo.FindByUserID(ctx, tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return err
	}
	if profile == nil {
		return ErrDoctorNotFound
	}

	if _, err := u.doctorProfileRepo.Delete(ctx, tx, doctorID); err != nil {
		u.log.Warnf("Failed to delete doctor profile: %+v", err)
		return err
	}
	if err := u.userRepo.UpdateRole(tx, doctorID, entity.RoleIDPatient); err != nil {
		u.log.Warnf("Failed to demote doctor: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, &actorID, entity.AuditActionDoctorDelete, "doctor_profile", doctorID.String(), converter.DoctorProfileToResponse(profile)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	if err := u.tokenStore.RevokeAll(ctx, doctorID); err != nil {
		u.log.Warnf("Failed to revoke tokens of demoted doctor: %+v", err)
	}
	return nil
}

// createDoctorAccount creates the user and its doctor profile inside tx
func createDoctorAccount(
	ctx context.Context,
	tx *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	specializationRepo repository.SpecializationRepository,
	req *dto.RegisterDoctorRequest,
) (*entity.User, *entity.DoctorProfile, error) {
	specialization, err := specializationRepo.FindByID(ctx, tx, req.SpecializationID)
	if err != nil {
		log.Warnf("Failed to find specialization: %+v", err)
		return nil, nil, err
	}
	if specialization == nil {
		return nil, nil, ErrSpecializationNotFound
	}

	user, err := createUserAccount(tx, log, userRepo, req.Email, req.Password, req.FullName, req.Phone, entity.RoleIDDoctor)
	if err != nil {
		return nil, nil, err
	}

	profile := &entity.DoctorProfile{
		UserID:            user.ID,
		SpecializationID:  specialization.ID,
		Qualifications:    req.Qualifications,
		YearsOfExperience: req.YearsOfExperience,
		ConsultationFee:   req.ConsultationFee,
		Bio:               req.Bio,
		ProfilePicture:    req.ProfilePicture,
		Hospitals:         req.Hospitals,
		Address:           addressFromRequest(&req.Address),
	}
	if err := doctorProfileRepo.Create(ctx, tx, profile); err != nil {
		log.Warnf("Failed to create doctor profile: %+v", err)
		return nil, nil, err
	}

	profile.User = *user
	profile.Specialization = *specialization
	return user, profile, nil
}

func addressFromRequest(req *dto.AddressRequest) entity.Address {
	return entity.Address{
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		Country:    req.Country,
		PostalCode: req.PostalCode,
	}
}
