package seeder

import (
	"context"
	"errors"
	"fmt"

	"doctor-appointment-api/internal/delivery/dto"
	"doctor-appointment-api/internal/domain/entity"
	"doctor-appointment-api/internal/domain/repository"
	"doctor-appointment-api/internal/usecase"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password of every generated demo doctor
const DemoPassword = "Demo@12345"

var defaultRoles = []entity.Role{
	{ID: entity.RoleIDAdmin, RoleName: entity.RoleAdmin, Description: "System administrator"},
	{ID: entity.RoleIDDoctor, RoleName: entity.RoleDoctor, Description: "Doctor listed in the directory"},
	{ID: entity.RoleIDPatient, RoleName: entity.RolePatient, Description: "Patient booking appointments"},
}

var defaultSpecializations = []entity.Specialization{
	{Name: "Cardiology", Description: "Heart and blood vessel disorders"},
	{Name: "Neurology", Description: "Disorders of the nervous system"},
	{Name: "Pediatrics", Description: "Medical care of infants, children and adolescents"},
	{Name: "Orthopedics", Description: "Bones, joints, ligaments and muscles"},
	{Name: "Dermatology", Description: "Skin, hair and nail conditions"},
}

var defaultPaymentInfo = entity.PaymentInfo{
	BkashNumber:       "+8801700000000",
	BankAccountName:   "Doctor Appointment Services",
	BankAccountNumber: "0000000000000",
	BankName:          "Sample Bank",
	BankBranch:        "Main Branch",
}

type Seeder struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	roleRepo            repository.RoleRepository
	userRepo            repository.UserRepository
	specializationRepo  repository.SpecializationRepository
	paymentInfoRepo     repository.PaymentInfoRepository
	doctorUsecase       usecase.DoctorProfileUsecase
	availabilityUsecase usecase.AvailabilityUsecase
}

func New(
	db *gorm.DB,
	log *logrus.Logger,
	roleRepo repository.RoleRepository,
	userRepo repository.UserRepository,
	specializationRepo repository.SpecializationRepository,
	paymentInfoRepo repository.PaymentInfoRepository,
	doctorUsecase usecase.DoctorProfileUsecase,
	availabilityUsecase usecase.AvailabilityUsecase,
) *Seeder {
	return &Seeder{
		db:                  db,
		log:                 log,
		roleRepo:            roleRepo,
		userRepo:            userRepo,
		specializationRepo:  specializationRepo,
		paymentInfoRepo:     paymentInfoRepo,
		doctorUsecase:       doctorUsecase,
		availabilityUsecase: availabilityUsecase,
	}
}

// SeedReference creates roles with their permissions, the specializations
// and the payment info row. Running it again is safe.
func (s *Seeder) SeedReference(ctx context.Context) error {
	for i := range defaultRoles {
		role := defaultRoles[i]
		if err := s.roleRepo.Seed(ctx, s.db, &role, entity.DefaultRolePermissions[role.ID]); err != nil {
			return fmt.Errorf("seed role %s: %w", role.RoleName, err)
		}
	}
	s.log.Infof("Seeded %d roles", len(defaultRoles))

	for i := range defaultSpecializations {
		specialization := defaultSpecializations[i]
		if err := s.specializationRepo.Upsert(ctx, s.db, &specialization); err != nil {
			return fmt.Errorf("seed specialization %s: %w", specialization.Name, err)
		}
	}
	s.log.Infof("Seeded %d specializations", len(defaultSpecializations))

	existing, err := s.paymentInfoRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("load payment info: %w", err)
	}
	if existing == nil {
		info := defaultPaymentInfo
		if err := s.paymentInfoRepo.Upsert(ctx, &info); err != nil {
			return fmt.Errorf("seed payment info: %w", err)
		}
		s.log.Info("Seeded payment info")
	}

	return nil
}

// SeedAdmin makes sure an admin account with the email exists and returns its id
func (s *Seeder) SeedAdmin(ctx context.Context, email, password string) (uuid.UUID, error) {
	existing, err := s.userRepo.FindByEmail(s.db.WithContext(ctx), email)
	if err != nil {
		return uuid.Nil, fmt.Errorf("find admin: %w", err)
	}
	if existing != nil {
		if existing.RoleID != entity.RoleIDAdmin {
			return uuid.Nil, fmt.Errorf("user %s exists and is not an admin", email)
		}
		return existing.ID, nil
	}

	if password == "" {
		return uuid.Nil, errors.New("admin password is required to create the admin account")
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, err
	}

	admin := &entity.User{
		RoleID:   entity.RoleIDAdmin,
		Email:    email,
		Password: string(hashedPassword),
		FullName: "Administrator",
		Status:   entity.UserStatusActive,
	}
	if err := s.userRepo.Create(s.db.WithContext(ctx), admin); err != nil {
		return uuid.Nil, fmt.Errorf("create admin: %w", err)
	}
	s.log.WithField("email", email).Info("Created admin account")
	return admin.ID, nil
}

// SeedDemoDoctors creates fake doctors with a Monday to Friday schedule,
// acting as the given admin
func (s *Seeder) SeedDemoDoctors(ctx context.Context, adminID uuid.UUID, count int) error {
	specializations, err := s.specializationRepo.FindAll(ctx, s.db, "")
	if err != nil {
		return fmt.Errorf("load specializations: %w", err)
	}
	if len(specializations) == 0 {
		return errors.New("no specializations seeded")
	}

	created := 0
	for i := 0; i < count; i++ {
		req := fakeDoctor(specializations)
		doctor, err := s.doctorUsecase.CreateDoctor(ctx, adminID, req)
		if errors.Is(err, usecase.ErrEmailAlreadyExists) {
			s.log.WithField("email", req.Email).Debug("Skipping existing demo doctor")
			continue
		}
		if err != nil {
			return fmt.Errorf("create demo doctor: %w", err)
		}

		if _, err := s.availabilityUsecase.UpdateAvailability(ctx, doctor.UserID, doctor.UserID, weekdaySchedule()); err != nil {
			return fmt.Errorf("set demo availability: %w", err)
		}
		created++
	}

	s.log.WithFields(logrus.Fields{"count": created, "password": DemoPassword}).Info("Seeded demo doctors")
	return nil
}

func fakeDoctor(specializations []entity.Specialization) *dto.RegisterDoctorRequest {
	hospital := gofakeit.Company() + " Hospital"
	city := gofakeit.City()
	specialization := specializations[gofakeit.Number(0, len(specializations)-1)]

	return &dto.RegisterDoctorRequest{
		Email:    gofakeit.Email(),
		Password: DemoPassword,
		FullName: "Dr. " + gofakeit.LastName(),
		DoctorProfileRequest: dto.DoctorProfileRequest{
			SpecializationID:  specialization.ID,
			Qualifications:    []string{"MBBS", "FCPS " + specialization.Name},
			YearsOfExperience: gofakeit.Number(1, 35),
			ConsultationFee:   decimal.NewFromInt(int64(gofakeit.Number(5, 40) * 100)),
			Bio:               fmt.Sprintf("%s specialist practicing at %s in %s.", specialization.Name, hospital, city),
			Hospitals:         []string{hospital},
			Address: dto.AddressRequest{
				Street:     gofakeit.Street(),
				City:       city,
				State:      gofakeit.State(),
				Country:    gofakeit.Country(),
				PostalCode: gofakeit.Zip(),
			},
		},
	}
}

func weekdaySchedule() *dto.UpdateAvailabilityRequest {
	windows := make([]dto.AvailabilityWindowRequest, 0, 5)
	for day := 1; day <= 5; day++ {
		windows = append(windows, dto.AvailabilityWindowRequest{DayOfWeek: day, StartTime: "09:00", EndTime: "17:00"})
	}
	return &dto.UpdateAvailabilityRequest{Availability: windows}
}
