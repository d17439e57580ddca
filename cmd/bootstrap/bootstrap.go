package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"doctor-appointment-api/config"
	deliveryHttp "doctor-appointment-api/internal/delivery/http"
	"doctor-appointment-api/internal/delivery/http/handler"
	"doctor-appointment-api/internal/delivery/http/middleware"
	"doctor-appointment-api/internal/domain/repository"
	"doctor-appointment-api/internal/infrastructure/cache"
	"doctor-appointment-api/internal/infrastructure/database"
	repositoryImpl "doctor-appointment-api/internal/repository"
	"doctor-appointment-api/internal/seeder"
	"doctor-appointment-api/internal/service"
	"doctor-appointment-api/internal/usecase"
	"doctor-appointment-api/pkg/jwt"
	"doctor-appointment-api/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Options selects which connections New opens
type Options struct {
	// WithRedis is needed by the HTTP server only. Without it the
	// Redis-backed services are nil.
	WithRedis bool
}

// App holds all dependencies for the application
type App struct {
	Config       *config.Config
	Log          *logrus.Logger
	DB           *gorm.DB
	RedisClient  *redis.Client
	Repositories Repositories
	Services     Services
	Usecases     Usecases
}

type Repositories struct {
	User               repository.UserRepository
	Role               repository.RoleRepository
	DoctorProfile      repository.DoctorProfileRepository
	Specialization     repository.SpecializationRepository
	PatientProfile     repository.PatientProfileRepository
	Availability       repository.AvailabilityRepository
	Appointment        repository.AppointmentRepository
	SubscriptionPlan   repository.SubscriptionPlanRepository
	DoctorSubscription repository.DoctorSubscriptionRepository
	PaymentInfo        repository.PaymentInfoRepository
	AuditLog           repository.AuditLogRepository
}

type Services struct {
	JWT         *jwt.JWTService
	Audit       service.AuditService
	TokenStore  service.TokenStore
	SlotLocker  service.SlotLocker
	RateLimiter service.RateLimiter
}

type Usecases struct {
	Auth          usecase.AuthUsecase
	DoctorProfile usecase.DoctorProfileUsecase
	Availability  usecase.AvailabilityUsecase
	Appointment   usecase.AppointmentUsecase
	Patient       usecase.PatientProfileUsecase
	Subscription  usecase.SubscriptionUsecase
	AuditLog      usecase.AuditLogUsecase
}

// New creates a new App instance with all dependencies initialized
func New(ctx context.Context, opts Options) (*App, error) {
	cfg, log, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Log: log}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	// Initialize Redis
	if opts.WithRedis {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		app.RedisClient = redisClient
	}

	app.wire()
	return app, nil
}

// LoadConfig reads configuration and sets up the logger. Commands that do not
// need the full dependency graph, such as migrate, start here.
func LoadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := setupLogger(cfg.App.Env)
	log.Info("Configuration loaded successfully")
	return cfg, log, nil
}

// setupLogger configures the logrus logger
func setupLogger(env string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)
	if env == "development" {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func (app *App) wire() {
	cfg, db, log := app.Config, app.DB, app.Log

	app.Repositories = Repositories{
		User:               repositoryImpl.NewUserRepository(),
		Role:               repositoryImpl.NewRoleRepository(),
		DoctorProfile:      repositoryImpl.NewDoctorProfileRepository(),
		Specialization:     repositoryImpl.NewSpecializationRepository(),
		PatientProfile:     repositoryImpl.NewPatientProfileRepository(),
		Availability:       repositoryImpl.NewAvailabilityRepository(db),
		Appointment:        repositoryImpl.NewAppointmentRepository(db),
		SubscriptionPlan:   repositoryImpl.NewSubscriptionPlanRepository(db),
		DoctorSubscription: repositoryImpl.NewDoctorSubscriptionRepository(db),
		PaymentInfo:        repositoryImpl.NewPaymentInfoRepository(db),
		AuditLog:           repositoryImpl.NewAuditLogRepository(),
	}
	repos := app.Repositories

	app.Services = Services{
		JWT:   jwt.NewJWTService(cfg.JWT),
		Audit: service.NewAuditService(db, log, repos.AuditLog),
	}
	if app.RedisClient != nil {
		app.Services.TokenStore = service.NewTokenStore(app.RedisClient, log)
		app.Services.SlotLocker = service.NewSlotLocker(app.RedisClient, log, cfg.Appointment.LockTTL)
		app.Services.RateLimiter = service.NewRateLimiter(app.RedisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}
	svc := app.Services

	app.Usecases = Usecases{
		Auth: usecase.NewAuthUsecase(db, log, repos.User, repos.DoctorProfile, repos.PatientProfile,
			repos.Specialization, repos.DoctorSubscription, svc.JWT, svc.TokenStore, svc.Audit),
		DoctorProfile: usecase.NewDoctorProfileUsecase(db, log, repos.User, repos.DoctorProfile,
			repos.Specialization, repos.Availability, svc.TokenStore, svc.Audit),
		Availability: usecase.NewAvailabilityUsecase(log, repos.Availability, svc.Audit),
		Appointment: usecase.NewAppointmentUsecase(log, repos.Appointment, repos.Availability, svc.SlotLocker,
			svc.Audit, cfg.App.Location(), cfg.Appointment.SlotDuration),
		Patient:      usecase.NewPatientProfileUsecase(db, log, repos.User, repos.PatientProfile, repos.DoctorProfile, svc.Audit),
		Subscription: usecase.NewSubscriptionUsecase(log, repos.SubscriptionPlan, repos.DoctorSubscription, repos.PaymentInfo, svc.Audit),
		AuditLog:     usecase.NewAuditLogUsecase(db, log, repos.AuditLog),
	}
}

// Seeder returns a seeder over the app's repositories and usecases
func (app *App) Seeder() *seeder.Seeder {
	return seeder.New(app.DB, app.Log, app.Repositories.Role, app.Repositories.User, app.Repositories.Specialization,
		app.Repositories.PaymentInfo, app.Usecases.DoctorProfile, app.Usecases.Availability)
}

// newServer creates and configures the HTTP server
func (app *App) newServer() (*http.Server, error) {
	if app.RedisClient == nil {
		return nil, errors.New("the HTTP server requires Redis")
	}
	log, svc, uc := app.Log, app.Services, app.Usecases

	// Initialize validator
	customValidator := validator.NewValidator()

	sqlDB, err := app.DB.DB()
	if err != nil {
		return nil, err
	}
	redisClient := app.RedisClient

	loadCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	rolePermissions, err := service.LoadRolePermissions(loadCtx, app.DB, app.Repositories.Role, log)
	if err != nil {
		return nil, fmt.Errorf("load role permissions (run `seed` first): %w", err)
	}

	handlers := deliveryHttp.Handlers{
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"postgres": handler.PingFunc(sqlDB.PingContext),
			"redis": handler.PingFunc(func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}),
		}),
		Auth:         handler.NewAuthHandler(uc.Auth, customValidator, svc.JWT),
		Doctor:       handler.NewDoctorHandler(uc.DoctorProfile, customValidator),
		Availability: handler.NewAvailabilityHandler(uc.Availability, customValidator),
		Appointment:  handler.NewAppointmentHandler(uc.Appointment, customValidator),
		Patient:      handler.NewPatientHandler(uc.Patient, customValidator),
		Subscription: handler.NewSubscriptionHandler(uc.Subscription, customValidator),
		AuditLog:     handler.NewAuditLogHandler(uc.AuditLog),
	}

	middlewares := deliveryHttp.Middlewares{
		Auth:         middleware.NewAuthMiddleware(svc.JWT, svc.TokenStore),
		Subscription: middleware.NewSubscriptionMiddleware(uc.Subscription, log),
		RateLimit:    middleware.NewRateLimitMiddleware(svc.RateLimiter, log),
		Logging:      middleware.NewLoggingMiddleware(log),
		CORS:         middleware.NewCORSMiddleware(app.Config.CORS.AllowedOrigins),
		Capability:   middleware.NewCapabilityMiddleware(rolePermissions),
	}

	router := deliveryHttp.NewRouter(handlers, middlewares)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", app.Config.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}, nil
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM, then shuts down gracefully
func (app *App) Run() error {
	server, err := app.newServer()
	if err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		app.Close()
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
	return nil
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		if sqlDB, err := app.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				app.Log.Warnf("Failed to close database: %+v", err)
			}
		}
	}

	if app.RedisClient != nil {
		if err := app.RedisClient.Close(); err != nil {
			app.Log.Warnf("Failed to close Redis: %+v", err)
		}
	}
}
