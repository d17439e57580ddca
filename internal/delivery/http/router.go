package http

import (
	"net/http"

	"doctor-appointment-api/internal/delivery/http/handler"
	"doctor-appointment-api/internal/delivery/http/middleware"
	"doctor-appointment-api/internal/domain/entity"
	"doctor-appointment-api/pkg/response"

	"github.com/gorilla/mux"
)

type Router struct {
	router                 *mux.Router
	healthHandler          *handler.HealthHandler
	authHandler            *handler.AuthHandler
	doctorHandler          *handler.DoctorHandler
	availabilityHandler    *handler.AvailabilityHandler
	appointmentHandler     *handler.AppointmentHandler
	patientHandler         *handler.PatientHandler
	subscriptionHandler    *handler.SubscriptionHandler
	auditLogHandler        *handler.AuditLogHandler
	authMiddleware         *middleware.AuthMiddleware
	subscriptionMiddleware *middleware.SubscriptionMiddleware
	rateLimitMiddleware    *middleware.RateLimitMiddleware
	loggingMiddleware      *middleware.LoggingMiddleware
	corsMiddleware         *middleware.CORSMiddleware
	capabilityMiddleware   *middleware.CapabilityMiddleware
}

type Handlers struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	Doctor       *handler.DoctorHandler
	Availability *handler.AvailabilityHandler
	Appointment  *handler.AppointmentHandler
	Patient      *handler.PatientHandler
	Subscription *handler.SubscriptionHandler
	AuditLog     *handler.AuditLogHandler
}

type Middlewares struct {
	Auth         *middleware.AuthMiddleware
	Subscription *middleware.SubscriptionMiddleware
	RateLimit    *middleware.RateLimitMiddleware
	Logging      *middleware.LoggingMiddleware
	CORS         *middleware.CORSMiddleware
	Capability   *middleware.CapabilityMiddleware
}

func NewRouter(handlers Handlers, middlewares Middlewares) *Router {
	return &Router{
		router:                 mux.NewRouter(),
		healthHandler:          handlers.Health,
		authHandler:            handlers.Auth,
		doctorHandler:          handlers.Doctor,
		availabilityHandler:    handlers.Availability,
		appointmentHandler:     handlers.Appointment,
		patientHandler:         handlers.Patient,
		subscriptionHandler:    handlers.Subscription,
		auditLogHandler:        handlers.AuditLog,
		authMiddleware:         middlewares.Auth,
		subscriptionMiddleware: middlewares.Subscription,
		rateLimitMiddleware:    middlewares.RateLimit,
		loggingMiddleware:      middlewares.Logging,
		corsMiddleware:         middlewares.CORS,
		capabilityMiddleware:   middlewares.Capability,
	}
}

// Setup registers all routes. CORS and request logging wrap the router itself
// so that preflight requests never reach route matching.
func (r *Router) Setup() http.Handler {
	// mux reports unmatched methods under a subrouter as not found too
	r.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.Error(w, http.StatusNotFound, "Route not found", nil)
	})

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthHandler.Health).Methods(http.MethodGet)

	// Auth routes (public, rate limited per client IP)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.Use(r.rateLimitMiddleware.Limit)
	auth.HandleFunc("/register/patient", r.authHandler.RegisterPatient).Methods(http.MethodPost)
	auth.HandleFunc("/register/doctor", r.authHandler.RegisterDoctor).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Doctor directory. Static paths go before {id}.
	api.HandleFunc("/doctors", r.doctorHandler.ListDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors/hospitals", r.doctorHandler.GetHospitals).Methods(http.MethodGet)
	api.HandleFunc("/doctors/specializations", r.doctorHandler.GetSpecializations).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}/availability", r.availabilityHandler.GetAvailability).Methods(http.MethodGet)

	api.Handle("/doctors", r.protect(r.doctorHandler.CreateDoctor, entity.PermissionDoctorManage)).Methods(http.MethodPost)
	api.Handle("/doctors/{id}", r.protect(r.doctorHandler.UpdateDoctor, entity.PermissionDoctorUpdate)).Methods(http.MethodPut)
	api.Handle("/doctors/{id}", r.protect(r.doctorHandler.DeleteDoctor, entity.PermissionDoctorManage)).Methods(http.MethodDelete)
	api.Handle("/doctors/{id}/availability", r.protect(
		r.availabilityHandler.UpdateAvailability, entity.PermissionDoctorSchedule, r.subscriptionMiddleware.RequireActive,
	)).Methods(http.MethodPut)

	// Appointments
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.Handle("/available-slots", r.capabilityMiddleware.Require(entity.PermissionAppointmentView)(
		http.HandlerFunc(r.appointmentHandler.GetAvailableSlots),
	)).Methods(http.MethodGet)

	booking := appointments.NewRoute().Subrouter()
	booking.Use(r.capabilityMiddleware.Require(entity.PermissionAppointmentBook))
	booking.HandleFunc("", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	booking.HandleFunc("/upcoming", r.appointmentHandler.GetUpcomingAppointments).Methods(http.MethodGet)
	booking.HandleFunc("/{id}/cancel", r.appointmentHandler.CancelAppointment).Methods(http.MethodPut)
	booking.HandleFunc("/{id}/reschedule", r.appointmentHandler.RescheduleAppointment).Methods(http.MethodPut)

	// Patient profile (patient only)
	patients := api.PathPrefix("/patients").Subrouter()
	patients.Use(r.authMiddleware.Authenticate)
	patients.Use(r.capabilityMiddleware.Require(entity.PermissionPatientProfile))
	patients.HandleFunc("/register", r.patientHandler.RegisterProfile).Methods(http.MethodPost)
	patients.HandleFunc("/profile", r.patientHandler.GetProfile).Methods(http.MethodGet)
	patients.HandleFunc("/profile", r.patientHandler.UpdateProfile).Methods(http.MethodPut)
	patients.HandleFunc("/medical-history", r.patientHandler.AddMedicalHistory).Methods(http.MethodPost)
	patients.HandleFunc("/medical-history/{historyId}", r.patientHandler.UpdateMedicalHistory).Methods(http.MethodPut)
	patients.HandleFunc("/medical-history/{historyId}", r.patientHandler.DeleteMedicalHistory).Methods(http.MethodDelete)
	patients.HandleFunc("/allergies", r.patientHandler.AddAllergy).Methods(http.MethodPost)
	patients.HandleFunc("/allergies/{allergy}", r.patientHandler.RemoveAllergy).Methods(http.MethodDelete)
	patients.HandleFunc("/appointments", r.appointmentHandler.GetPatientAppointments).Methods(http.MethodGet)
	patients.HandleFunc("/favorite-doctors", r.patientHandler.GetFavoriteDoctors).Methods(http.MethodGet)
	patients.HandleFunc("/favorite-doctors/{doctorId}", r.patientHandler.AddFavoriteDoctor).Methods(http.MethodPost)
	patients.HandleFunc("/favorite-doctors/{doctorId}", r.patientHandler.RemoveFavoriteDoctor).Methods(http.MethodDelete)

	// Subscriptions
	api.HandleFunc("/subscriptions/payment-info", r.subscriptionHandler.GetPaymentInfo).Methods(http.MethodGet)
	api.HandleFunc("/subscriptions/plans", r.subscriptionHandler.ListPlans).Methods(http.MethodGet)
	api.HandleFunc("/subscriptions/plans/{id}", r.subscriptionHandler.GetPlan).Methods(http.MethodGet)

	api.Handle("/subscriptions/payment-info", r.protect(r.subscriptionHandler.UpdatePaymentInfo, entity.PermissionSubscriptionManage)).Methods(http.MethodPut)
	api.Handle("/subscriptions/plans", r.protect(r.subscriptionHandler.CreatePlan, entity.PermissionSubscriptionManage)).Methods(http.MethodPost)
	api.Handle("/subscriptions/plans/{id}", r.protect(r.subscriptionHandler.UpdatePlan, entity.PermissionSubscriptionManage)).Methods(http.MethodPut)
	api.Handle("/subscriptions/plans/{id}", r.protect(r.subscriptionHandler.DeletePlan, entity.PermissionSubscriptionManage)).Methods(http.MethodDelete)
	api.Handle("/subscriptions/pending", r.protect(r.subscriptionHandler.GetPendingSubscriptions, entity.PermissionSubscriptionManage)).Methods(http.MethodGet)
	api.Handle("/subscriptions/{id}/approve", r.protect(r.subscriptionHandler.ApproveSubscription, entity.PermissionSubscriptionManage)).Methods(http.MethodPut)
	api.Handle("/subscriptions/{id}/reject", r.protect(r.subscriptionHandler.RejectSubscription, entity.PermissionSubscriptionManage)).Methods(http.MethodPut)
	api.Handle("/subscriptions/subscribe", r.protect(r.subscriptionHandler.Subscribe, entity.PermissionSubscriptionSelf)).Methods(http.MethodPost)
	api.Handle("/subscriptions/me", r.protect(r.subscriptionHandler.GetMySubscription, entity.PermissionSubscriptionSelf)).Methods(http.MethodGet)

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(r.capabilityMiddleware.Require(entity.PermissionAuditRead))
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	return r.corsMiddleware.Handle(r.loggingMiddleware.Handle(r.router))
}

// protect authenticates, checks the capability, then applies extra middleware in order
func (r *Router) protect(h http.HandlerFunc, permission string, extra ...func(http.Handler) http.Handler) http.Handler {
	var next http.Handler = h
	for i := len(extra) - 1; i >= 0; i-- {
		next = extra[i](next)
	}
	return r.authMiddleware.Authenticate(r.capabilityMiddleware.Require(permission)(next))
}
