package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"doctor-appointment-api/config"
	"doctor-appointment-api/internal/delivery/http/handler"
	"doctor-appointment-api/internal/delivery/http/middleware"
	"doctor-appointment-api/internal/domain/entity"
	"doctor-appointment-api/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type allowAllTokens struct{}

func (allowAllTokens) StoreAccess(context.Context, uuid.UUID, string, time.Duration) error  { return nil }
func (allowAllTokens) StoreRefresh(context.Context, uuid.UUID, string, time.Duration) error { return nil }
func (allowAllTokens) IsAccessValid(context.Context, uuid.UUID, string) (bool, error)       { return true, nil }
func (allowAllTokens) IsRefreshValid(context.Context, uuid.UUID, string) (bool, error)      { return true, nil }
func (allowAllTokens) RevokeAccess(context.Context, uuid.UUID, string) error                { return nil }
func (allowAllTokens) RevokeRefresh(context.Context, uuid.UUID, string) error               { return nil }
func (allowAllTokens) RevokeAll(context.Context, uuid.UUID) error                           { return nil }

type noLimit struct{}

func (noLimit) Allow(context.Context, string) (bool, time.Duration, error) { return true, 0, nil }

func newTestRouter(t *testing.T) (http.Handler, *jwt.JWTService) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "router-test-secret",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
	})

	router := NewRouter(Handlers{
		Health:       handler.NewHealthHandler(map[string]handler.Pinger{}),
		Auth:         handler.NewAuthHandler(nil, nil, jwtService),
		Doctor:       handler.NewDoctorHandler(nil, nil),
		Availability: handler.NewAvailabilityHandler(nil, nil),
		Appointment:  handler.NewAppointmentHandler(nil, nil),
		Patient:      handler.NewPatientHandler(nil, nil),
		Subscription: handler.NewSubscriptionHandler(nil, nil),
		AuditLog:     handler.NewAuditLogHandler(nil),
	}, Middlewares{
		Auth:         middleware.NewAuthMiddleware(jwtService, allowAllTokens{}),
		Subscription: middleware.NewSubscriptionMiddleware(nil, log),
		RateLimit:    middleware.NewRateLimitMiddleware(noLimit{}, log),
		Logging:      middleware.NewLoggingMiddleware(log),
		CORS:         middleware.NewCORSMiddleware([]string{"*"}),
		Capability:   middleware.NewCapabilityMiddleware(entity.DefaultRolePermissions),
	})
	return router.Setup(), jwtService
}

func bearer(t *testing.T, svc *jwt.JWTService, roleID int) string {
	t.Helper()
	token, _, err := svc.GenerateAccessToken(uuid.New(), "user@example.com", roleID)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return "Bearer " + token
}

func TestRouterAccessControl(t *testing.T) {
	h, svc := newTestRouter(t)
	patient := bearer(t, svc, entity.RoleIDPatient)
	doctor := bearer(t, svc, entity.RoleIDDoctor)

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		want   int
	}{
		{"health is public", http.MethodGet, "/api/v1/health", "", http.StatusOK},
		{"booking needs a token", http.MethodPost, "/api/v1/appointments", "", http.StatusUnauthorized},
		{"slots need a token", http.MethodGet, "/api/v1/appointments/available-slots", "", http.StatusUnauthorized},
		{"doctor cannot book", http.MethodPost, "/api/v1/appointments", doctor, http.StatusForbidden},
		{"patient cannot read audit logs", http.MethodGet, "/api/v1/admin/audit-logs", patient, http.StatusForbidden},
		{"patient cannot create plans", http.MethodPost, "/api/v1/subscriptions/plans", patient, http.StatusForbidden},
		{"patient cannot approve", http.MethodPut, "/api/v1/subscriptions/" + uuid.NewString() + "/approve", patient, http.StatusForbidden},
		{"patient cannot subscribe", http.MethodPost, "/api/v1/subscriptions/subscribe", patient, http.StatusForbidden},
		{"doctor has no patient profile", http.MethodGet, "/api/v1/patients/profile", doctor, http.StatusForbidden},
		{"patient cannot delete doctors", http.MethodDelete, "/api/v1/doctors/" + uuid.NewString(), patient, http.StatusForbidden},
		{"patient cannot set availability", http.MethodPut, "/api/v1/doctors/" + uuid.NewString() + "/availability", patient, http.StatusForbidden},
		{"logout needs a token", http.MethodPost, "/api/v1/auth/logout", "", http.StatusUnauthorized},
		{"unknown route", http.MethodGet, "/api/v1/nope", "", http.StatusNotFound},
		{"wrong method falls through to not found", http.MethodDelete, "/api/v1/health", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouterNotFoundIsJSON(t *testing.T) {
	h, _ := newTestRouter(t)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil),
		httptest.NewRequest(http.MethodDelete, "/api/v1/health", nil),
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s %s: expected 404, got %d", req.Method, req.URL.Path, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("%s %s: expected JSON body, got content type %q", req.Method, req.URL.Path, ct)
		}
		if !strings.Contains(rec.Body.String(), "Route not found") {
			t.Errorf("%s %s: unexpected body %s", req.Method, req.URL.Path, rec.Body.String())
		}
	}
}

func TestRouterPreflight(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/appointments", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("expected CORS headers on preflight")
	}
}
