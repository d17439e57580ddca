package middleware

import (
	"context"
	"net/http"

	"doctor-appointment-api/internal/domain/entity"
	"doctor-appointment-api/pkg/response"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SubscriptionChecker reports whether a doctor currently holds an active subscription
type SubscriptionChecker interface {
	HasActiveSubscription(ctx context.Context, doctorID uuid.UUID) (bool, error)
}

// SubscriptionMiddleware blocks doctors without an active subscription. Other roles pass.
type SubscriptionMiddleware struct {
	checker SubscriptionChecker
	log     *logrus.Logger
}

func NewSubscriptionMiddleware(checker SubscriptionChecker, log *logrus.Logger) *SubscriptionMiddleware {
	return &SubscriptionMiddleware{
		checker: checker,
		log:     log,
	}
}

func (m *SubscriptionMiddleware) RequireActive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		roleID, _ := GetRoleIDFromContext(r.Context())
		if roleID != entity.RoleIDDoctor {
			next.ServeHTTP(w, r)
			return
		}

		userID, ok := GetUserIDFromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "Invalid token")
			return
		}

		active, err := m.checker.HasActiveSubscription(r.Context(), userID)
		if err != nil {
			m.log.Warnf("Failed to check subscription: %+v", err)
			response.InternalServerError(w, "Failed to check subscription")
			return
		}
		if !active {
			response.Forbidden(w, "An active subscription is required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
