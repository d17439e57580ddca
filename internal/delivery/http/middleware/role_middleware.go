package middleware

import (
	"net/http"

	"doctor-appointment-api/internal/domain/entity"
	"doctor-appointment-api/pkg/response"
)

type CapabilityMiddleware struct {
	permissions entity.RolePermissions
}

// NewCapabilityMiddleware authorizes against the given role table, normally loaded from the database
func NewCapabilityMiddleware(permissions entity.RolePermissions) *CapabilityMiddleware {
	return &CapabilityMiddleware{permissions: permissions}
}

// Require lets the request through when the caller's role grants any of the permissions.
// Role is read from context (set by AuthMiddleware from JWT claims)
func (m *CapabilityMiddleware) Require(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleID, ok := GetRoleIDFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			for _, permission := range permissions {
				if m.permissions.Has(roleID, permission) {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, "You don't have permission to access this resource")
		})
	}
}
