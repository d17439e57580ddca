package service

import (
	"context"
	"fmt"

	"doctor-appointment-api/internal/domain/entity"
	"doctor-appointment-api/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var knownRoles = []string{entity.RoleAdmin, entity.RoleDoctor, entity.RolePatient}

// LoadRolePermissions reads the capability table from roles and role_permissions.
// A missing role is an error: the server cannot authorize anyone until `seed` has run.
func LoadRolePermissions(ctx context.Context, db *gorm.DB, roleRepo repository.RoleRepository, log *logrus.Logger) (entity.RolePermissions, error) {
	table := make(entity.RolePermissions, len(knownRoles))
	for _, name := range knownRoles {
		role, err := roleRepo.FindByName(ctx, db, name)
		if err != nil {
			return nil, fmt.Errorf("find role %s: %w", name, err)
		}
		if role == nil {
			return nil, fmt.Errorf("role %s is not seeded", name)
		}

		permissions, err := roleRepo.FindPermissionNames(ctx, db, role.ID)
		if err != nil {
			return nil, fmt.Errorf("load permissions for role %s: %w", name, err)
		}
		if len(permissions) == 0 {
			log.Warnf("Role %s has no permissions; its requests will be forbidden", name)
		}
		table[role.ID] = permissions
	}

	log.WithField("roles", len(table)).Info("Loaded role permissions")
	return table, nil
}
