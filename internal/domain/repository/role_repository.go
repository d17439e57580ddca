package repository

import (
	"context"

	"doctor-appointment-api/internal/domain/entity"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindByName(ctx context.Context, db *gorm.DB, name string) (*entity.Role, error)
	FindPermissionNames(ctx context.Context, db *gorm.DB, roleID int) ([]string, error)
	// Seed upserts the role and grants it exactly the given permissions.
	Seed(ctx context.Context, db *gorm.DB, role *entity.Role, permissions []string) error
}
