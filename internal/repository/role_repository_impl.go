package repository

import (
	"context"
	"errors"

	"doctor-appointment-api/internal/domain/entity"
	domainRepo "doctor-appointment-api/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type roleRepository struct{}

func NewRoleRepository() domainRepo.RoleRepository {
	return &roleRepository{}
}

func (r *roleRepository) FindByName(ctx context.Context, db *gorm.DB, name string) (*entity.Role, error) {
	var role entity.Role
	err := db.WithContext(ctx).Where("role_name = ?", name).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) FindPermissionNames(ctx context.Context, db *gorm.DB, roleID int) ([]string, error) {
	var names []string
	err := db.WithContext(ctx).
		Table("permissions").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Order("permissions.name ASC").
		Pluck("permissions.name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (r *roleRepository) Seed(ctx context.Context, db *gorm.DB, role *entity.Role, permissions []string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role_name", "description"}),
		}).Omit("Users", "Permissions").Create(role).Error; err != nil {
			return err
		}

		perms := make([]entity.Permission, 0, len(permissions))
		for _, name := range permissions {
			perm := entity.Permission{Name: name}
			if err := tx.Where(entity.Permission{Name: name}).FirstOrCreate(&perm).Error; err != nil {
				return err
			}
			perms = append(perms, perm)
		}

		return tx.Model(role).Association("Permissions").Replace(perms)
	})
}
