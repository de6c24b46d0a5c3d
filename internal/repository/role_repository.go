package repository

import (
	"lockdesk/internal/domain"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindByName(name string) (*domain.Role, error)
	HasRole(userID, roleName string) (bool, error)
	Grant(userID string, roleID uint) error
}

type GormRoleRepository struct{ db *gorm.DB }

func NewRoleRepository(db *gorm.DB) RoleRepository { return &GormRoleRepository{db: db} }

func (r *GormRoleRepository) FindByName(name string) (*domain.Role, error) {
	var role domain.Role
	err := r.db.Where("name = ?", name).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *GormRoleRepository) HasRole(userID, roleName string) (bool, error) {
	var count int64
	err := r.db.Table("user_roles").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("user_roles.user_id = ? AND roles.name = ?", userID, roleName).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRoleRepository) Grant(userID string, roleID uint) error {
	u := domain.User{ID: userID}
	role := domain.Role{ID: roleID}
	return r.db.Model(&u).Association("Roles").Append(&role)
}
