package repository

import (
	"lockdesk/internal/domain"

	"gorm.io/gorm"
)

type UserRepository interface {
	FindByID(id string) (*domain.User, error)
	Upsert(user *domain.User) error
}

type GormUserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &GormUserRepository{db: db} }

func (r *GormUserRepository) FindByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.db.Preload("Roles").Where("id = ?", id).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Upsert keeps the local mirror of the identity provider's user current.
func (r *GormUserRepository) Upsert(user *domain.User) error {
	return r.db.Save(user).Error
}
