package database

import (
	"lockdesk/internal/domain"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Role{},
		&domain.UserRole{},
		&domain.AccountLockout{},
		&domain.AuditRecord{},
	)
}
