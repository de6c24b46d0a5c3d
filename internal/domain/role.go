package domain

import "time"

type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserRole is the join table between users and roles. Declared explicitly so
// AutoMigrate creates the composite primary key.
type UserRole struct {
	UserID string `gorm:"primaryKey;size:64"`
	RoleID uint   `gorm:"primaryKey"`
}
