package domain

import "time"

// User mirrors the identity provider's view of an account. IDs are the
// provider's opaque subject strings, not locally generated.
type User struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name      string    `gorm:"size:255" json:"name"`
	Status    string    `gorm:"size:32;not null;default:active;index:idx_users_status" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Roles     []Role    `gorm:"many2many:user_roles" json:"roles,omitempty"`
}
