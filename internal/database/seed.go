package database

import (
	"fmt"
	"strings"

	"lockdesk/internal/domain"

	"gorm.io/gorm"
)

type SeedReport struct {
	CreatedRoles  int  `json:"created_roles"`
	GrantedAdmins int  `json:"granted_admins"`
	Noop          bool `json:"noop"`
}

// Seed ensures the admin role exists and, when bootstrapAdminID is set,
// grants it to that user. Safe to run on every startup.
func Seed(db *gorm.DB, adminRoleName, bootstrapAdminID string) (*SeedReport, error) {
	report := &SeedReport{}

	adminRole := domain.Role{Name: adminRoleName, Description: "Can unlock accounts and read the audit trail"}
	res := db.Where("name = ?", adminRole.Name).FirstOrCreate(&adminRole)
	if res.Error != nil {
		return nil, fmt.Errorf("ensure admin role: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		report.CreatedRoles++
	}

	id := strings.TrimSpace(bootstrapAdminID)
	if id != "" {
		var u domain.User
		if err := db.Where("id = ?", id).First(&u).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				return nil, fmt.Errorf("look up bootstrap admin: %w", err)
			}
			// The user row may arrive later through identity sync. The
			// grant is retried on the next startup.
		} else {
			var count int64
			if err := db.Table("user_roles").Where("user_id = ? AND role_id = ?", u.ID, adminRole.ID).Count(&count).Error; err != nil {
				return nil, err
			}
			if count == 0 {
				if err := db.Model(&u).Association("Roles").Append(&adminRole); err != nil {
					return nil, fmt.Errorf("grant bootstrap admin role: %w", err)
				}
				report.GrantedAdmins++
			}
		}
	}

	report.Noop = report.CreatedRoles == 0 && report.GrantedAdmins == 0
	return report, nil
}
