package models

import "time"

// User is the authenticated account. Its Role field is the raw role string
// ("admin", "manager", "employee"); the effective tier is derived by the
// access package together with the role pivot and the managers table.
type User struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	Name                string    `gorm:"type:varchar(255);not null" json:"name"`
	Email               string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash        string    `gorm:"type:varchar(255);not null" json:"-"`
	Role                string    `gorm:"type:varchar(50);not null;default:'employee'" json:"role"`
	NeedsPasswordChange bool      `gorm:"not null;default:false" json:"needs_password_change"`
	Employee            *Employee `gorm:"foreignKey:UserID" json:"employee,omitempty"`
	CreatedAt           time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
