package models

import "time"

// RoleNameManager is the sentinel role name checked by the access resolver.
const RoleNameManager = "manager"

type Role struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Employees   []Employee `gorm:"many2many:employee_roles" json:"-"`
	CreatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
