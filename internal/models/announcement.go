package models

import "time"

// Announcement targets exactly one audience: everyone (IsGeneral), one
// department, or one employee. The access package normalizes conflicting
// inputs before a row is written, so at most one mode is ever set.
type Announcement struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Title        string      `gorm:"type:varchar(255);not null" json:"title"`
	Message      string      `gorm:"type:text;not null" json:"message"`
	CreatorID    *uint       `gorm:"index" json:"creator_id"`
	Creator      *User       `gorm:"foreignKey:CreatorID;constraint:OnDelete:SET NULL" json:"creator,omitempty"`
	EmployeeID   *uint       `gorm:"index" json:"employee_id"`
	Employee     *Employee   `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"employee,omitempty"`
	DepartmentID *uint       `gorm:"index" json:"department_id"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	IsGeneral    bool        `gorm:"not null;default:false" json:"is_general"`
	CreatedAt    time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
