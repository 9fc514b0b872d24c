package models

import "time"

// ManagerAssignment maps an employee to the department they manage.
// The existence of a row is one of the three manager signals.
type ManagerAssignment struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	EmployeeID   uint        `gorm:"uniqueIndex;not null" json:"employee_id"`
	Employee     *Employee   `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"employee,omitempty"`
	DepartmentID *uint       `gorm:"index" json:"department_id"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	FullName     string      `gorm:"type:varchar(255)" json:"full_name"`
	Email        string      `gorm:"type:varchar(255)" json:"email"`
	CreatedAt    time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (ManagerAssignment) TableName() string {
	return "managers"
}
