package models

import "time"

type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

// Terminal reports whether the status admits no further transition.
func (s LeaveStatus) Terminal() bool {
	return s == LeaveStatusApproved || s == LeaveStatusRejected
}

type LeaveRequest struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	EmployeeID   uint        `gorm:"index;not null" json:"employee_id"`
	Employee     *Employee   `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"employee,omitempty"`
	Type         string      `gorm:"type:varchar(100);not null" json:"type"`
	StartDate    time.Time   `gorm:"type:date;not null" json:"start_date"`
	EndDate      time.Time   `gorm:"type:date;not null" json:"end_date"`
	Message      string      `gorm:"type:varchar(500)" json:"message"`
	Status       LeaveStatus `gorm:"type:varchar(50);not null;default:'pending'" json:"status"`
	AdminComment string      `gorm:"type:varchar(500)" json:"admin_comment"`
	CreatedAt    time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
