package models

import "time"

// Presence is one clock-in/clock-out record. An open check-in has a nil
// CheckOut; a partial unique index on (employee_id, date) WHERE check_out
// IS NULL guarantees at most one open record per employee per day.
type Presence struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	EmployeeID uint       `gorm:"index;not null" json:"employee_id"`
	Employee   *Employee  `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"employee,omitempty"`
	Date       time.Time  `gorm:"type:date;not null" json:"date"`
	CheckIn    time.Time  `gorm:"not null" json:"check_in"`
	CheckOut   *time.Time `json:"check_out"`
	TotalHours *float64   `json:"total_hours"`
	CreatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
