package models

import "time"

type Department struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(200);uniqueIndex;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Employees   []Employee `gorm:"foreignKey:DepartmentID;references:ID" json:"-"`
	CreatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
