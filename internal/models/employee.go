package models

import "time"

type Employee struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	UserID       *uint       `gorm:"uniqueIndex" json:"user_id"`
	User         *User       `gorm:"foreignKey:UserID" json:"-"`
	FirstName    string      `gorm:"type:varchar(255);not null" json:"first_name"`
	LastName     string      `gorm:"type:varchar(255);not null" json:"last_name"`
	Email        string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone        string      `gorm:"type:varchar(50)" json:"phone"`
	ContractType string      `gorm:"type:varchar(50);not null" json:"contract_type"`
	HireDate     time.Time   `gorm:"type:date;not null" json:"hire_date"`
	SalaryBase   float64     `gorm:"not null" json:"salary_base"`
	DepartmentID *uint       `gorm:"index" json:"department_id"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Status       string      `gorm:"type:varchar(50);not null;default:'actif'" json:"status"`
	Roles        []Role      `gorm:"many2many:employee_roles" json:"roles,omitempty"`
	Tasks        []Task      `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"-"`
	Presences    []Presence  `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
