package models

import (
	"time"

	"gorm.io/gorm"
)

// Employee is the employment record layered on top of a User identity.
// DepartmentID is nil while the employee is unassigned; scope resolution
// treats that as an empty scope, never as a wildcard.
type Employee struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	UserID       uint64         `gorm:"uniqueIndex;not null" json:"user_id"`
	DepartmentID *uint64        `gorm:"index" json:"department_id"`
	ManagerID    *uint64        `gorm:"index" json:"manager_id"`
	HireDate     *time.Time     `json:"hire_date"`
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User       User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Manager    *User       `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
}
