package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "InProgress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// Valid reports whether s is one of the three known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Active reports whether the status blocks deletion of the assignee.
func (s TaskStatus) Active() bool {
	return s == TaskStatusPending || s == TaskStatusInProgress
}

type Task struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Title        string         `gorm:"not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Status       TaskStatus     `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	DueDate      *time.Time     `json:"due_date"`
	AssignedToID uint64         `gorm:"index;not null" json:"assigned_to_id"`
	CreatedByID  uint64         `gorm:"index;not null" json:"created_by_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	AssignedTo User `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	CreatedBy  User `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}
