package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID               uint64         `gorm:"primarykey" json:"id"`
	Email            string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	NormalizedEmail  string         `gorm:"type:varchar(255);index;not null" json:"-"`
	PasswordHash     string         `gorm:"type:varchar(255);not null" json:"-"`
	FirstName        string         `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName         string         `gorm:"type:varchar(100);not null" json:"last_name"`
	PhoneNumber      string         `gorm:"type:varchar(30)" json:"phone_number"`
	ProfileImagePath string         `gorm:"type:varchar(255)" json:"profile_image_path"`
	EmailConfirmed   bool           `gorm:"not null;default:false" json:"email_confirmed"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Roles         []UserRole `gorm:"foreignKey:UserID" json:"-"`
	AssignedTasks []Task     `gorm:"foreignKey:AssignedToID" json:"-"`
	CreatedTasks  []Task     `gorm:"foreignKey:CreatedByID" json:"-"`
}

// FullName returns the display name used in task and employee listings.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
