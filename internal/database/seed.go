package database

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"employee-management-api/internal/models"
	"employee-management-api/internal/repository"
)

// SeedAdmin ensures an Admin account exists. It is a no-op when the email is
// already registered or when no admin password is configured.
func SeedAdmin(email, password string) error {
	if password == "" {
		return nil
	}

	normalized := repository.NormalizeEmail(email)

	var existing models.User
	err := DB.Where("normalized_email = ?", normalized).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	return DB.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Email:           email,
			NormalizedEmail: normalized,
			PasswordHash:    string(hash),
			FirstName:       "System",
			LastName:        "Administrator",
			EmailConfirmed:  true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		grant := models.UserRole{UserID: user.ID, Role: models.RoleAdmin}
		if err := tx.Create(&grant).Error; err != nil {
			return fmt.Errorf("failed to grant admin role: %w", err)
		}

		return nil
	})
}
