package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"employee-management-api/internal/models"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateUser is returned when creating a user fails inside the registration transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrGrantRole is returned when the role grant fails inside the registration transaction.
	ErrGrantRole = errors.New("user repository: grant role failed")
	// ErrCreateEmployee is returned when creating the employee record fails inside the registration transaction.
	ErrCreateEmployee = errors.New("user repository: create employee failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// NormalizeEmail returns the lookup form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	user.NormalizedEmail = NormalizeEmail(user.Email)
	return r.db.Create(user).Error
}

// CreateWithRoleAndEmployee creates a user, the role grant, and the linked
// employee record atomically.
func (r *GormUserRepository) CreateWithRoleAndEmployee(user *models.User, role models.Role, employee *models.Employee) error {
	user.NormalizedEmail = NormalizeEmail(user.Email)

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateUser, err)
		}

		grant := models.UserRole{UserID: user.ID, Role: role}
		if err := tx.Create(&grant).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrGrantRole, err)
		}

		employee.UserID = user.ID
		if err := tx.Create(employee).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateEmployee, err)
		}

		return nil
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by normalized email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("normalized_email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByPhone finds a user by phone number
func (r *GormUserRepository) FindByPhone(phone string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("phone_number = ?", phone).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates a user
func (r *GormUserRepository) Update(user *models.User) error {
	user.NormalizedEmail = NormalizeEmail(user.Email)
	return r.db.Save(user).Error
}

// AddRole grants a role to a user; granting an already-held role is a no-op
func (r *GormUserRepository) AddRole(userID uint64, role models.Role) error {
	held, err := r.HasRole(userID, role)
	if err != nil {
		return err
	}
	if held {
		return nil
	}

	grant := models.UserRole{UserID: userID, Role: role}
	return r.db.Create(&grant).Error
}

// HasRole reports whether the user holds the given role
func (r *GormUserRepository) HasRole(userID uint64, role models.Role) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error
	return count > 0, err
}

// GetRole returns the user's role grant
func (r *GormUserRepository) GetRole(userID uint64) (models.Role, error) {
	var grant models.UserRole
	if err := r.db.Where("user_id = ?", userID).First(&grant).Error; err != nil {
		return "", err
	}
	return grant.Role, nil
}

// ListUserIDsInRole returns the IDs of all users holding the role
func (r *GormUserRepository) ListUserIDsInRole(role models.Role) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&models.UserRole{}).
		Where("role = ?", role).
		Pluck("user_id", &ids).Error
	return ids, err
}
