package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"employee-management-api/internal/dto"
	"employee-management-api/internal/models"
	"employee-management-api/internal/repository"
)

// ProfileService handles the signed-in user's own profile.
type ProfileService struct {
	userRepo     repository.UserRepository
	employeeRepo repository.EmployeeRepository
}

// NewProfileService creates a new ProfileService.
func NewProfileService(userRepo repository.UserRepository, employeeRepo repository.EmployeeRepository) *ProfileService {
	return &ProfileService{
		userRepo:     userRepo,
		employeeRepo: employeeRepo,
	}
}

// ProfileDTO is the signed-in user's profile view.
type ProfileDTO struct {
	ID               uint64  `json:"id"`
	Email            string  `json:"email"`
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	PhoneNumber      string  `json:"phoneNumber"`
	ProfileImagePath string  `json:"profileImagePath"`
	EmailConfirmed   bool    `json:"emailConfirmed"`
	Role             string  `json:"role"`
	DepartmentName   *string `json:"departmentName"`
}

// UpdateProfileInput represents the editable profile fields.
type UpdateProfileInput struct {
	FirstName   string
	LastName    string
	PhoneNumber string
}

// GetProfile returns the caller's profile with role and department context.
func (s *ProfileService) GetProfile(userID uint64, role models.Role) (*ProfileDTO, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	profile := &ProfileDTO{
		ID:               user.ID,
		Email:            user.Email,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		PhoneNumber:      user.PhoneNumber,
		ProfileImagePath: user.ProfileImagePath,
		EmailConfirmed:   user.EmailConfirmed,
		Role:             string(role),
	}

	employee, err := s.employeeRepo.FindByUserID(userID)
	if err == nil && employee.Department != nil {
		profile.DepartmentName = &employee.Department.Name
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find employee record: %w", err)
	}

	return profile, nil
}

// UpdateProfile updates the caller's name and phone number.
func (s *ProfileService) UpdateProfile(userID uint64, input UpdateProfileInput) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if name := strings.TrimSpace(input.FirstName); name != "" {
		user.FirstName = name
	}
	if name := strings.TrimSpace(input.LastName); name != "" {
		user.LastName = name
	}
	user.PhoneNumber = strings.TrimSpace(input.PhoneNumber)

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	result := dto.ToUserDTO(*user, "")
	return &result, nil
}

// SetProfileImage stores the new image path and returns the previous one so
// the caller can remove the stale file.
func (s *ProfileService) SetProfileImage(userID uint64, path string) (string, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	previous := user.ProfileImagePath
	user.ProfileImagePath = path

	if err := s.userRepo.Update(user); err != nil {
		return "", fmt.Errorf("failed to update profile image: %w", err)
	}

	return previous, nil
}
