package dto

import "employee-management-api/internal/models"

// UserDTO represents the authenticated user in API responses.
type UserDTO struct {
	ID               uint64      `json:"id"`
	Email            string      `json:"email"`
	FirstName        string      `json:"first_name"`
	LastName         string      `json:"last_name"`
	PhoneNumber      string      `json:"phone_number"`
	ProfileImagePath string      `json:"profile_image_path,omitempty"`
	EmailConfirmed   bool        `json:"email_confirmed"`
	Role             models.Role `json:"role,omitempty"`
}

// ToUserDTO converts a User model to UserDTO.
func ToUserDTO(user models.User, role models.Role) UserDTO {
	return UserDTO{
		ID:               user.ID,
		Email:            user.Email,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		PhoneNumber:      user.PhoneNumber,
		ProfileImagePath: user.ProfileImagePath,
		EmailConfirmed:   user.EmailConfirmed,
		Role:             role,
	}
}
