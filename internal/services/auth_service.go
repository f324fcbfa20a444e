package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"employee-management-api/internal/constants"
	"employee-management-api/internal/mail"
	"employee-management-api/internal/models"
	"employee-management-api/internal/repository"
	"employee-management-api/internal/utils"
)

var (
	ErrEmailInUse           = errors.New("email is already in use")
	ErrPhoneInUse           = errors.New("phone number is already registered")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidResetToken    = errors.New("invalid or expired token")
	ErrWrongCurrentPassword = errors.New("current password is incorrect")
)

// AuthService handles registration, login, and account credential flows.
type AuthService struct {
	userRepo    repository.UserRepository
	mailer      mail.Sender
	tokenSecret string
	frontendURL string
	logger      *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, mailer mail.Sender, tokenSecret, frontendURL string, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		mailer:      mailer,
		tokenSecret: tokenSecret,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// RegisterInput represents the required information for self-registration.
type RegisterInput struct {
	FirstName        string
	LastName         string
	Email            string
	PhoneNumber      string
	Password         string
	ProfileImagePath string
}

// Register creates an Employee-role user with a linked employee record in a
// single transaction and sends a confirmation mail.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if input.PhoneNumber != "" {
		if _, err := s.userRepo.FindByPhone(input.PhoneNumber); err == nil {
			return nil, ErrPhoneInUse
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check phone number: %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:            email,
		PasswordHash:     string(hash),
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		PhoneNumber:      input.PhoneNumber,
		ProfileImagePath: input.ProfileImagePath,
	}

	now := time.Now()
	employee := &models.Employee{
		IsActive: true,
		HireDate: &now,
	}

	if err := s.userRepo.CreateWithRoleAndEmployee(user, models.RoleEmployee, employee); err != nil {
		s.logger.Error("registration failed", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("failed to complete registration: %w", err)
	}

	s.sendConfirmationMail(user)

	return user, nil
}

// Login verifies credentials and returns the user with their role claim.
func (s *AuthService) Login(email, password string) (*models.User, models.Role, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	role, err := s.userRepo.GetRole(user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to resolve role: %w", err)
	}

	return user, role, nil
}

// GetUser retrieves a user by ID together with their role.
func (s *AuthService) GetUser(id uint64) (*models.User, models.Role, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	role, err := s.userRepo.GetRole(user.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("failed to resolve role: %w", err)
	}

	return user, role, nil
}

// ConfirmEmail marks the user's email as confirmed from a signed token.
func (s *AuthService) ConfirmEmail(token string) error {
	userID, err := utils.ParseUserToken(s.tokenSecret, token, utils.TokenPurposeEmailConfirm)
	if err != nil {
		return ErrInvalidResetToken
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if user.EmailConfirmed {
		return nil
	}

	user.EmailConfirmed = true
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to confirm email: %w", err)
	}

	return nil
}

// ForgotPassword sends a reset link. Unknown addresses are ignored so the
// endpoint does not reveal which emails are registered.
func (s *AuthService) ForgotPassword(email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	token, err := utils.GenerateUserToken(s.tokenSecret, user.ID, utils.TokenPurposePasswordReset, time.Hour)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token)
	body := fmt.Sprintf("<p>Hello %s,</p><p>Reset your password by following <a href=%q>this link</a>. The link expires in one hour.</p>", user.FirstName, link)

	if err := s.mailer.Send(user.Email, "Password reset", body); err != nil {
		s.logger.Error("failed to send reset mail", zap.Uint64("user_id", user.ID), zap.Error(err))
	}

	return nil
}

// ResetPassword sets a new password from a reset token.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	userID, err := utils.ParseUserToken(s.tokenSecret, token, utils.TokenPurposePasswordReset)
	if err != nil {
		return ErrInvalidResetToken
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// ChangePassword replaces the password after verifying the current one.
func (s *AuthService) ChangePassword(userID uint64, currentPassword, newPassword string) error {
	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrWrongCurrentPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// sendConfirmationMail delivers the email-confirmation link. Delivery errors
// are logged and never fail the registration.
func (s *AuthService) sendConfirmationMail(user *models.User) {
	token, err := utils.GenerateUserToken(s.tokenSecret, user.ID, utils.TokenPurposeEmailConfirm, 24*time.Hour)
	if err != nil {
		s.logger.Error("failed to generate confirmation token", zap.Uint64("user_id", user.ID), zap.Error(err))
		return
	}

	link := fmt.Sprintf("%s/confirm-email?token=%s", s.frontendURL, token)
	body := fmt.Sprintf("<p>Welcome %s,</p><p>Confirm your email by following <a href=%q>this link</a>.</p>", user.FirstName, link)

	if err := s.mailer.Send(user.Email, "Confirm your email", body); err != nil {
		s.logger.Error("failed to send confirmation mail", zap.Uint64("user_id", user.ID), zap.Error(err))
	}
}
