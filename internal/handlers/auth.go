package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"employee-management-api/internal/constants"
	"employee-management-api/internal/dto"
	apierrors "employee-management-api/internal/errors"
	"employee-management-api/internal/middleware"
	"employee-management-api/internal/services"
	"employee-management-api/internal/storage"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	files       storage.FileStorage
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, files storage.FileStorage) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		files:       files,
	}
}

// Register creates a self-service employee account. Accepts multipart form
// data so an optional profile image can be uploaded in the same request.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		FirstName   string `form:"first_name" binding:"required"`
		LastName    string `form:"last_name" binding:"required"`
		Email       string `form:"email" binding:"required,email"`
		PhoneNumber string `form:"phone_number"`
		Password    string `form:"password" binding:"required"`
	}

	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	imagePath := ""
	if file, err := c.FormFile("profile_image"); err == nil {
		src, err := file.Open()
		if err != nil {
			apierrors.BadRequest(c, "Invalid profile image")
			return
		}
		defer src.Close()

		imagePath, err = h.files.Save(file.Filename, src)
		if err != nil {
			apierrors.InternalError(c, "Failed to store profile image")
			return
		}
	}

	user, err := h.authService.Register(services.RegisterInput{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		PhoneNumber:      req.PhoneNumber,
		Password:         req.Password,
		ProfileImagePath: imagePath,
	})
	if err != nil {
		if imagePath != "" {
			h.files.Remove(imagePath)
		}
		respondAuthError(c, err)
		return
	}

	userDTO := dto.ToUserDTO(*user, "")
	c.JSON(http.StatusCreated, userDTO)
}

// Login authenticates a user and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, role, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	session.Set(constants.ContextKeyRole, string(role))
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	userDTO := dto.ToUserDTO(*user, role)
	c.JSON(http.StatusOK, userDTO)
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, role, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	userDTO := dto.ToUserDTO(*user, role)
	c.JSON(http.StatusOK, userDTO)
}

// ConfirmEmail validates the confirmation token from the mailed link.
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		apierrors.BadRequest(c, "Missing token")
		return
	}

	if err := h.authService.ConfirmEmail(token); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Email confirmed",
	})
}

// ForgotPassword mails a reset link. The response is identical whether or not
// the email is registered.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	type ForgotPasswordRequest struct {
		Email string `json:"email" binding:"required,email"`
	}

	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authService.ForgotPassword(req.Email); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "If the email is registered, a reset link has been sent",
	})
}

// ResetPassword sets a new password using a reset token.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	type ResetPasswordRequest struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authService.ResetPassword(req.Token, req.NewPassword); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password has been reset",
	})
}

// ChangePassword replaces the caller's password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	type ChangePasswordRequest struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.authService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password changed",
	})
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrEmailInUse),
		errors.Is(err, services.ErrPhoneInUse):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrWrongCurrentPassword):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidResetToken):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
