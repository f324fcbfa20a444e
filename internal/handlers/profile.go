package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "employee-management-api/internal/errors"
	"employee-management-api/internal/middleware"
	"employee-management-api/internal/services"
	"employee-management-api/internal/storage"
)

// ProfileHandler serves the signed-in user's own profile.
type ProfileHandler struct {
	profileService *services.ProfileService
	files          storage.FileStorage
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *services.ProfileService, files storage.FileStorage) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		files:          files,
	}
}

// GetProfile returns the caller's profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetRole(c)

	profile, err := h.profileService.GetProfile(userID, role)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile updates the caller's name and phone number.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	type UpdateProfileRequest struct {
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		PhoneNumber string `json:"phone_number"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	userID, _ := middleware.GetUserID(c)

	user, err := h.profileService.UpdateProfile(userID, services.UpdateProfileInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UploadProfileImage replaces the caller's profile image. The previous file is
// removed after the new path is stored.
func (h *ProfileHandler) UploadProfileImage(c *gin.Context) {
	file, err := c.FormFile("profile_image")
	if err != nil {
		apierrors.BadRequest(c, "Missing profile image")
		return
	}

	src, err := file.Open()
	if err != nil {
		apierrors.BadRequest(c, "Invalid profile image")
		return
	}
	defer src.Close()

	path, err := h.files.Save(file.Filename, src)
	if err != nil {
		apierrors.InternalError(c, "Failed to store profile image")
		return
	}

	userID, _ := middleware.GetUserID(c)

	previous, err := h.profileService.SetProfileImage(userID, path)
	if err != nil {
		h.files.Remove(path)
		respondAuthError(c, err)
		return
	}

	if previous != "" && previous != path {
		h.files.Remove(previous)
	}

	c.JSON(http.StatusOK, gin.H{
		"profile_image_path": path,
	})
}
