package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"employee-management-api/internal/dto"
	"employee-management-api/internal/models"
)

func TestAuthHandler_Register(t *testing.T) {
	env := setupHandlerTestEnv(t)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("first_name", "New"))
	require.NoError(t, form.WriteField("last_name", "Person"))
	require.NoError(t, form.WriteField("email", "new@example.com"))
	require.NoError(t, form.WriteField("password", "password123"))
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "new@example.com", response.Email)
	require.False(t, response.EmailConfirmed)
}

func TestAuthHandler_Register_WithProfileImage(t *testing.T) {
	env := setupHandlerTestEnv(t)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("first_name", "New"))
	require.NoError(t, form.WriteField("last_name", "Person"))
	require.NoError(t, form.WriteField("email", "pic@example.com"))
	require.NoError(t, form.WriteField("password", "password123"))
	part, err := form.CreateFormFile("profile_image", "avatar.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake-png-bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	user, err := env.userRepo.FindByEmail("pic@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, user.ProfileImagePath)
}

func TestAuthHandler_Register_DuplicateEmailConflicts(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.seedAccount(t, "dup@example.com", "password123", models.RoleEmployee, nil)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("first_name", "Again"))
	require.NoError(t, form.WriteField("last_name", "Person"))
	require.NoError(t, form.WriteField("email", "dup@example.com"))
	require.NoError(t, form.WriteField("password", "password123"))
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_LoginAndMe(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.seedAccount(t, "login@example.com", "password123", models.RoleEmployee, nil)

	cookies := env.login(t, "login@example.com", "password123")

	w := env.doJSON(t, http.MethodGet, "/api/auth/me", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "login@example.com", response.Email)
	require.Equal(t, models.RoleEmployee, response.Role)
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.seedAccount(t, "login@example.com", "password123", models.RoleEmployee, nil)

	w := env.doJSON(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "login@example.com",
		"password": "wrong",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_ProtectedRouteWithoutSession(t *testing.T) {
	env := setupHandlerTestEnv(t)

	w := env.doJSON(t, http.MethodGet, "/api/auth/me", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.seedAccount(t, "logout@example.com", "password123", models.RoleEmployee, nil)

	cookies := env.login(t, "logout@example.com", "password123")

	w := env.doJSON(t, http.MethodPost, "/api/auth/logout", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	// The refreshed (cleared) cookie no longer authenticates.
	cleared := w.Result().Cookies()
	w = env.doJSON(t, http.MethodGet, "/api/auth/me", nil, cleared)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.seedAccount(t, "change@example.com", "password123", models.RoleEmployee, nil)

	cookies := env.login(t, "change@example.com", "password123")

	w := env.doJSON(t, http.MethodPost, "/api/auth/change-password", map[string]string{
		"current_password": "password123",
		"new_password":     "newpassword456",
	}, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	env.login(t, "change@example.com", "newpassword456")
}

func TestProfileHandler_GetAndUpdate(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.seedAccount(t, "profile@example.com", "password123", models.RoleEmployee, nil)

	cookies := env.login(t, "profile@example.com", "password123")

	w := env.doJSON(t, http.MethodGet, "/api/profile", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.doJSON(t, http.MethodPut, "/api/profile", map[string]string{
		"first_name":   "Renamed",
		"phone_number": "555-0123",
	}, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Renamed", response.FirstName)
	require.Equal(t, "555-0123", response.PhoneNumber)
}

func TestProfileHandler_UploadImage(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.seedAccount(t, "avatar@example.com", "password123", models.RoleEmployee, nil)

	cookies := env.login(t, "avatar@example.com", "password123")

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("profile_image", "avatar.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake-png-bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/profile/image", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	user, err := env.userRepo.FindByEmail("avatar@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, user.ProfileImagePath)
}
