package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"employee-management-api/internal/constants"
	"employee-management-api/internal/database"
	"employee-management-api/internal/middleware"
	"employee-management-api/internal/models"
	"employee-management-api/internal/policy"
	"employee-management-api/internal/repository"
	"employee-management-api/internal/services"
	"employee-management-api/internal/storage"
)

// fakeMailer swallows outgoing mail in handler tests.
type fakeMailer struct{}

func (fakeMailer) Send(to, subject, htmlBody string) error { return nil }

type handlerTestEnv struct {
	db     *gorm.DB
	router *gin.Engine

	userRepo     repository.UserRepository
	employeeRepo repository.EmployeeRepository
	taskRepo     repository.TaskRepository

	departmentRepo repository.DepartmentRepository
	authService    *services.AuthService
}

func setupHandlerTestEnv(t *testing.T) handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.UserRole{},
		&models.Department{},
		&models.Employee{},
		&models.Task{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	accessPolicy := policy.New(employeeRepo, taskRepo)
	logger := zap.NewNop()

	files := storage.NewLocalStorage(t.TempDir())
	authService := services.NewAuthService(userRepo, fakeMailer{}, "test-secret", "http://localhost:3000", logger)
	profileService := services.NewProfileService(userRepo, employeeRepo)
	departmentService := services.NewDepartmentService(departmentRepo)
	employeeService := services.NewEmployeeService(employeeRepo, userRepo, departmentRepo, accessPolicy, logger)
	taskService := services.NewTaskService(taskRepo, employeeRepo, userRepo, accessPolicy)

	authHandler := NewAuthHandler(authService, files)
	profileHandler := NewProfileHandler(profileService, files)
	departmentHandler := NewDepartmentHandler(departmentService)
	employeeHandler := NewEmployeeHandler(employeeService)
	managerHandler := NewManagerHandler(employeeService)
	taskHandler := NewTaskHandler(taskService)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/confirm-email", authHandler.ConfirmEmail)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
			auth.POST("/change-password", middleware.RequireAuth(), authHandler.ChangePassword)
		}

		profile := api.Group("/profile")
		profile.Use(middleware.RequireAuth())
		{
			profile.GET("", profileHandler.GetProfile)
			profile.PUT("", profileHandler.UpdateProfile)
			profile.POST("/image", profileHandler.UploadProfileImage)
		}

		departments := api.Group("/departments")
		departments.Use(middleware.RequireAuth())
		{
			departments.GET("/options", departmentHandler.ListActiveDepartments)

			admin := departments.Group("")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("", departmentHandler.ListDepartments)
				admin.POST("", departmentHandler.CreateDepartment)
				admin.PUT("/:id", departmentHandler.UpdateDepartment)
				admin.DELETE("/:id", departmentHandler.DeleteDepartment)
			}
		}

		employees := api.Group("/employees")
		employees.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleAdmin, models.RoleManager))
		{
			employees.GET("", employeeHandler.ListEmployees)
			employees.GET("/departments", employeeHandler.ListDepartmentOptions)
			employees.GET("/:id", employeeHandler.GetEmployee)
			employees.POST("", employeeHandler.CreateEmployee)
			employees.PUT("/:id", employeeHandler.UpdateEmployee)
			employees.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), employeeHandler.DeleteEmployee)
		}

		managers := api.Group("/managers")
		managers.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleAdmin))
		{
			managers.GET("", managerHandler.ListManagers)
			managers.GET("/:id", managerHandler.GetManager)
			managers.POST("", managerHandler.CreateManager)
			managers.PUT("/:id", managerHandler.UpdateManager)
			managers.DELETE("/user/:userId", managerHandler.DeleteManager)
		}

		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/paged", taskHandler.ListTasksPaged)
			tasks.GET("/assignable", taskHandler.ListAssignableEmployees)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.POST("", middleware.RequireRole(models.RoleAdmin, models.RoleManager), taskHandler.CreateTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return handlerTestEnv{
		db:             db,
		router:         r,
		userRepo:       userRepo,
		employeeRepo:   employeeRepo,
		taskRepo:       taskRepo,
		departmentRepo: departmentRepo,
		authService:    authService,
	}
}

// seedAccount registers an account through the service and adjusts the role.
func (env handlerTestEnv) seedAccount(t *testing.T, email, password string, role models.Role, departmentID *uint64) *models.User {
	t.Helper()

	user, err := env.authService.Register(services.RegisterInput{
		FirstName: "Seeded",
		LastName:  "Account",
		Email:     email,
		Password:  password,
	})
	require.NoError(t, err)

	if role != models.RoleEmployee {
		require.NoError(t, env.db.Where("user_id = ?", user.ID).Delete(&models.UserRole{}).Error)
		require.NoError(t, env.db.Create(&models.UserRole{UserID: user.ID, Role: role}).Error)
	}

	if departmentID != nil {
		employee, err := env.employeeRepo.FindByUserID(user.ID)
		require.NoError(t, err)
		employee.DepartmentID = departmentID
		require.NoError(t, env.employeeRepo.Update(employee))
	}

	return user
}

// login performs a real login request and returns the session cookies.
func (env handlerTestEnv) login(t *testing.T, email, password string) []*http.Cookie {
	t.Helper()

	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

// doJSON sends an authenticated JSON request through the router.
func (env handlerTestEnv) doJSON(t *testing.T, method, path string, payload any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}
