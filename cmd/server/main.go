package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"employee-management-api/internal/config"
	"employee-management-api/internal/constants"
	"employee-management-api/internal/database"
	"employee-management-api/internal/handlers"
	"employee-management-api/internal/mail"
	"employee-management-api/internal/middleware"
	"employee-management-api/internal/models"
	"employee-management-api/internal/policy"
	"employee-management-api/internal/repository"
	"employee-management-api/internal/services"
	"employee-management-api/internal/storage"
)

func main() {
	// Load .env when present; real environments set variables directly
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	logger, err := zap.NewProduction()
	if cfg.GinMode != "release" {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Ensure the bootstrap admin account exists
	if err := database.SeedAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Fatal("failed to seed admin account", zap.Error(err))
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		logger.Fatal("failed to create Redis store", zap.Error(err))
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Authorization policy
	accessPolicy := policy.New(employeeRepo, taskRepo)

	// Infrastructure
	mailer := mail.NewSMTPSender(cfg)
	files := storage.NewLocalStorage(cfg.UploadDir)

	// Services
	authService := services.NewAuthService(userRepo, mailer, cfg.TokenSecret, cfg.FrontendURL, logger)
	profileService := services.NewProfileService(userRepo, employeeRepo)
	departmentService := services.NewDepartmentService(departmentRepo)
	employeeService := services.NewEmployeeService(employeeRepo, userRepo, departmentRepo, accessPolicy, logger)
	taskService := services.NewTaskService(taskRepo, employeeRepo, userRepo, accessPolicy)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, files)
	profileHandler := handlers.NewProfileHandler(profileService, files)
	departmentHandler := handlers.NewDepartmentHandler(departmentService)
	employeeHandler := handlers.NewEmployeeHandler(employeeService)
	managerHandler := handlers.NewManagerHandler(employeeService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Uploaded profile images
	r.Static("/uploads", cfg.UploadDir)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Employee Management API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
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

		// Profile routes (protected)
		profile := api.Group("/profile")
		profile.Use(middleware.RequireAuth())
		{
			profile.GET("", profileHandler.GetProfile)
			profile.PUT("", profileHandler.UpdateProfile)
			profile.POST("/image", profileHandler.UploadProfileImage)
		}

		// Department routes (admin only)
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

		// Employee routes (admin and manager)
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

		// Manager routes (admin only)
		managers := api.Group("/managers")
		managers.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleAdmin))
		{
			managers.GET("", managerHandler.ListManagers)
			managers.GET("/:id", managerHandler.GetManager)
			managers.POST("", managerHandler.CreateManager)
			managers.PUT("/:id", managerHandler.UpdateManager)
			managers.DELETE("/user/:userId", managerHandler.DeleteManager)
		}

		// Task routes (all authenticated roles, scoped by policy)
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

	// Start server
	logger.Info("server starting", zap.String("addr", ":8080"))
	if err := r.Run(":8080"); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
