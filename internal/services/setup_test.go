package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"employee-management-api/internal/models"
	"employee-management-api/internal/policy"
	"employee-management-api/internal/repository"
)

const testTokenSecret = "test-token-secret"

// fakeMailer records sent mail instead of delivering it.
type fakeMailer struct {
	sent []sentMail
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (m *fakeMailer) Send(to, subject, htmlBody string) error {
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

type serviceTestEnv struct {
	db     *gorm.DB
	mailer *fakeMailer

	userRepo       repository.UserRepository
	employeeRepo   repository.EmployeeRepository
	departmentRepo repository.DepartmentRepository
	taskRepo       repository.TaskRepository

	authService       *AuthService
	profileService    *ProfileService
	employeeService   *EmployeeService
	departmentService *DepartmentService
	taskService       *TaskService
}

func setupServiceTestEnv(t *testing.T) serviceTestEnv {
	t.Helper()

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

	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	accessPolicy := policy.New(employeeRepo, taskRepo)

	mailer := &fakeMailer{}
	logger := zap.NewNop()

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return serviceTestEnv{
		db:                db,
		mailer:            mailer,
		userRepo:          userRepo,
		employeeRepo:      employeeRepo,
		departmentRepo:    departmentRepo,
		taskRepo:          taskRepo,
		authService:       NewAuthService(userRepo, mailer, testTokenSecret, "http://localhost:3000", logger),
		profileService:    NewProfileService(userRepo, employeeRepo),
		employeeService:   NewEmployeeService(employeeRepo, userRepo, departmentRepo, accessPolicy, logger),
		departmentService: NewDepartmentService(departmentRepo),
		taskService:       NewTaskService(taskRepo, employeeRepo, userRepo, accessPolicy),
	}
}

// seedAccount creates a user with the given role and an employee record in the
// department. A nil department leaves the record unassigned; admins get no
// employee record at all.
func (env serviceTestEnv) seedAccount(t *testing.T, email string, role models.Role, departmentID *uint64) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "User",
	}
	require.NoError(t, env.userRepo.Create(user))
	require.NoError(t, env.userRepo.AddRole(user.ID, role))

	if role != models.RoleAdmin {
		employee := &models.Employee{
			UserID:       user.ID,
			DepartmentID: departmentID,
			IsActive:     true,
		}
		require.NoError(t, env.employeeRepo.Create(employee))
	}

	return user
}

func (env serviceTestEnv) seedDepartment(t *testing.T, name string) *models.Department {
	t.Helper()

	department := &models.Department{Name: name, IsActive: true}
	require.NoError(t, env.departmentRepo.Create(department))
	return department
}

func (env serviceTestEnv) seedTask(t *testing.T, title string, status models.TaskStatus, assignedTo, createdBy uint64) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:        title,
		Status:       status,
		AssignedToID: assignedTo,
		CreatedByID:  createdBy,
	}
	require.NoError(t, env.taskRepo.Create(task))
	return task
}
