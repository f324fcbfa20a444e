package policy

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"employee-management-api/internal/models"
	"employee-management-api/internal/repository"
)

type policyTestEnv struct {
	db     *gorm.DB
	policy *Policy
}

func setupPolicyTestEnv(t *testing.T) policyTestEnv {
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

	employeeRepo := repository.NewEmployeeRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return policyTestEnv{
		db:     db,
		policy: New(employeeRepo, taskRepo),
	}
}

func (env policyTestEnv) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:           email,
		NormalizedEmail: email,
		PasswordHash:    "x",
		FirstName:       "Test",
		LastName:        "User",
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env policyTestEnv) createEmployee(t *testing.T, userID uint64, departmentID *uint64) *models.Employee {
	t.Helper()
	employee := &models.Employee{
		UserID:       userID,
		DepartmentID: departmentID,
		IsActive:     true,
	}
	require.NoError(t, env.db.Create(employee).Error)
	return employee
}

func (env policyTestEnv) createDepartment(t *testing.T, name string) *models.Department {
	t.Helper()
	department := &models.Department{Name: name, IsActive: true}
	require.NoError(t, env.db.Create(department).Error)
	return department
}

func TestResolveScope_Admin(t *testing.T) {
	env := setupPolicyTestEnv(t)

	scope, err := env.policy.ResolveScope(1, models.RoleAdmin)
	require.NoError(t, err)
	require.True(t, scope.All)
	require.False(t, scope.Empty())
}

func TestResolveScope_ManagerWithDepartment(t *testing.T) {
	env := setupPolicyTestEnv(t)

	dept := env.createDepartment(t, "Engineering")
	manager := env.createUser(t, "manager@example.com")
	env.createEmployee(t, manager.ID, &dept.ID)

	scope, err := env.policy.ResolveScope(manager.ID, models.RoleManager)
	require.NoError(t, err)
	require.False(t, scope.All)
	require.NotNil(t, scope.DepartmentID)
	require.Equal(t, dept.ID, *scope.DepartmentID)
}

func TestResolveScope_ManagerWithoutDepartmentIsEmptyNotError(t *testing.T) {
	env := setupPolicyTestEnv(t)

	manager := env.createUser(t, "manager@example.com")
	env.createEmployee(t, manager.ID, nil)

	scope, err := env.policy.ResolveScope(manager.ID, models.RoleManager)
	require.NoError(t, err)
	require.True(t, scope.Empty())
}

func TestResolveScope_ManagerWithoutEmployeeRecordIsEmptyNotError(t *testing.T) {
	env := setupPolicyTestEnv(t)

	scope, err := env.policy.ResolveScope(999, models.RoleManager)
	require.NoError(t, err)
	require.True(t, scope.Empty())
}

func TestResolveScope_Employee(t *testing.T) {
	env := setupPolicyTestEnv(t)

	scope, err := env.policy.ResolveScope(42, models.RoleEmployee)
	require.NoError(t, err)
	require.NotNil(t, scope.SelfUserID)
	require.Equal(t, uint64(42), *scope.SelfUserID)
}

func TestCanCreateTask_EmployeeForbidden(t *testing.T) {
	env := setupPolicyTestEnv(t)

	err := env.policy.CanCreateTask(1, models.RoleEmployee, 2)
	require.ErrorIs(t, err, ErrNotAuthorized)
}

func TestCanCreateTask_ManagerSameDepartment(t *testing.T) {
	env := setupPolicyTestEnv(t)

	dept := env.createDepartment(t, "Engineering")
	manager := env.createUser(t, "manager@example.com")
	env.createEmployee(t, manager.ID, &dept.ID)
	worker := env.createUser(t, "worker@example.com")
	env.createEmployee(t, worker.ID, &dept.ID)

	require.NoError(t, env.policy.CanCreateTask(manager.ID, models.RoleManager, worker.ID))
}

func TestCanCreateTask_ManagerOtherDepartment(t *testing.T) {
	env := setupPolicyTestEnv(t)

	engineering := env.createDepartment(t, "Engineering")
	sales := env.createDepartment(t, "Sales")
	manager := env.createUser(t, "manager@example.com")
	env.createEmployee(t, manager.ID, &engineering.ID)
	worker := env.createUser(t, "worker@example.com")
	env.createEmployee(t, worker.ID, &sales.ID)

	err := env.policy.CanCreateTask(manager.ID, models.RoleManager, worker.ID)
	require.ErrorIs(t, err, ErrOutsideDepartment)
}

func TestCanCreateTask_ManagerWithoutDepartmentCannotAssign(t *testing.T) {
	env := setupPolicyTestEnv(t)

	dept := env.createDepartment(t, "Engineering")
	manager := env.createUser(t, "manager@example.com")
	env.createEmployee(t, manager.ID, nil)
	worker := env.createUser(t, "worker@example.com")
	env.createEmployee(t, worker.ID, &dept.ID)

	err := env.policy.CanCreateTask(manager.ID, models.RoleManager, worker.ID)
	require.ErrorIs(t, err, ErrOutsideDepartment)
}

func TestCanCreateTask_ManagerMissingEmployeeRecord(t *testing.T) {
	env := setupPolicyTestEnv(t)

	worker := env.createUser(t, "worker@example.com")
	env.createEmployee(t, worker.ID, nil)

	err := env.policy.CanCreateTask(999, models.RoleManager, worker.ID)
	require.ErrorIs(t, err, ErrManagerNotFound)
}

func TestCanCreateTask_AssigneeMissing(t *testing.T) {
	env := setupPolicyTestEnv(t)

	dept := env.createDepartment(t, "Engineering")
	manager := env.createUser(t, "manager@example.com")
	env.createEmployee(t, manager.ID, &dept.ID)

	err := env.policy.CanCreateTask(manager.ID, models.RoleManager, 999)
	require.ErrorIs(t, err, ErrAssigneeNotFound)
}

func TestCanCreateTask_AdminSkipsDepartmentCheck(t *testing.T) {
	env := setupPolicyTestEnv(t)

	worker := env.createUser(t, "worker@example.com")
	env.createEmployee(t, worker.ID, nil)

	require.NoError(t, env.policy.CanCreateTask(1, models.RoleAdmin, worker.ID))
}

func TestCanCreateTask_AdminAssigneeMustExist(t *testing.T) {
	env := setupPolicyTestEnv(t)

	err := env.policy.CanCreateTask(1, models.RoleAdmin, 999)
	require.ErrorIs(t, err, ErrAssigneeNotFound)
}

func TestCanMutateTask_EmployeeOwnTaskStatusOnly(t *testing.T) {
	env := setupPolicyTestEnv(t)

	task := &models.Task{AssignedToID: 5, CreatedByID: 1}

	scope, err := env.policy.CanMutateTask(5, models.RoleEmployee, task)
	require.NoError(t, err)
	require.Equal(t, FieldScopeStatus, scope)
}

func TestCanMutateTask_EmployeeOtherTaskForbidden(t *testing.T) {
	env := setupPolicyTestEnv(t)

	task := &models.Task{AssignedToID: 5, CreatedByID: 1}

	_, err := env.policy.CanMutateTask(6, models.RoleEmployee, task)
	require.ErrorIs(t, err, ErrTaskNotPermitted)
}

func TestCanMutateTask_ManagerDepartmentTaskFullScope(t *testing.T) {
	env := setupPolicyTestEnv(t)

	dept := env.createDepartment(t, "Engineering")
	manager := env.createUser(t, "manager@example.com")
	env.createEmployee(t, manager.ID, &dept.ID)
	worker := env.createUser(t, "worker@example.com")
	env.createEmployee(t, worker.ID, &dept.ID)

	task := &models.Task{AssignedToID: worker.ID, CreatedByID: manager.ID}

	scope, err := env.policy.CanMutateTask(manager.ID, models.RoleManager, task)
	require.NoError(t, err)
	require.Equal(t, FieldScopeFull, scope)
}

func TestCanMutateTask_ManagerOutsideDepartmentForbidden(t *testing.T) {
	env := setupPolicyTestEnv(t)

	engineering := env.createDepartment(t, "Engineering")
	sales := env.createDepartment(t, "Sales")
	manager := env.createUser(t, "manager@example.com")
	env.createEmployee(t, manager.ID, &engineering.ID)
	worker := env.createUser(t, "worker@example.com")
	env.createEmployee(t, worker.ID, &sales.ID)

	task := &models.Task{AssignedToID: worker.ID, CreatedByID: 1}

	_, err := env.policy.CanMutateTask(manager.ID, models.RoleManager, task)
	require.ErrorIs(t, err, ErrTaskNotPermitted)
}

func TestCanDeleteTask_AdminAlways(t *testing.T) {
	env := setupPolicyTestEnv(t)

	task := &models.Task{AssignedToID: 5, CreatedByID: 1}
	require.NoError(t, env.policy.CanDeleteTask(1, models.RoleAdmin, task))
}

func TestCanDeleteTask_EmployeeOwnTask(t *testing.T) {
	env := setupPolicyTestEnv(t)

	task := &models.Task{AssignedToID: 5, CreatedByID: 1}
	require.NoError(t, env.policy.CanDeleteTask(5, models.RoleEmployee, task))
	require.ErrorIs(t, env.policy.CanDeleteTask(6, models.RoleEmployee, task), ErrTaskNotPermitted)
}

func TestCanDeleteEmployee_BlockedByActiveTasks(t *testing.T) {
	env := setupPolicyTestEnv(t)

	worker := env.createUser(t, "worker@example.com")
	employee := env.createEmployee(t, worker.ID, nil)

	task := &models.Task{
		Title:        "Open work",
		Status:       models.TaskStatusInProgress,
		AssignedToID: worker.ID,
		CreatedByID:  1,
	}
	require.NoError(t, env.db.Create(task).Error)

	require.ErrorIs(t, env.policy.CanDeleteEmployee(employee), ErrEmployeeHasActiveTasks)

	// Completed tasks do not block deletion.
	require.NoError(t, env.db.Model(task).Update("status", models.TaskStatusCompleted).Error)
	require.NoError(t, env.policy.CanDeleteEmployee(employee))
}

func TestCanDeleteManager_BlockedByManagedEmployees(t *testing.T) {
	env := setupPolicyTestEnv(t)

	manager := env.createUser(t, "manager@example.com")
	env.createEmployee(t, manager.ID, nil)

	worker := env.createUser(t, "worker@example.com")
	employee := env.createEmployee(t, worker.ID, nil)
	require.NoError(t, env.db.Model(employee).Update("manager_id", manager.ID).Error)

	require.ErrorIs(t, env.policy.CanDeleteManager(manager.ID), ErrManagerManagesEmployees)
}

func TestCanDeleteManager_BlockedByAssignedTasks(t *testing.T) {
	env := setupPolicyTestEnv(t)

	manager := env.createUser(t, "manager@example.com")
	env.createEmployee(t, manager.ID, nil)

	task := &models.Task{
		Title:        "Handed down",
		Status:       models.TaskStatusCompleted,
		AssignedToID: manager.ID,
		CreatedByID:  1,
	}
	require.NoError(t, env.db.Create(task).Error)

	// Even a completed assignment blocks manager deletion.
	require.ErrorIs(t, env.policy.CanDeleteManager(manager.ID), ErrManagerHasAssignedTasks)
}

func TestCanDeleteManager_Unreferenced(t *testing.T) {
	env := setupPolicyTestEnv(t)

	manager := env.createUser(t, "manager@example.com")
	env.createEmployee(t, manager.ID, nil)

	require.NoError(t, env.policy.CanDeleteManager(manager.ID))
}
