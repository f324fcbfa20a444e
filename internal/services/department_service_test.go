package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"employee-management-api/internal/dto"
	"employee-management-api/internal/models"
)

func TestDepartmentCreate_TrimsName(t *testing.T) {
	env := setupServiceTestEnv(t)

	require.NoError(t, env.departmentService.Create(DepartmentInput{
		Name:     "  Engineering  ",
		IsActive: true,
	}))

	departments, err := env.departmentService.List(false)
	require.NoError(t, err)
	require.Len(t, departments, 1)
	require.Equal(t, "Engineering", departments[0].Name)
}

func TestDepartmentCreate_BlankNameRejected(t *testing.T) {
	env := setupServiceTestEnv(t)

	err := env.departmentService.Create(DepartmentInput{Name: "   "})
	require.ErrorIs(t, err, ErrDepartmentNameRequired)
}

func TestDepartmentCreate_DuplicateNameCaseInsensitive(t *testing.T) {
	env := setupServiceTestEnv(t)

	require.NoError(t, env.departmentService.Create(DepartmentInput{Name: "Engineering", IsActive: true}))

	err := env.departmentService.Create(DepartmentInput{Name: "  engineering "})
	require.ErrorIs(t, err, ErrDepartmentNameTaken)
}

func TestDepartmentUpdate_OwnNameNotDuplicate(t *testing.T) {
	env := setupServiceTestEnv(t)

	dept := env.seedDepartment(t, "Engineering")

	// Renaming to its own name (different case) must pass the uniqueness check.
	require.NoError(t, env.departmentService.Update(DepartmentInput{
		ID:       dept.ID,
		Name:     "ENGINEERING",
		IsActive: true,
	}))
}

func TestDepartmentUpdate_ConflictWithOther(t *testing.T) {
	env := setupServiceTestEnv(t)

	env.seedDepartment(t, "Engineering")
	sales := env.seedDepartment(t, "Sales")

	err := env.departmentService.Update(DepartmentInput{
		ID:       sales.ID,
		Name:     "engineering",
		IsActive: true,
	})
	require.ErrorIs(t, err, ErrDepartmentNameTaken)
}

func TestDepartmentUpdate_Unknown(t *testing.T) {
	env := setupServiceTestEnv(t)

	err := env.departmentService.Update(DepartmentInput{ID: 999, Name: "Ghost"})
	require.ErrorIs(t, err, ErrDepartmentNotFound)
}

func TestDepartmentDelete_BlockedWhileReferenced(t *testing.T) {
	env := setupServiceTestEnv(t)

	dept := env.seedDepartment(t, "Engineering")
	env.seedAccount(t, "worker@example.com", models.RoleEmployee, &dept.ID)

	err := env.departmentService.Delete(dept.ID)
	require.ErrorIs(t, err, ErrDepartmentHasEmployees)
}

func TestDepartmentDelete_BlockedByInactiveEmployeeToo(t *testing.T) {
	env := setupServiceTestEnv(t)

	dept := env.seedDepartment(t, "Engineering")
	worker := env.seedAccount(t, "worker@example.com", models.RoleEmployee, &dept.ID)

	employee, err := env.employeeRepo.FindByUserID(worker.ID)
	require.NoError(t, err)
	employee.IsActive = false
	require.NoError(t, env.employeeRepo.Update(employee))

	err = env.departmentService.Delete(dept.ID)
	require.ErrorIs(t, err, ErrDepartmentHasEmployees)
}

func TestDepartmentDelete_Empty(t *testing.T) {
	env := setupServiceTestEnv(t)

	dept := env.seedDepartment(t, "Engineering")
	require.NoError(t, env.departmentService.Delete(dept.ID))

	departments, err := env.departmentService.List(false)
	require.NoError(t, err)
	require.Empty(t, departments)
}

func TestDepartmentList_ActiveOnly(t *testing.T) {
	env := setupServiceTestEnv(t)

	env.seedDepartment(t, "Engineering")
	inactive := &models.Department{Name: "Legacy", IsActive: false}
	require.NoError(t, env.departmentRepo.Create(inactive))

	all, err := env.departmentService.List(false)
	require.NoError(t, err)
	require.Len(t, all, 2)

	active, err := env.departmentService.List(true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "Engineering", active[0].Name)
}

func TestDepartmentListPaged_SearchByName(t *testing.T) {
	env := setupServiceTestEnv(t)

	env.seedDepartment(t, "Engineering")
	env.seedDepartment(t, "Engineering Support")
	env.seedDepartment(t, "Sales")

	page, err := env.departmentService.ListPaged(dto.PageRequest{
		Page:       1,
		PageSize:   10,
		SearchTerm: "engineering",
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, page.TotalCount)
}
