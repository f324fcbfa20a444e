package repository

import (
	"employee-management-api/internal/dto"
	"employee-management-api/internal/models"
)

// UserRepository defines the interface for user/identity data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// CreateWithRoleAndEmployee creates a user, their role grant, and the
	// linked employee record within a single transaction.
	CreateWithRoleAndEmployee(user *models.User, role models.Role, employee *models.Employee) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(email string) (*models.User, error)

	// FindByPhone finds a user by phone number
	FindByPhone(phone string) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// AddRole grants a role to a user; granting an already-held role is a no-op
	AddRole(userID uint64, role models.Role) error

	// HasRole reports whether the user holds the given role
	HasRole(userID uint64, role models.Role) (bool, error)

	// GetRole returns the user's role grant
	GetRole(userID uint64) (models.Role, error)

	// ListUserIDsInRole returns the IDs of all users holding the role
	ListUserIDsInRole(role models.Role) ([]uint64, error)
}

// DepartmentRepository defines the interface for department data access
type DepartmentRepository interface {
	// Create creates a new department
	Create(department *models.Department) error

	// FindByID finds a department by ID
	FindByID(id uint64) (*models.Department, error)

	// NameExists reports whether a department with the given name exists,
	// compared case-insensitively, excluding the given ID (0 excludes nothing)
	NameExists(name string, excludeID uint64) (bool, error)

	// Update updates a department
	Update(department *models.Department) error

	// Delete deletes a department
	Delete(id uint64) error

	// List returns departments, optionally only active ones
	List(activeOnly bool) ([]models.Department, error)

	// ListPaged returns a page of departments with search and sorting
	ListPaged(req dto.PageRequest) ([]models.Department, int64, error)

	// CountEmployees counts employee records referencing the department
	CountEmployees(departmentID uint64) (int64, error)
}

// EmployeeFilter holds filtering options for the paginated employee listing
type EmployeeFilter struct {
	// DepartmentID restricts results to one department when set
	DepartmentID *uint64
	// IncludeUserIDs restricts results to these user IDs when non-nil
	IncludeUserIDs []uint64
	// ExcludeUserIDs removes these user IDs from the results
	ExcludeUserIDs []uint64
	// ActiveOnly drops inactive employee records
	ActiveOnly bool
}

// EmployeeRepository defines the interface for employee data access
type EmployeeRepository interface {
	// Create creates a new employee record
	Create(employee *models.Employee) error

	// FindByID finds an employee by ID with User and Department preloaded
	FindByID(id uint64) (*models.Employee, error)

	// FindByUserID finds an employee by the linked user ID
	FindByUserID(userID uint64) (*models.Employee, error)

	// FindByUserIDs returns employees for the given user IDs with User and
	// Department preloaded
	FindByUserIDs(userIDs []uint64) ([]models.Employee, error)

	// Update updates an employee record
	Update(employee *models.Employee) error

	// DeleteWithUser deletes the employee record together with the linked
	// user and role grants within a single transaction
	DeleteWithUser(employee *models.Employee) error

	// ListPaged returns a page of employees with search and sorting applied
	ListPaged(filter EmployeeFilter, req dto.PageRequest) ([]models.Employee, int64, error)

	// ListAssignable returns employees matching the filter ordered by name
	ListAssignable(filter EmployeeFilter) ([]models.Employee, error)

	// CountByManagerID counts employee records referencing the user as manager
	CountByManagerID(managerUserID uint64) (int64, error)

	// ListUserIDsByDepartment returns the user IDs of every employee record
	// in the department, active or not
	ListUserIDsByDepartment(departmentID uint64) ([]uint64, error)
}

// TaskScope restricts which tasks a query may return. A zero value matches
// nothing; set All for unrestricted access.
type TaskScope struct {
	// All disables scope filtering (admin)
	All bool
	// AssignedToID matches tasks assigned to this user (employee self-scope)
	AssignedToID *uint64
	// AssignedToIDs matches tasks assigned to any of these users (department)
	AssignedToIDs []uint64
	// CreatedByID additionally matches tasks created by this user (manager)
	CreatedByID *uint64
}

// Empty reports whether the scope can never match a task.
func (s TaskScope) Empty() bool {
	return !s.All && s.AssignedToID == nil && len(s.AssignedToIDs) == 0 && s.CreatedByID == nil
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves all tasks visible within the scope
	List(scope TaskScope) ([]models.Task, error)

	// ListPaged retrieves a page of tasks within the scope with search and
	// sorting applied
	ListPaged(scope TaskScope, req dto.PageRequest) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task
	Delete(id uint64) error

	// CountActiveByAssignee counts Pending/InProgress tasks assigned to the user
	CountActiveByAssignee(userID uint64) (int64, error)

	// CountByAssignee counts all tasks assigned to the user
	CountByAssignee(userID uint64) (int64, error)
}
