// Package policy implements the role-scoped authorization rules shared by the
// employee directory and the task board. Scope resolution and mutation checks
// are the single source of truth for what a caller may see or change.
package policy

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"employee-management-api/internal/models"
	"employee-management-api/internal/repository"
)

var (
	ErrNotAuthorized     = errors.New("you are not authorized to create tasks")
	ErrManagerNotFound   = errors.New("manager not found")
	ErrAssigneeNotFound  = errors.New("assigned employee not found")
	ErrOutsideDepartment = errors.New("can assign tasks only within your department")
	ErrTaskNotPermitted  = errors.New("not authorized for this task")

	ErrEmployeeHasActiveTasks  = errors.New("cannot delete employee with active (pending/in progress) tasks")
	ErrManagerManagesEmployees = errors.New("cannot delete manager who manages employees")
	ErrManagerHasAssignedTasks = errors.New("cannot delete manager with assigned tasks")
)

// FieldScope describes which task fields a permitted caller may mutate.
type FieldScope int

const (
	// FieldScopeFull permits mutation of every task field.
	FieldScopeFull FieldScope = iota
	// FieldScopeStatus permits mutation of the status field only.
	FieldScopeStatus
)

// Scope is the record visibility derived from a caller's role and department
// membership. Exactly one of the three shapes applies: unrestricted (All),
// department-bounded (DepartmentID plus the member user IDs), or self-only
// (SelfUserID). A scope with none of these set matches nothing.
type Scope struct {
	All          bool
	DepartmentID *uint64
	SelfUserID   *uint64
}

// Empty reports whether the scope can never match a record. A manager without
// an employee record or department resolves to an empty scope, not an error.
func (s Scope) Empty() bool {
	return !s.All && s.DepartmentID == nil && s.SelfUserID == nil
}

// Policy computes authorization scopes and mutation permissions.
type Policy struct {
	employeeRepo repository.EmployeeRepository
	taskRepo     repository.TaskRepository
}

// New creates a Policy backed by the given repositories.
func New(employeeRepo repository.EmployeeRepository, taskRepo repository.TaskRepository) *Policy {
	return &Policy{
		employeeRepo: employeeRepo,
		taskRepo:     taskRepo,
	}
}

// ResolveScope computes the visibility scope for a caller.
func (p *Policy) ResolveScope(userID uint64, role models.Role) (Scope, error) {
	switch role {
	case models.RoleAdmin:
		return Scope{All: true}, nil

	case models.RoleManager:
		employee, err := p.employeeRepo.FindByUserID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return Scope{}, nil
			}
			return Scope{}, fmt.Errorf("failed to resolve manager department: %w", err)
		}
		if employee.DepartmentID == nil {
			return Scope{}, nil
		}
		return Scope{DepartmentID: employee.DepartmentID}, nil

	case models.RoleEmployee:
		return Scope{SelfUserID: &userID}, nil

	default:
		return Scope{}, fmt.Errorf("unknown role %q", role)
	}
}

// CanCreateTask authorizes a task creation targeting assignedToUserID.
func (p *Policy) CanCreateTask(userID uint64, role models.Role, assignedToUserID uint64) error {
	switch role {
	case models.RoleAdmin:
		// Admins skip the department check but the target must still exist.
		if _, err := p.findEmployeeByUserID(assignedToUserID, ErrAssigneeNotFound); err != nil {
			return err
		}
		return nil

	case models.RoleManager:
		manager, err := p.findEmployeeByUserID(userID, ErrManagerNotFound)
		if err != nil {
			return err
		}

		assignee, err := p.findEmployeeByUserID(assignedToUserID, ErrAssigneeNotFound)
		if err != nil {
			return err
		}

		if !sameDepartment(manager, assignee) {
			return ErrOutsideDepartment
		}
		return nil

	case models.RoleEmployee:
		return ErrNotAuthorized

	default:
		return fmt.Errorf("unknown role %q", role)
	}
}

// CanMutateTask authorizes an update to an existing task and returns the
// field scope the caller is limited to.
func (p *Policy) CanMutateTask(userID uint64, role models.Role, task *models.Task) (FieldScope, error) {
	switch role {
	case models.RoleAdmin:
		return FieldScopeFull, nil

	case models.RoleManager:
		if err := p.checkManagerOwnsTask(userID, task); err != nil {
			return FieldScopeFull, err
		}
		return FieldScopeFull, nil

	case models.RoleEmployee:
		if task.AssignedToID != userID {
			return FieldScopeStatus, ErrTaskNotPermitted
		}
		return FieldScopeStatus, nil

	default:
		return FieldScopeFull, fmt.Errorf("unknown role %q", role)
	}
}

// CanDeleteTask authorizes removing a task.
func (p *Policy) CanDeleteTask(userID uint64, role models.Role, task *models.Task) error {
	switch role {
	case models.RoleAdmin:
		return nil

	case models.RoleManager:
		return p.checkManagerOwnsTask(userID, task)

	case models.RoleEmployee:
		if task.AssignedToID != userID {
			return ErrTaskNotPermitted
		}
		return nil

	default:
		return fmt.Errorf("unknown role %q", role)
	}
}

// CanDeleteEmployee checks the business rules blocking employee deletion.
func (p *Policy) CanDeleteEmployee(employee *models.Employee) error {
	active, err := p.taskRepo.CountActiveByAssignee(employee.UserID)
	if err != nil {
		return fmt.Errorf("failed to count active tasks: %w", err)
	}
	if active > 0 {
		return ErrEmployeeHasActiveTasks
	}
	return nil
}

// CanDeleteManager checks the business rules blocking manager deletion.
func (p *Policy) CanDeleteManager(managerUserID uint64) error {
	managed, err := p.employeeRepo.CountByManagerID(managerUserID)
	if err != nil {
		return fmt.Errorf("failed to count managed employees: %w", err)
	}
	if managed > 0 {
		return ErrManagerManagesEmployees
	}

	assigned, err := p.taskRepo.CountByAssignee(managerUserID)
	if err != nil {
		return fmt.Errorf("failed to count assigned tasks: %w", err)
	}
	if assigned > 0 {
		return ErrManagerHasAssignedTasks
	}

	return nil
}

// checkManagerOwnsTask verifies the task's assignee is inside the manager's
// department.
func (p *Policy) checkManagerOwnsTask(managerUserID uint64, task *models.Task) error {
	manager, err := p.findEmployeeByUserID(managerUserID, ErrManagerNotFound)
	if err != nil {
		return err
	}

	assignee, err := p.findEmployeeByUserID(task.AssignedToID, ErrTaskNotPermitted)
	if err != nil {
		return err
	}

	if !sameDepartment(manager, assignee) {
		return ErrTaskNotPermitted
	}
	return nil
}

func (p *Policy) findEmployeeByUserID(userID uint64, notFound error) (*models.Employee, error) {
	employee, err := p.employeeRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, fmt.Errorf("failed to find employee record: %w", err)
	}
	return employee, nil
}

// sameDepartment treats a missing department on either side as out of scope.
func sameDepartment(a, b *models.Employee) bool {
	if a.DepartmentID == nil || b.DepartmentID == nil {
		return false
	}
	return *a.DepartmentID == *b.DepartmentID
}
