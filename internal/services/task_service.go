package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"employee-management-api/internal/dto"
	"employee-management-api/internal/models"
	"employee-management-api/internal/policy"
	"employee-management-api/internal/repository"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskTitleRequired = errors.New("title is required")
	ErrInvalidTaskStatus = errors.New("invalid task status")
)

// TaskService handles task board business logic.
type TaskService struct {
	taskRepo     repository.TaskRepository
	employeeRepo repository.EmployeeRepository
	userRepo     repository.UserRepository
	policy       *policy.Policy
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, employeeRepo repository.EmployeeRepository, userRepo repository.UserRepository, p *policy.Policy) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		employeeRepo: employeeRepo,
		userRepo:     userRepo,
		policy:       p,
	}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title        string
	Description  string
	Status       models.TaskStatus
	DueDate      *time.Time
	AssignedToID uint64
}

// UpdateTaskInput carries the full submitted task payload. Which fields are
// applied depends on the caller's field scope.
type UpdateTaskInput struct {
	Title        string
	Description  string
	Status       models.TaskStatus
	DueDate      *time.Time
	AssignedToID uint64
}

// ListTasks returns all tasks visible to the caller, enriched with assignee
// name and department.
func (s *TaskService) ListTasks(userID uint64, role models.Role) ([]dto.TaskDTO, error) {
	scope, err := s.taskScope(userID, role)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.List(scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	assignees, err := s.assigneesFor(tasks)
	if err != nil {
		return nil, err
	}

	return dto.ToTaskDTOs(tasks, assignees), nil
}

// ListTasksPaged returns a page of visible tasks with search and sorting.
func (s *TaskService) ListTasksPaged(userID uint64, role models.Role, req dto.PageRequest) (dto.PageResponse[dto.TaskDTO], error) {
	var empty dto.PageResponse[dto.TaskDTO]

	scope, err := s.taskScope(userID, role)
	if err != nil {
		return empty, err
	}

	tasks, total, err := s.taskRepo.ListPaged(scope, req)
	if err != nil {
		return empty, fmt.Errorf("failed to list tasks: %w", err)
	}

	assignees, err := s.assigneesFor(tasks)
	if err != nil {
		return empty, err
	}

	return dto.NewPageResponse(dto.ToTaskDTOs(tasks, assignees), total, req.Page, req.PageSize), nil
}

// GetTask returns one task if it is inside the caller's scope. Out-of-scope
// tasks are reported as not found so their existence is not leaked.
func (s *TaskService) GetTask(taskID, userID uint64, role models.Role) (*dto.TaskDTO, error) {
	task, err := s.taskRepo.FindByID(taskID, "AssignedTo", "CreatedBy")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	visible, err := s.inScope(task, userID, role)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrTaskNotFound
	}

	assignees, err := s.assigneesFor([]models.Task{*task})
	if err != nil {
		return nil, err
	}

	result := dto.ToTaskDTO(*task, assignees)
	return &result, nil
}

// CreateTask creates a task after the policy authorizes the assignment.
func (s *TaskService) CreateTask(input CreateTaskInput, userID uint64, role models.Role) (*dto.TaskDTO, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTaskTitleRequired
	}

	if input.Status == "" {
		input.Status = models.TaskStatusPending
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidTaskStatus
	}

	if err := s.policy.CanCreateTask(userID, role, input.AssignedToID); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		Status:       input.Status,
		DueDate:      input.DueDate,
		AssignedToID: input.AssignedToID,
		CreatedByID:  userID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	assignees, err := s.assigneesFor([]models.Task{*task})
	if err != nil {
		return nil, err
	}

	result := dto.ToTaskDTO(*task, assignees)
	return &result, nil
}

// UpdateTask applies the submitted payload within the caller's field scope.
// Employee callers only change the status; everything else keeps its stored
// value regardless of what was submitted.
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput, userID uint64, role models.Role) (*dto.TaskDTO, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	fieldScope, err := s.policy.CanMutateTask(userID, role, task)
	if err != nil {
		return nil, err
	}

	if !input.Status.Valid() {
		return nil, ErrInvalidTaskStatus
	}

	switch fieldScope {
	case policy.FieldScopeStatus:
		task.Status = input.Status
	case policy.FieldScopeFull:
		if strings.TrimSpace(input.Title) == "" {
			return nil, ErrTaskTitleRequired
		}
		task.Title = strings.TrimSpace(input.Title)
		task.Description = input.Description
		task.DueDate = input.DueDate
		task.Status = input.Status
		task.AssignedToID = input.AssignedToID
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	assignees, err := s.assigneesFor([]models.Task{*task})
	if err != nil {
		return nil, err
	}

	result := dto.ToTaskDTO(*task, assignees)
	return &result, nil
}

// DeleteTask removes a task the caller is permitted to delete.
func (s *TaskService) DeleteTask(taskID, userID uint64, role models.Role) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.policy.CanDeleteTask(userID, role, task); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// ListAssignableEmployees returns the active Employee-role users the caller
// may assign tasks to. Employees get an empty list; managers are limited to
// their own department.
func (s *TaskService) ListAssignableEmployees(userID uint64, role models.Role) ([]dto.EmployeeSummaryDTO, error) {
	if role == models.RoleEmployee {
		return []dto.EmployeeSummaryDTO{}, nil
	}

	employeeUserIDs, err := s.userRepo.ListUserIDsInRole(models.RoleEmployee)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee role holders: %w", err)
	}
	if len(employeeUserIDs) == 0 {
		return []dto.EmployeeSummaryDTO{}, nil
	}

	filter := repository.EmployeeFilter{
		IncludeUserIDs: employeeUserIDs,
		ActiveOnly:     true,
	}

	if role == models.RoleManager {
		scope, err := s.policy.ResolveScope(userID, role)
		if err != nil {
			return nil, err
		}
		if scope.DepartmentID == nil {
			return []dto.EmployeeSummaryDTO{}, nil
		}
		filter.DepartmentID = scope.DepartmentID
	}

	employees, err := s.employeeRepo.ListAssignable(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignable employees: %w", err)
	}

	items := make([]dto.EmployeeSummaryDTO, len(employees))
	for i, employee := range employees {
		items[i] = dto.ToEmployeeSummaryDTO(employee)
	}
	return items, nil
}

// taskScope translates the caller's policy scope into a repository task scope.
func (s *TaskService) taskScope(userID uint64, role models.Role) (repository.TaskScope, error) {
	scope, err := s.policy.ResolveScope(userID, role)
	if err != nil {
		return repository.TaskScope{}, err
	}

	switch {
	case scope.All:
		return repository.TaskScope{All: true}, nil

	case scope.DepartmentID != nil:
		memberIDs, err := s.employeeRepo.ListUserIDsByDepartment(*scope.DepartmentID)
		if err != nil {
			return repository.TaskScope{}, fmt.Errorf("failed to list department members: %w", err)
		}
		// Managers also see tasks they created themselves.
		return repository.TaskScope{AssignedToIDs: memberIDs, CreatedByID: &userID}, nil

	case scope.SelfUserID != nil:
		return repository.TaskScope{AssignedToID: scope.SelfUserID}, nil

	default:
		// Empty scope matches nothing.
		return repository.TaskScope{}, nil
	}
}

// inScope reports whether the task is visible under the same rules ListTasks
// applies.
func (s *TaskService) inScope(task *models.Task, userID uint64, role models.Role) (bool, error) {
	scope, err := s.policy.ResolveScope(userID, role)
	if err != nil {
		return false, err
	}

	switch {
	case scope.All:
		return true, nil

	case scope.DepartmentID != nil:
		if task.CreatedByID == userID {
			return true, nil
		}
		assignee, err := s.employeeRepo.FindByUserID(task.AssignedToID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, fmt.Errorf("failed to find assignee: %w", err)
		}
		return assignee.DepartmentID != nil && *assignee.DepartmentID == *scope.DepartmentID, nil

	case scope.SelfUserID != nil:
		return task.AssignedToID == *scope.SelfUserID, nil

	default:
		return false, nil
	}
}

// assigneesFor loads the employee records of every task assignee, keyed by
// user ID.
func (s *TaskService) assigneesFor(tasks []models.Task) (map[uint64]models.Employee, error) {
	if len(tasks) == 0 {
		return map[uint64]models.Employee{}, nil
	}

	seen := make(map[uint64]struct{}, len(tasks))
	ids := make([]uint64, 0, len(tasks))
	for _, task := range tasks {
		if _, ok := seen[task.AssignedToID]; ok {
			continue
		}
		seen[task.AssignedToID] = struct{}{}
		ids = append(ids, task.AssignedToID)
	}

	employees, err := s.employeeRepo.FindByUserIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignees: %w", err)
	}

	byUserID := make(map[uint64]models.Employee, len(employees))
	for _, employee := range employees {
		byUserID[employee.UserID] = employee
	}
	return byUserID, nil
}
