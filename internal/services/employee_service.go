package services

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"employee-management-api/internal/constants"
	"employee-management-api/internal/dto"
	"employee-management-api/internal/models"
	"employee-management-api/internal/policy"
	"employee-management-api/internal/repository"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrManagerMissing   = errors.New("manager not found")
	ErrEmailTaken       = errors.New("user with this email already exists")
)

// EmployeeService maintains employee and manager records layered over user
// identities, with role-filtered views.
type EmployeeService struct {
	employeeRepo   repository.EmployeeRepository
	userRepo       repository.UserRepository
	departmentRepo repository.DepartmentRepository
	policy         *policy.Policy
	logger         *zap.Logger
}

// NewEmployeeService creates a new EmployeeService.
func NewEmployeeService(
	employeeRepo repository.EmployeeRepository,
	userRepo repository.UserRepository,
	departmentRepo repository.DepartmentRepository,
	p *policy.Policy,
	logger *zap.Logger,
) *EmployeeService {
	return &EmployeeService{
		employeeRepo:   employeeRepo,
		userRepo:       userRepo,
		departmentRepo: departmentRepo,
		policy:         p,
		logger:         logger,
	}
}

// CreateEmployeeInput represents input for creating an employee record.
type CreateEmployeeInput struct {
	FirstName    string
	LastName     string
	Email        string
	PhoneNumber  string
	DepartmentID *uint64
	IsActive     bool
}

// CreateManagerInput represents input for creating a manager account.
type CreateManagerInput struct {
	FirstName    string
	LastName     string
	Email        string
	PhoneNumber  string
	Password     string
	DepartmentID *uint64
	IsActive     bool
}

// UpdateEmployeeInput patches an employee and its linked user. Nil pointer
// fields keep their stored values; DepartmentID nil means unassigned.
type UpdateEmployeeInput struct {
	ID           uint64
	FirstName    *string
	LastName     *string
	Email        *string
	PhoneNumber  *string
	DepartmentID *uint64
	IsActive     bool
}

// ListPaged returns a page of employees. Non-admin callers only see their own
// department; a caller with no department gets an empty page. Users holding
// the Admin or Manager role never appear in this listing.
func (s *EmployeeService) ListPaged(req dto.PageRequest, currentUserID uint64, isAdmin bool) (dto.PageResponse[dto.EmployeeDTO], error) {
	filter := repository.EmployeeFilter{}

	if !isAdmin {
		employee, err := s.employeeRepo.FindByUserID(currentUserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.NewPageResponse([]dto.EmployeeDTO{}, 0, req.Page, req.PageSize), nil
			}
			return dto.PageResponse[dto.EmployeeDTO]{}, fmt.Errorf("failed to resolve caller department: %w", err)
		}
		if employee.DepartmentID == nil {
			return dto.NewPageResponse([]dto.EmployeeDTO{}, 0, req.Page, req.PageSize), nil
		}
		filter.DepartmentID = employee.DepartmentID
	}

	exclude, err := s.privilegedUserIDs()
	if err != nil {
		return dto.PageResponse[dto.EmployeeDTO]{}, err
	}
	filter.ExcludeUserIDs = exclude

	employees, total, err := s.employeeRepo.ListPaged(filter, req)
	if err != nil {
		return dto.PageResponse[dto.EmployeeDTO]{}, fmt.Errorf("failed to list employees: %w", err)
	}

	return dto.NewPageResponse(dto.ToEmployeeDTOs(employees), total, req.Page, req.PageSize), nil
}

// GetByID returns one employee with identity fields.
func (s *EmployeeService) GetByID(id uint64) (*dto.EmployeeDTO, error) {
	employee, err := s.employeeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}

	result := dto.ToEmployeeDTO(*employee)
	return &result, nil
}

// Create creates an employee record. If a user with the email already exists
// the identity is reused and promoted instead of erroring; otherwise a new
// user is created with the system default password. The Employee role is
// (re)asserted either way.
func (s *EmployeeService) Create(input CreateEmployeeInput) error {
	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up user: %w", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(constants.DefaultEmployeePassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash default password: %w", err)
		}

		user = &models.User{
			Email:        input.Email,
			PasswordHash: string(hash),
			FirstName:    input.FirstName,
			LastName:     input.LastName,
			PhoneNumber:  input.PhoneNumber,
		}
		if err := s.userRepo.Create(user); err != nil {
			s.logger.Error("user creation failed", zap.String("email", input.Email), zap.Error(err))
			return fmt.Errorf("failed to create user: %w", err)
		}
	}

	if err := s.userRepo.AddRole(user.ID, models.RoleEmployee); err != nil {
		s.logger.Error("role assignment failed", zap.Uint64("user_id", user.ID), zap.Error(err))
		return fmt.Errorf("failed to grant employee role: %w", err)
	}

	now := time.Now()
	employee := &models.Employee{
		UserID:       user.ID,
		DepartmentID: input.DepartmentID,
		IsActive:     input.IsActive,
		HireDate:     &now,
	}

	if err := s.employeeRepo.Create(employee); err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}

	s.logger.Info("employee created",
		zap.Uint64("employee_id", employee.ID),
		zap.Uint64("user_id", user.ID))
	return nil
}

// CreateManager creates a manager account: user, Manager role grant, and the
// linked employee record in a single transaction, so a failed role grant
// leaves no orphaned user behind.
func (s *EmployeeService) CreateManager(input CreateManagerInput) error {
	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        input.Email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PhoneNumber:  input.PhoneNumber,
	}

	now := time.Now()
	employee := &models.Employee{
		DepartmentID: input.DepartmentID,
		IsActive:     input.IsActive,
		HireDate:     &now,
	}

	if err := s.userRepo.CreateWithRoleAndEmployee(user, models.RoleManager, employee); err != nil {
		s.logger.Error("manager creation failed", zap.String("email", input.Email), zap.Error(err))
		return fmt.Errorf("failed to create manager: %w", err)
	}

	s.logger.Info("manager created",
		zap.Uint64("employee_id", employee.ID),
		zap.Uint64("user_id", user.ID))
	return nil
}

// Update patches an employee and its linked user. An email change also
// rewrites the normalized lookup form so login stays consistent.
func (s *EmployeeService) Update(input UpdateEmployeeInput) error {
	employee, err := s.employeeRepo.FindByID(input.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to find employee: %w", err)
	}

	user, err := s.userRepo.FindByID(employee.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = *input.PhoneNumber
	}
	if input.Email != nil && *input.Email != "" && *input.Email != user.Email {
		user.Email = *input.Email
	}

	employee.DepartmentID = input.DepartmentID
	employee.IsActive = input.IsActive

	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if err := s.employeeRepo.Update(employee); err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}

	return nil
}

// Delete removes an employee together with its linked user. Deletion is
// blocked while any Pending or InProgress task is assigned to the employee.
func (s *EmployeeService) Delete(id uint64) error {
	employee, err := s.employeeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to find employee: %w", err)
	}

	if err := s.policy.CanDeleteEmployee(employee); err != nil {
		return err
	}

	if err := s.employeeRepo.DeleteWithUser(employee); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	s.logger.Info("employee deleted",
		zap.Uint64("employee_id", employee.ID),
		zap.Uint64("user_id", employee.UserID))
	return nil
}

// GetManagerByID returns a manager's employee record by employee ID.
func (s *EmployeeService) GetManagerByID(employeeID uint64) (*dto.EmployeeDTO, error) {
	return s.GetByID(employeeID)
}

// UpdateManager patches a manager's employee record.
func (s *EmployeeService) UpdateManager(input UpdateEmployeeInput) error {
	return s.Update(input)
}

// DeleteManagerByUserID removes a manager account, refusing while the user is
// referenced as another employee's manager or is assigned any task.
func (s *EmployeeService) DeleteManagerByUserID(userID uint64) error {
	employee, err := s.employeeRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("manager not found", zap.Uint64("user_id", userID))
			return ErrManagerMissing
		}
		return fmt.Errorf("failed to find manager: %w", err)
	}

	if err := s.policy.CanDeleteManager(userID); err != nil {
		s.logger.Warn("manager deletion blocked", zap.Uint64("user_id", userID), zap.Error(err))
		return err
	}

	if err := s.employeeRepo.DeleteWithUser(employee); err != nil {
		return fmt.Errorf("failed to delete manager: %w", err)
	}

	s.logger.Info("manager deleted", zap.Uint64("user_id", userID))
	return nil
}

// ListManagersPaged returns a page of employees holding the Manager role.
func (s *EmployeeService) ListManagersPaged(req dto.PageRequest) (dto.PageResponse[dto.EmployeeDTO], error) {
	managerIDs, err := s.userRepo.ListUserIDsInRole(models.RoleManager)
	if err != nil {
		return dto.PageResponse[dto.EmployeeDTO]{}, fmt.Errorf("failed to list manager role holders: %w", err)
	}

	filter := repository.EmployeeFilter{IncludeUserIDs: managerIDs}
	if managerIDs == nil {
		filter.IncludeUserIDs = []uint64{}
	}

	employees, total, err := s.employeeRepo.ListPaged(filter, req)
	if err != nil {
		return dto.PageResponse[dto.EmployeeDTO]{}, fmt.Errorf("failed to list managers: %w", err)
	}

	return dto.NewPageResponse(dto.ToEmployeeDTOs(employees), total, req.Page, req.PageSize), nil
}

// GetActiveDepartments returns active departments for assignment dropdowns.
func (s *EmployeeService) GetActiveDepartments() ([]dto.DepartmentDTO, error) {
	departments, err := s.departmentRepo.List(true)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return dto.ToDepartmentDTOs(departments), nil
}

// privilegedUserIDs returns the user IDs holding the Admin or Manager role.
func (s *EmployeeService) privilegedUserIDs() ([]uint64, error) {
	admins, err := s.userRepo.ListUserIDsInRole(models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to list admin role holders: %w", err)
	}
	managers, err := s.userRepo.ListUserIDsInRole(models.RoleManager)
	if err != nil {
		return nil, fmt.Errorf("failed to list manager role holders: %w", err)
	}
	return append(admins, managers...), nil
}
