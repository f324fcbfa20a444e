package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"employee-management-api/internal/dto"
	"employee-management-api/internal/models"
	"employee-management-api/internal/repository"
)

var (
	ErrDepartmentNotFound     = errors.New("department not found")
	ErrDepartmentNameRequired = errors.New("department name cannot be empty")
	ErrDepartmentNameTaken    = errors.New("a department with this name already exists")
	ErrDepartmentHasEmployees = errors.New("cannot delete department with assigned employees")
)

// DepartmentService provides business logic for department operations.
type DepartmentService struct {
	departmentRepo repository.DepartmentRepository
}

// NewDepartmentService creates a new DepartmentService.
func NewDepartmentService(departmentRepo repository.DepartmentRepository) *DepartmentService {
	return &DepartmentService{
		departmentRepo: departmentRepo,
	}
}

// DepartmentInput represents input for creating or updating a department.
type DepartmentInput struct {
	ID          uint64
	Name        string
	Description string
	IsActive    bool
}

// Create creates a department. Names are trimmed and must be unique
// case-insensitively.
func (s *DepartmentService) Create(input DepartmentInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ErrDepartmentNameRequired
	}

	taken, err := s.departmentRepo.NameExists(name, 0)
	if err != nil {
		return fmt.Errorf("failed to check department name: %w", err)
	}
	if taken {
		return ErrDepartmentNameTaken
	}

	department := &models.Department{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		IsActive:    input.IsActive,
	}

	if err := s.departmentRepo.Create(department); err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}

	return nil
}

// Update updates a department with the same blank/duplicate checks, excluding
// the record's own ID from the uniqueness comparison.
func (s *DepartmentService) Update(input DepartmentInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ErrDepartmentNameRequired
	}

	department, err := s.departmentRepo.FindByID(input.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		return fmt.Errorf("failed to find department: %w", err)
	}

	taken, err := s.departmentRepo.NameExists(name, input.ID)
	if err != nil {
		return fmt.Errorf("failed to check department name: %w", err)
	}
	if taken {
		return ErrDepartmentNameTaken
	}

	department.Name = name
	department.Description = strings.TrimSpace(input.Description)
	department.IsActive = input.IsActive

	if err := s.departmentRepo.Update(department); err != nil {
		return fmt.Errorf("failed to update department: %w", err)
	}

	return nil
}

// Delete removes a department unless any employee record, active or not,
// still references it.
func (s *DepartmentService) Delete(id uint64) error {
	if _, err := s.departmentRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		return fmt.Errorf("failed to find department: %w", err)
	}

	count, err := s.departmentRepo.CountEmployees(id)
	if err != nil {
		return fmt.Errorf("failed to count department employees: %w", err)
	}
	if count > 0 {
		return ErrDepartmentHasEmployees
	}

	if err := s.departmentRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}

	return nil
}

// List returns all departments, optionally only active ones.
func (s *DepartmentService) List(activeOnly bool) ([]dto.DepartmentDTO, error) {
	departments, err := s.departmentRepo.List(activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return dto.ToDepartmentDTOs(departments), nil
}

// ListPaged returns a page of departments with search and sorting.
func (s *DepartmentService) ListPaged(req dto.PageRequest) (dto.PageResponse[dto.DepartmentDTO], error) {
	departments, total, err := s.departmentRepo.ListPaged(req)
	if err != nil {
		return dto.PageResponse[dto.DepartmentDTO]{}, fmt.Errorf("failed to list departments: %w", err)
	}

	return dto.NewPageResponse(dto.ToDepartmentDTOs(departments), total, req.Page, req.PageSize), nil
}
