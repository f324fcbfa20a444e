package dto

import (
	"time"

	"employee-management-api/internal/models"
)

// EmployeeDTO represents an employee (with identity fields) in API responses.
type EmployeeDTO struct {
	ID             uint64     `json:"id"`
	UserID         uint64     `json:"user_id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	PhoneNumber    string     `json:"phone_number"`
	DepartmentID   *uint64    `json:"department_id"`
	DepartmentName string     `json:"department_name,omitempty"`
	HireDate       *time.Time `json:"hire_date"`
	IsActive       bool       `json:"is_active"`
}

// EmployeeSummaryDTO is the minimal shape used by assignment dropdowns.
type EmployeeSummaryDTO struct {
	ID             uint64 `json:"id"`
	UserID         uint64 `json:"user_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	FullName       string `json:"full_name"`
	DepartmentName string `json:"department_name"`
}

// ToEmployeeDTO converts an Employee model (with preloaded User/Department).
func ToEmployeeDTO(employee models.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:           employee.ID,
		UserID:       employee.UserID,
		FirstName:    employee.User.FirstName,
		LastName:     employee.User.LastName,
		Email:        employee.User.Email,
		PhoneNumber:  employee.User.PhoneNumber,
		DepartmentID: employee.DepartmentID,
		HireDate:     employee.HireDate,
		IsActive:     employee.IsActive,
	}

	if employee.Department != nil {
		dto.DepartmentName = employee.Department.Name
	}

	return dto
}

// ToEmployeeDTOs converts a slice of employees.
func ToEmployeeDTOs(employees []models.Employee) []EmployeeDTO {
	items := make([]EmployeeDTO, len(employees))
	for i, employee := range employees {
		items[i] = ToEmployeeDTO(employee)
	}
	return items
}

// ToEmployeeSummaryDTO converts an Employee model to the dropdown shape.
func ToEmployeeSummaryDTO(employee models.Employee) EmployeeSummaryDTO {
	dto := EmployeeSummaryDTO{
		ID:             employee.ID,
		UserID:         employee.UserID,
		FirstName:      employee.User.FirstName,
		LastName:       employee.User.LastName,
		FullName:       employee.User.FullName(),
		DepartmentName: "No Department",
	}
	if employee.Department != nil {
		dto.DepartmentName = employee.Department.Name
	}
	return dto
}
