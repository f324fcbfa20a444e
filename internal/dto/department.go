package dto

import "employee-management-api/internal/models"

// DepartmentDTO represents a department in API responses.
type DepartmentDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

// ToDepartmentDTO converts a Department model to DepartmentDTO.
func ToDepartmentDTO(department models.Department) DepartmentDTO {
	return DepartmentDTO{
		ID:          department.ID,
		Name:        department.Name,
		Description: department.Description,
		IsActive:    department.IsActive,
	}
}

// ToDepartmentDTOs converts a slice of departments.
func ToDepartmentDTOs(departments []models.Department) []DepartmentDTO {
	items := make([]DepartmentDTO, len(departments))
	for i, department := range departments {
		items[i] = ToDepartmentDTO(department)
	}
	return items
}
