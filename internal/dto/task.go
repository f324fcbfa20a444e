package dto

import (
	"time"

	"employee-management-api/internal/models"
)

// TaskDTO represents a task in API responses, enriched with the assignee's
// display name and department.
type TaskDTO struct {
	ID                   uint64            `json:"id"`
	Title                string            `json:"title"`
	Description          string            `json:"description"`
	Status               models.TaskStatus `json:"status"`
	DueDate              *time.Time        `json:"due_date"`
	AssignedUserID       uint64            `json:"assigned_user_id"`
	AssignedEmployeeName string            `json:"assigned_employee_name,omitempty"`
	DepartmentID         *uint64           `json:"department_id"`
	CreatedByID          uint64            `json:"created_by_id"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

// ToTaskDTO converts a Task model to TaskDTO. assignees maps user IDs to
// their employee records for name/department enrichment.
func ToTaskDTO(task models.Task, assignees map[uint64]models.Employee) TaskDTO {
	dto := TaskDTO{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         task.Status,
		DueDate:        task.DueDate,
		AssignedUserID: task.AssignedToID,
		CreatedByID:    task.CreatedByID,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}

	if employee, ok := assignees[task.AssignedToID]; ok {
		dto.AssignedEmployeeName = employee.User.FullName()
		dto.DepartmentID = employee.DepartmentID
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks with shared assignee enrichment.
func ToTaskDTOs(tasks []models.Task, assignees map[uint64]models.Employee) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task, assignees)
	}
	return items
}
