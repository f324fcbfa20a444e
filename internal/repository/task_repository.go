package repository

import (
	"strings"

	"gorm.io/gorm"

	"employee-management-api/internal/dto"
	"employee-management-api/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// applyScope narrows a tasks query to what the scope permits. Returns nil
// when the scope can never match.
func (r *GormTaskRepository) applyScope(query *gorm.DB, scope TaskScope) *gorm.DB {
	if scope.All {
		return query
	}
	if scope.Empty() {
		return nil
	}

	cond := r.db.Where("1 = 0")
	if scope.AssignedToID != nil {
		cond = cond.Or("tasks.assigned_to_id = ?", *scope.AssignedToID)
	}
	if len(scope.AssignedToIDs) > 0 {
		cond = cond.Or("tasks.assigned_to_id IN ?", scope.AssignedToIDs)
	}
	if scope.CreatedByID != nil {
		cond = cond.Or("tasks.created_by_id = ?", *scope.CreatedByID)
	}

	return query.Where(cond)
}

// List retrieves all tasks visible within the scope
func (r *GormTaskRepository) List(scope TaskScope) ([]models.Task, error) {
	query := r.applyScope(r.db.Model(&models.Task{}), scope)
	if query == nil {
		return []models.Task{}, nil
	}

	var tasks []models.Task
	err := query.
		Preload("AssignedTo").
		Preload("CreatedBy").
		Order("tasks.created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// ListPaged retrieves a page of tasks within the scope
func (r *GormTaskRepository) ListPaged(scope TaskScope, req dto.PageRequest) ([]models.Task, int64, error) {
	query := r.applyScope(r.db.Model(&models.Task{}), scope)
	if query == nil {
		return []models.Task{}, 0, nil
	}

	if term := strings.TrimSpace(req.SearchTerm); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(tasks.title) LIKE ? OR LOWER(tasks.description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	direction := "ASC"
	if req.Descending() {
		direction = "DESC"
	}

	switch strings.ToLower(req.SortColumn) {
	case "duedate", "due_date":
		query = query.Order("tasks.due_date " + direction)
	case "status":
		query = query.Order("tasks.status " + direction)
	case "title":
		query = query.Order("tasks.title " + direction)
	default:
		query = query.Order("tasks.title ASC")
	}

	var tasks []models.Task
	err := query.
		Preload("AssignedTo").
		Preload("CreatedBy").
		Offset(req.Offset()).
		Limit(req.PageSize).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete soft deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// CountActiveByAssignee counts Pending/InProgress tasks assigned to the user
func (r *GormTaskRepository) CountActiveByAssignee(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("assigned_to_id = ? AND status IN ?", userID,
			[]models.TaskStatus{models.TaskStatusPending, models.TaskStatusInProgress}).
		Count(&count).Error
	return count, err
}

// CountByAssignee counts all tasks assigned to the user
func (r *GormTaskRepository) CountByAssignee(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("assigned_to_id = ?", userID).
		Count(&count).Error
	return count, err
}
