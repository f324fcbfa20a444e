package repository

import (
	"strings"

	"gorm.io/gorm"

	"employee-management-api/internal/dto"
	"employee-management-api/internal/models"
)

// GormDepartmentRepository is a GORM implementation of DepartmentRepository
type GormDepartmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository creates a new DepartmentRepository
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &GormDepartmentRepository{db: db}
}

// Create creates a new department
func (r *GormDepartmentRepository) Create(department *models.Department) error {
	return r.db.Create(department).Error
}

// FindByID finds a department by ID
func (r *GormDepartmentRepository) FindByID(id uint64) (*models.Department, error) {
	var department models.Department
	if err := r.db.First(&department, id).Error; err != nil {
		return nil, err
	}
	return &department, nil
}

// NameExists reports whether a department with the given name exists,
// compared case-insensitively after trimming, excluding the given ID.
func (r *GormDepartmentRepository) NameExists(name string, excludeID uint64) (bool, error) {
	query := r.db.Model(&models.Department{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))

	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update updates a department
func (r *GormDepartmentRepository) Update(department *models.Department) error {
	return r.db.Save(department).Error
}

// Delete soft deletes a department
func (r *GormDepartmentRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Department{}, id).Error
}

// List returns departments, optionally only active ones
func (r *GormDepartmentRepository) List(activeOnly bool) ([]models.Department, error) {
	var departments []models.Department
	query := r.db.Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

// ListPaged returns a page of departments with search and sorting
func (r *GormDepartmentRepository) ListPaged(req dto.PageRequest) ([]models.Department, int64, error) {
	query := r.db.Model(&models.Department{})

	if term := strings.TrimSpace(req.SearchTerm); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
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
	case "description":
		query = query.Order("description " + direction)
	case "isactive", "is_active":
		query = query.Order("is_active " + direction)
	case "name":
		query = query.Order("name " + direction)
	default:
		query = query.Order("name ASC")
	}

	var departments []models.Department
	if err := query.Offset(req.Offset()).Limit(req.PageSize).Find(&departments).Error; err != nil {
		return nil, 0, err
	}

	return departments, total, nil
}

// CountEmployees counts employee records referencing the department
func (r *GormDepartmentRepository) CountEmployees(departmentID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Employee{}).
		Where("department_id = ?", departmentID).
		Count(&count).Error
	return count, err
}
