package repository

import (
	"strings"

	"gorm.io/gorm"

	"employee-management-api/internal/dto"
	"employee-management-api/internal/models"
)

// GormEmployeeRepository is a GORM implementation of EmployeeRepository
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// Create creates a new employee record
func (r *GormEmployeeRepository) Create(employee *models.Employee) error {
	return r.db.Create(employee).Error
}

// FindByID finds an employee by ID with User and Department preloaded
func (r *GormEmployeeRepository) FindByID(id uint64) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.Preload("User").Preload("Department").First(&employee, id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// FindByUserID finds an employee by the linked user ID
func (r *GormEmployeeRepository) FindByUserID(userID uint64) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.Preload("User").Preload("Department").
		Where("user_id = ?", userID).
		First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// FindByUserIDs returns employees for the given user IDs
func (r *GormEmployeeRepository) FindByUserIDs(userIDs []uint64) ([]models.Employee, error) {
	if len(userIDs) == 0 {
		return []models.Employee{}, nil
	}

	var employees []models.Employee
	if err := r.db.Preload("User").Preload("Department").
		Where("user_id IN ?", userIDs).
		Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// Update updates an employee record
func (r *GormEmployeeRepository) Update(employee *models.Employee) error {
	return r.db.Save(employee).Error
}

// DeleteWithUser deletes the employee record, the linked user, and the user's
// role grants within a single transaction.
func (r *GormEmployeeRepository) DeleteWithUser(employee *models.Employee) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", employee.UserID).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.Employee{}, employee.ID).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, employee.UserID).Error
	})
}

// scopedQuery applies the common filter clauses on an employees query joined
// with users and departments.
func (r *GormEmployeeRepository) scopedQuery(filter EmployeeFilter) *gorm.DB {
	query := r.db.Model(&models.Employee{}).
		Joins("JOIN users ON users.id = employees.user_id AND users.deleted_at IS NULL").
		Joins("LEFT JOIN departments ON departments.id = employees.department_id AND departments.deleted_at IS NULL")

	if filter.DepartmentID != nil {
		query = query.Where("employees.department_id = ?", *filter.DepartmentID)
	}
	if filter.IncludeUserIDs != nil {
		if len(filter.IncludeUserIDs) == 0 {
			// Nothing can match; force an empty result set.
			query = query.Where("1 = 0")
		} else {
			query = query.Where("employees.user_id IN ?", filter.IncludeUserIDs)
		}
	}
	if len(filter.ExcludeUserIDs) > 0 {
		query = query.Where("employees.user_id NOT IN ?", filter.ExcludeUserIDs)
	}
	if filter.ActiveOnly {
		query = query.Where("employees.is_active = ?", true)
	}

	return query
}

// ListPaged returns a page of employees with search and sorting applied
func (r *GormEmployeeRepository) ListPaged(filter EmployeeFilter, req dto.PageRequest) ([]models.Employee, int64, error) {
	query := r.scopedQuery(filter)

	if term := strings.TrimSpace(req.SearchTerm); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		query = query.Where(
			"LOWER(users.first_name) LIKE ? OR LOWER(users.last_name) LIKE ? OR LOWER(users.email) LIKE ? OR LOWER(departments.name) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
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
	case "lastname", "last_name":
		query = query.Order("users.last_name " + direction)
	case "email":
		query = query.Order("users.email " + direction)
	case "department":
		query = query.Order("departments.name " + direction)
	case "isactive", "is_active":
		query = query.Order("employees.is_active " + direction)
	case "firstname", "first_name", "name":
		query = query.Order("users.first_name " + direction)
	default:
		query = query.Order("users.first_name ASC")
	}

	var employees []models.Employee
	err := query.Select("employees.*").
		Preload("User").
		Preload("Department").
		Offset(req.Offset()).
		Limit(req.PageSize).
		Find(&employees).Error
	if err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

// ListAssignable returns employees matching the filter ordered by name
func (r *GormEmployeeRepository) ListAssignable(filter EmployeeFilter) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.scopedQuery(filter).
		Order("users.first_name ASC, users.last_name ASC").
		Select("employees.*").
		Preload("User").
		Preload("Department").
		Find(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}

// CountByManagerID counts employee records referencing the user as manager
func (r *GormEmployeeRepository) CountByManagerID(managerUserID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Employee{}).
		Where("manager_id = ?", managerUserID).
		Count(&count).Error
	return count, err
}

// ListUserIDsByDepartment returns the user IDs of every employee record in
// the department.
func (r *GormEmployeeRepository) ListUserIDsByDepartment(departmentID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&models.Employee{}).
		Where("department_id = ?", departmentID).
		Pluck("user_id", &ids).Error
	return ids, err
}
