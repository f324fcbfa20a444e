package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "employee-management-api/internal/errors"
	"employee-management-api/internal/middleware"
	"employee-management-api/internal/models"
	"employee-management-api/internal/policy"
	"employee-management-api/internal/services"
	"employee-management-api/internal/utils"
)

// EmployeeHandler coordinates employee directory HTTP handlers.
type EmployeeHandler struct {
	employeeService *services.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(employeeService *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{
		employeeService: employeeService,
	}
}

// ListEmployees returns a page of employees scoped to the caller's role.
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetRole(c)
	req := utils.GetPageRequest(c)

	page, err := h.employeeService.ListPaged(req, userID, role == models.RoleAdmin)
	if err != nil {
		respondEmployeeError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetEmployee returns one employee.
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid employee ID")
		return
	}

	employee, err := h.employeeService.GetByID(id)
	if err != nil {
		respondEmployeeError(c, err)
		return
	}

	c.JSON(http.StatusOK, employee)
}

// CreateEmployee creates an employee record, reusing an existing user identity
// when the email is already registered.
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	type CreateEmployeeRequest struct {
		FirstName    string  `json:"first_name" binding:"required"`
		LastName     string  `json:"last_name" binding:"required"`
		Email        string  `json:"email" binding:"required,email"`
		PhoneNumber  string  `json:"phone_number"`
		DepartmentID *uint64 `json:"department_id"`
		IsActive     bool    `json:"is_active"`
	}

	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	err := h.employeeService.Create(services.CreateEmployeeInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		DepartmentID: req.DepartmentID,
		IsActive:     req.IsActive,
	})
	if err != nil {
		respondEmployeeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Employee created",
	})
}

// UpdateEmployee patches an employee and its linked user.
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid employee ID")
		return
	}

	type UpdateEmployeeRequest struct {
		FirstName    *string `json:"first_name"`
		LastName     *string `json:"last_name"`
		Email        *string `json:"email"`
		PhoneNumber  *string `json:"phone_number"`
		DepartmentID *uint64 `json:"department_id"`
		IsActive     bool    `json:"is_active"`
	}

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	err = h.employeeService.Update(services.UpdateEmployeeInput{
		ID:           id,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		DepartmentID: req.DepartmentID,
		IsActive:     req.IsActive,
	})
	if err != nil {
		respondEmployeeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Employee updated",
	})
}

// DeleteEmployee removes an employee and its linked user unless the employee
// still has active tasks.
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid employee ID")
		return
	}

	if err := h.employeeService.Delete(id); err != nil {
		respondEmployeeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Employee deleted",
	})
}

// ListDepartmentOptions returns active departments for employee forms.
func (h *EmployeeHandler) ListDepartmentOptions(c *gin.Context) {
	departments, err := h.employeeService.GetActiveDepartments()
	if err != nil {
		respondEmployeeError(c, err)
		return
	}

	c.JSON(http.StatusOK, departments)
}

func respondEmployeeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmployeeNotFound),
		errors.Is(err, services.ErrManagerMissing):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, policy.ErrEmployeeHasActiveTasks),
		errors.Is(err, policy.ErrManagerManagesEmployees),
		errors.Is(err, policy.ErrManagerHasAssignedTasks):
		apierrors.UnprocessableEntity(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
