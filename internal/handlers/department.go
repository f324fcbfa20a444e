package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "employee-management-api/internal/errors"
	"employee-management-api/internal/services"
	"employee-management-api/internal/utils"
)

// DepartmentHandler coordinates department HTTP handlers.
type DepartmentHandler struct {
	departmentService *services.DepartmentService
}

// NewDepartmentHandler creates a new DepartmentHandler.
func NewDepartmentHandler(departmentService *services.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{
		departmentService: departmentService,
	}
}

// DepartmentRequest is the create/update payload.
type DepartmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

// ListDepartments returns a page of departments with search and sorting.
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	req := utils.GetPageRequest(c)

	page, err := h.departmentService.ListPaged(req)
	if err != nil {
		respondDepartmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// ListActiveDepartments returns every active department, unpaged, for
// selection dropdowns.
func (h *DepartmentHandler) ListActiveDepartments(c *gin.Context) {
	departments, err := h.departmentService.List(true)
	if err != nil {
		respondDepartmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, departments)
}

// CreateDepartment creates a department.
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	var req DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	err := h.departmentService.Create(services.DepartmentInput{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondDepartmentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Department created",
	})
}

// UpdateDepartment updates a department.
func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid department ID")
		return
	}

	var req DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	err = h.departmentService.Update(services.DepartmentInput{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondDepartmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Department updated",
	})
}

// DeleteDepartment deletes a department without employees.
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid department ID")
		return
	}

	if err := h.departmentService.Delete(id); err != nil {
		respondDepartmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Department deleted",
	})
}

func respondDepartmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDepartmentNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrDepartmentNameRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrDepartmentNameTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrDepartmentHasEmployees):
		apierrors.UnprocessableEntity(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
