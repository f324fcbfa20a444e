package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "employee-management-api/internal/errors"
	"employee-management-api/internal/services"
	"employee-management-api/internal/utils"
)

// ManagerHandler coordinates manager account HTTP handlers. All routes are
// admin-only.
type ManagerHandler struct {
	employeeService *services.EmployeeService
}

// NewManagerHandler creates a new ManagerHandler.
func NewManagerHandler(employeeService *services.EmployeeService) *ManagerHandler {
	return &ManagerHandler{
		employeeService: employeeService,
	}
}

// ListManagers returns a page of manager accounts.
func (h *ManagerHandler) ListManagers(c *gin.Context) {
	req := utils.GetPageRequest(c)

	page, err := h.employeeService.ListManagersPaged(req)
	if err != nil {
		respondEmployeeError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetManager returns one manager account.
func (h *ManagerHandler) GetManager(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid manager ID")
		return
	}

	manager, err := h.employeeService.GetManagerByID(id)
	if err != nil {
		respondEmployeeError(c, err)
		return
	}

	c.JSON(http.StatusOK, manager)
}

// CreateManager creates a manager account with a chosen password.
func (h *ManagerHandler) CreateManager(c *gin.Context) {
	type CreateManagerRequest struct {
		FirstName    string  `json:"first_name" binding:"required"`
		LastName     string  `json:"last_name" binding:"required"`
		Email        string  `json:"email" binding:"required,email"`
		PhoneNumber  string  `json:"phone_number"`
		Password     string  `json:"password" binding:"required"`
		DepartmentID *uint64 `json:"department_id"`
		IsActive     bool    `json:"is_active"`
	}

	var req CreateManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	err := h.employeeService.CreateManager(services.CreateManagerInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		Password:     req.Password,
		DepartmentID: req.DepartmentID,
		IsActive:     req.IsActive,
	})
	if err != nil {
		respondEmployeeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Manager created",
	})
}

// UpdateManager patches a manager's employee record.
func (h *ManagerHandler) UpdateManager(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid manager ID")
		return
	}

	type UpdateManagerRequest struct {
		FirstName    *string `json:"first_name"`
		LastName     *string `json:"last_name"`
		Email        *string `json:"email"`
		PhoneNumber  *string `json:"phone_number"`
		DepartmentID *uint64 `json:"department_id"`
		IsActive     bool    `json:"is_active"`
	}

	var req UpdateManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	err = h.employeeService.UpdateManager(services.UpdateEmployeeInput{
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
		"message": "Manager updated",
	})
}

// DeleteManager removes a manager account by the linked user ID.
func (h *ManagerHandler) DeleteManager(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.employeeService.DeleteManagerByUserID(userID); err != nil {
		respondEmployeeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Manager deleted",
	})
}
