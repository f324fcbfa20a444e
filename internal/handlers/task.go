package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apierrors "employee-management-api/internal/errors"
	"employee-management-api/internal/middleware"
	"employee-management-api/internal/models"
	"employee-management-api/internal/policy"
	"employee-management-api/internal/services"
	"employee-management-api/internal/utils"
)

// TaskHandler coordinates task board HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// TaskRequest is the create/update payload.
type TaskRequest struct {
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	DueDate      *time.Time `json:"due_date"`
	AssignedToID uint64     `json:"assigned_to_id" binding:"required"`
}

// ListTasks returns every task visible to the caller.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetRole(c)

	tasks, err := h.taskService.ListTasks(userID, role)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// ListTasksPaged returns a page of visible tasks with search and sorting.
func (h *TaskHandler) ListTasksPaged(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetRole(c)
	req := utils.GetPageRequest(c)

	page, err := h.taskService.ListTasksPaged(userID, role, req)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetTask returns one task if it is visible to the caller.
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetRole(c)

	task, err := h.taskService.GetTask(id, userID, role)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// CreateTask creates a task assigned to an employee.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetRole(c)

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       models.TaskStatus(req.Status),
		DueDate:      req.DueDate,
		AssignedToID: req.AssignedToID,
	}, userID, role)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// UpdateTask applies the submitted payload within the caller's permission.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetRole(c)

	task, err := h.taskService.UpdateTask(id, services.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       models.TaskStatus(req.Status),
		DueDate:      req.DueDate,
		AssignedToID: req.AssignedToID,
	}, userID, role)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask removes a task the caller is permitted to delete.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetRole(c)

	if err := h.taskService.DeleteTask(id, userID, role); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted",
	})
}

// ListAssignableEmployees returns the employees the caller may assign tasks to.
func (h *TaskHandler) ListAssignableEmployees(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetRole(c)

	employees, err := h.taskService.ListAssignableEmployees(userID, role)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, employees)
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTaskTitleRequired),
		errors.Is(err, services.ErrInvalidTaskStatus):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, policy.ErrManagerNotFound),
		errors.Is(err, policy.ErrAssigneeNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, policy.ErrNotAuthorized),
		errors.Is(err, policy.ErrOutsideDepartment),
		errors.Is(err, policy.ErrTaskNotPermitted):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
