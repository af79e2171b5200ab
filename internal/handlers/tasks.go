package handlers

import (
	"errors"
	"net/http"
	"time"

	"tasktrack/backend/internal/middleware"
	"tasktrack/backend/internal/models"
	"tasktrack/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db          *gorm.DB
	taskService services.TaskService
}

func NewTaskHandler(db *gorm.DB, taskService services.TaskService) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService}
}

// currentUserID resolves the authenticated identity placed on the context
// by the access guard. Task operations never trust a client-supplied owner.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthenticated",
			"message": "User not authenticated",
		})
		return uuid.Nil, false
	}
	return userID, true
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var taskInput struct {
		Title       string          `json:"title" binding:"required"`
		Description string          `json:"description"`
		DueDate     *time.Time      `json:"due_date"`
		Category    models.Category `json:"category"`
	}
	if err := c.ShouldBindJSON(&taskInput); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Task title is required",
			"details": err.Error(),
		})
		return
	}

	task := models.Task{
		ID:          uuid.Must(uuid.NewV4()),
		UserID:      ownerID,
		Title:       taskInput.Title,
		Description: taskInput.Description,
		DueDate:     taskInput.DueDate,
		Category:    taskInput.Category,
	}

	created, err := h.taskService.CreateTask(h.db, task)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    created,
	})
}

func (h *TaskHandler) GetTasks(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.GetTasks(h.db, ownerID)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	taskID := uuid.FromStringOrNil(c.Param("id"))
	task, err := h.taskService.GetTaskByID(h.db, ownerID, taskID)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var update services.TaskUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	taskID := uuid.FromStringOrNil(c.Param("id"))
	task, err := h.taskService.UpdateTask(h.db, ownerID, taskID, update)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully",
		"task":    task,
	})
}

func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var statusInput struct {
		IsCompleted *bool `json:"is_completed" binding:"required"`
	}
	if err := c.ShouldBindJSON(&statusInput); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "is_completed field is required",
			"details": err.Error(),
		})
		return
	}

	taskID := uuid.FromStringOrNil(c.Param("id"))
	task, err := h.taskService.SetTaskStatus(h.db, ownerID, taskID, *statusInput.IsCompleted)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Task status updated successfully",
		"task":    task,
	})
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	taskID := uuid.FromStringOrNil(c.Param("id"))
	if err := h.taskService.DeleteTask(h.db, ownerID, taskID); err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func handleTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Task not found",
		})
	case errors.Is(err, services.ErrCompletedTask):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_transition",
			"message": "Completed tasks cannot be marked as incomplete",
		})
	case errors.Is(err, services.ErrMissingTitle):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_field",
			"message": "Task title is required",
		})
	case errors.Is(err, models.ErrInvalidCategory):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_category",
			"message": "Category must be one of Work, Personal, Shopping, Others",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "server_error",
			"message": "Failed to process task request",
		})
	}
}
