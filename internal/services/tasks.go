package services

import (
	"errors"
	"strings"
	"time"

	"tasktrack/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// TaskUpdate carries a partial update. A nil field was not present in the
// payload and leaves the stored value untouched; a non-nil pointer to a
// zero value is an explicit edit. This is deliberately "field present",
// not "field truthy".
type TaskUpdate struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	IsCompleted *bool            `json:"is_completed"`
	DueDate     *time.Time       `json:"due_date"`
	Category    *models.Category `json:"category"`
}

type TaskService interface {
	CreateTask(db *gorm.DB, task models.Task) (models.Task, error)
	GetTasks(db *gorm.DB, ownerID uuid.UUID) ([]models.Task, error)
	GetTaskByID(db *gorm.DB, ownerID, taskID uuid.UUID) (models.Task, error)
	UpdateTask(db *gorm.DB, ownerID, taskID uuid.UUID, update TaskUpdate) (models.Task, error)
	SetTaskStatus(db *gorm.DB, ownerID, taskID uuid.UUID, isCompleted bool) (models.Task, error)
	DeleteTask(db *gorm.DB, ownerID, taskID uuid.UUID) error
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

// ownedTask is the single ownership predicate behind every task operation.
// A task that exists but belongs to someone else is indistinguishable from
// one that does not exist.
func ownedTask(db *gorm.DB, ownerID, taskID uuid.UUID) (models.Task, error) {
	var task models.Task
	err := db.Where("id = ? AND user_id = ?", taskID, ownerID).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, task models.Task) (models.Task, error) {
	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" {
		return models.Task{}, ErrMissingTitle
	}
	if err := db.Create(&task).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskServiceImpl) GetTasks(db *gorm.DB, ownerID uuid.UUID) ([]models.Task, error) {
	tasks := []models.Task{}
	err := db.Where("user_id = ?", ownerID).Order("created_at DESC").Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskServiceImpl) GetTaskByID(db *gorm.DB, ownerID, taskID uuid.UUID) (models.Task, error) {
	return ownedTask(db, ownerID, taskID)
}

// UpdateTask applies a partial update to an owned task. Flipping a
// completed task back to incomplete fails with ErrCompletedTask and leaves
// the record untouched.
func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, ownerID, taskID uuid.UUID, update TaskUpdate) (models.Task, error) {
	task, err := ownedTask(db, ownerID, taskID)
	if err != nil {
		return models.Task{}, err
	}

	if task.IsCompleted && update.IsCompleted != nil && !*update.IsCompleted {
		return models.Task{}, ErrCompletedTask
	}

	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return models.Task{}, ErrMissingTitle
		}
		task.Title = title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.IsCompleted != nil {
		task.IsCompleted = *update.IsCompleted
	}
	if update.DueDate != nil {
		task.DueDate = update.DueDate
	}
	if update.Category != nil {
		if !update.Category.Valid() {
			return models.Task{}, models.ErrInvalidCategory
		}
		task.Category = *update.Category
	}

	if err := db.Save(&task).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskServiceImpl) SetTaskStatus(db *gorm.DB, ownerID, taskID uuid.UUID, isCompleted bool) (models.Task, error) {
	task, err := ownedTask(db, ownerID, taskID)
	if err != nil {
		return models.Task{}, err
	}

	if task.IsCompleted && !isCompleted {
		return models.Task{}, ErrCompletedTask
	}

	task.IsCompleted = isCompleted
	if err := db.Save(&task).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, ownerID, taskID uuid.UUID) error {
	task, err := ownedTask(db, ownerID, taskID)
	if err != nil {
		return err
	}
	return db.Delete(&task).Error
}
