package services

import (
	"tasktrack/backend/internal/cache"
	"tasktrack/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// CachedTaskService wraps a TaskService with a per-owner read-through
// cache. Cache failures are treated as misses; the store stays the source
// of truth and every mutation invalidates the owner's entries.
type CachedTaskService struct {
	taskService TaskService
	cache       *cache.TaskCache
}

func NewCachedTaskService(taskService TaskService, cacheInstance *cache.TaskCache) *CachedTaskService {
	return &CachedTaskService{
		taskService: taskService,
		cache:       cacheInstance,
	}
}

func (s *CachedTaskService) CreateTask(db *gorm.DB, task models.Task) (models.Task, error) {
	created, err := s.taskService.CreateTask(db, task)
	if err != nil {
		return models.Task{}, err
	}

	s.cache.SetTask(created)
	s.cache.InvalidateUserTasks(created.UserID)

	return created, nil
}

func (s *CachedTaskService) GetTasks(db *gorm.DB, ownerID uuid.UUID) ([]models.Task, error) {
	if cached, err := s.cache.GetUserTasks(ownerID); err == nil {
		return cached, nil
	}

	tasks, err := s.taskService.GetTasks(db, ownerID)
	if err != nil {
		return nil, err
	}

	s.cache.SetUserTasks(ownerID, tasks)

	return tasks, nil
}

func (s *CachedTaskService) GetTaskByID(db *gorm.DB, ownerID, taskID uuid.UUID) (models.Task, error) {
	if cached, err := s.cache.GetTask(ownerID, taskID); err == nil {
		return cached, nil
	}

	task, err := s.taskService.GetTaskByID(db, ownerID, taskID)
	if err != nil {
		return models.Task{}, err
	}

	s.cache.SetTask(task)

	return task, nil
}

func (s *CachedTaskService) UpdateTask(db *gorm.DB, ownerID, taskID uuid.UUID, update TaskUpdate) (models.Task, error) {
	task, err := s.taskService.UpdateTask(db, ownerID, taskID, update)
	if err != nil {
		return models.Task{}, err
	}

	s.cache.InvalidateTask(ownerID, taskID)

	return task, nil
}

func (s *CachedTaskService) SetTaskStatus(db *gorm.DB, ownerID, taskID uuid.UUID, isCompleted bool) (models.Task, error) {
	task, err := s.taskService.SetTaskStatus(db, ownerID, taskID, isCompleted)
	if err != nil {
		return models.Task{}, err
	}

	s.cache.InvalidateTask(ownerID, taskID)

	return task, nil
}

func (s *CachedTaskService) DeleteTask(db *gorm.DB, ownerID, taskID uuid.UUID) error {
	if err := s.taskService.DeleteTask(db, ownerID, taskID); err != nil {
		return err
	}

	s.cache.InvalidateTask(ownerID, taskID)

	return nil
}
