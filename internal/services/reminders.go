package services

import (
	"time"

	"tasktrack/backend/internal/models"
	"tasktrack/backend/internal/worker"

	"github.com/gofrs/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// reminderLead is how long before the due date the reminder fires.
const reminderLead = time.Hour

// ReminderTaskService schedules a due reminder whenever a task gains a due
// date. Reminders are best effort; a failed enqueue is logged and the task
// operation still succeeds.
type ReminderTaskService struct {
	TaskService
	queue  *worker.JobQueue
	logger *logrus.Logger
}

func NewReminderTaskService(taskService TaskService, queue *worker.JobQueue, logger *logrus.Logger) *ReminderTaskService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ReminderTaskService{
		TaskService: taskService,
		queue:       queue,
		logger:      logger,
	}
}

func (s *ReminderTaskService) CreateTask(db *gorm.DB, task models.Task) (models.Task, error) {
	created, err := s.TaskService.CreateTask(db, task)
	if err != nil {
		return models.Task{}, err
	}
	s.scheduleReminder(created)
	return created, nil
}

func (s *ReminderTaskService) UpdateTask(db *gorm.DB, ownerID, taskID uuid.UUID, update TaskUpdate) (models.Task, error) {
	updated, err := s.TaskService.UpdateTask(db, ownerID, taskID, update)
	if err != nil {
		return models.Task{}, err
	}
	if update.DueDate != nil {
		s.scheduleReminder(updated)
	}
	return updated, nil
}

func (s *ReminderTaskService) scheduleReminder(task models.Task) {
	if task.DueDate == nil || task.IsCompleted {
		return
	}

	fireAt := task.DueDate.Add(-reminderLead)
	if fireAt.Before(time.Now()) {
		fireAt = time.Now()
	}

	err := s.queue.EnqueueAt(worker.QueueReminders, worker.JobTypeDueReminder, map[string]interface{}{
		"task_id": task.ID.String(),
		"user_id": task.UserID.String(),
	}, fireAt)
	if err != nil {
		s.logger.WithError(err).WithField("task_id", task.ID).Warn("Failed to schedule due reminder")
	}
}
