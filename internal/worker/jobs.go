package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tasktrack/backend/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DueReminderHandler logs a reminder for a task nearing its due date. The
// payload carries the task and owner ids recorded at enqueue time; the task
// is re-read so reminders for deleted or completed tasks are dropped.
func DueReminderHandler(db *gorm.DB, logger *logrus.Logger) JobHandler {
	return func(ctx context.Context, job *Job) error {
		taskID, ok := job.Payload["task_id"].(string)
		if !ok {
			return fmt.Errorf("reminder job %s missing task_id", job.ID)
		}

		var task models.Task
		err := db.WithContext(ctx).Where("id = ?", taskID).First(&task).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load task %s: %w", taskID, err)
		}
		if task.IsCompleted {
			return nil
		}

		logger.WithFields(logrus.Fields{
			"task_id": task.ID,
			"user_id": task.UserID,
			"title":   task.Title,
			"due":     task.DueDate,
		}).Info("Task due reminder")
		return nil
	}
}

// CleanupHandler deletes completed tasks whose last update is older than the
// retention window given in the payload (days, defaulting to 30).
func CleanupHandler(db *gorm.DB, logger *logrus.Logger) JobHandler {
	return func(ctx context.Context, job *Job) error {
		days := 30
		if v, ok := job.Payload["retention_days"].(float64); ok && v > 0 {
			days = int(v)
		}
		cutoff := time.Now().AddDate(0, 0, -days)

		result := db.WithContext(ctx).
			Where("is_completed = ? AND updated_at < ?", true, cutoff).
			Delete(&models.Task{})
		if result.Error != nil {
			return fmt.Errorf("cleanup failed: %w", result.Error)
		}

		logger.WithFields(logrus.Fields{
			"deleted": result.RowsAffected,
			"cutoff":  cutoff,
		}).Info("Cleanup pass finished")
		return nil
	}
}
