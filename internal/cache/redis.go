package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tasktrack/backend/internal/models"

	"github.com/gofrs/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("cache miss")
)

const (
	taskTTL     = 30 * time.Minute
	userListTTL = 15 * time.Minute
)

// TaskCache is a read-through cache for task records. Every key carries the
// owner's id, so a cached entry can never be served across users.
type TaskCache struct {
	client *redis.Client
	ctx    context.Context
}

type CacheConfig struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Addr:         "localhost:6379",
		Password:     "",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

func NewTaskCache(config *CacheConfig) *TaskCache {
	if config == nil {
		config = DefaultCacheConfig()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		MaxRetries:   config.MaxRetries,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	return &TaskCache{
		client: rdb,
		ctx:    context.Background(),
	}
}

// Client exposes the underlying connection for components that share it,
// like the job queue.
func (c *TaskCache) Client() *redis.Client {
	return c.client
}

func taskKey(ownerID, taskID uuid.UUID) string {
	return fmt.Sprintf("task:%s:%s", ownerID, taskID)
}

func userTasksKey(ownerID uuid.UUID) string {
	return fmt.Sprintf("user_tasks:%s", ownerID)
}

func (c *TaskCache) SetTask(task models.Task) error {
	return c.set(taskKey(task.UserID, task.ID), task, taskTTL)
}

func (c *TaskCache) GetTask(ownerID, taskID uuid.UUID) (models.Task, error) {
	var task models.Task
	if err := c.get(taskKey(ownerID, taskID), &task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (c *TaskCache) SetUserTasks(ownerID uuid.UUID, tasks []models.Task) error {
	return c.set(userTasksKey(ownerID), tasks, userListTTL)
}

func (c *TaskCache) GetUserTasks(ownerID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.get(userTasksKey(ownerID), &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// InvalidateUserTasks drops only the owner's cached list.
func (c *TaskCache) InvalidateUserTasks(ownerID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(c.ctx, 3*time.Second)
	defer cancel()

	return c.client.Del(ctx, userTasksKey(ownerID)).Err()
}

// InvalidateTask drops a single task entry and the owner's list.
func (c *TaskCache) InvalidateTask(ownerID, taskID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(c.ctx, 3*time.Second)
	defer cancel()

	return c.client.Del(ctx, taskKey(ownerID, taskID), userTasksKey(ownerID)).Err()
}

// InvalidateOwner drops everything cached for one user.
func (c *TaskCache) InvalidateOwner(ownerID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(c.ctx, 10*time.Second)
	defer cancel()

	pattern := fmt.Sprintf("task:%s:*", ownerID)
	keys, err := c.client.Keys(ctx, pattern).Result()
	if err != nil {
		return fmt.Errorf("failed to get keys for pattern %s: %w", pattern, err)
	}

	keys = append(keys, userTasksKey(ownerID))
	return c.client.Del(ctx, keys...).Err()
}

func (c *TaskCache) set(key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	ctx, cancel := context.WithTimeout(c.ctx, 3*time.Second)
	defer cancel()

	if err := c.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

func (c *TaskCache) get(key string, dest interface{}) error {
	ctx, cancel := context.WithTimeout(c.ctx, 3*time.Second)
	defer cancel()

	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get from cache: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal cached data: %w", err)
	}

	return nil
}

func (c *TaskCache) Health() error {
	ctx, cancel := context.WithTimeout(c.ctx, 2*time.Second)
	defer cancel()

	return c.client.Ping(ctx).Err()
}

func (c *TaskCache) Stats() map[string]interface{} {
	poolStats := c.client.PoolStats()

	return map[string]interface{}{
		"pool_hits":     poolStats.Hits,
		"pool_misses":   poolStats.Misses,
		"pool_timeouts": poolStats.Timeouts,
		"pool_total":    poolStats.TotalConns,
		"pool_idle":     poolStats.IdleConns,
		"pool_stale":    poolStats.StaleConns,
	}
}

func (c *TaskCache) Close() error {
	return c.client.Close()
}
