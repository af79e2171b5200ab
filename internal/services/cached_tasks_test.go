package services_test

import (
	"testing"

	"tasktrack/backend/internal/cache"
	"tasktrack/backend/internal/models"
	"tasktrack/backend/internal/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofrs/uuid"
	"golang.org/x/crypto/bcrypt"
)

func setupTestCache(t *testing.T) *cache.TaskCache {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	taskCache := cache.NewTaskCache(&cache.CacheConfig{Addr: mr.Addr()})
	t.Cleanup(func() { taskCache.Close() })
	return taskCache
}

func TestCachedTaskService_CreateWarmsTaskEntry(t *testing.T) {
	db := setupTestDB(t)
	taskCache := setupTestCache(t)
	ownerID := createTestUser(t, db, "alice", "alice@example.com")
	svc := services.NewCachedTaskService(services.NewTaskService(), taskCache)

	task, err := svc.CreateTask(db, models.Task{
		ID:     uuid.Must(uuid.NewV4()),
		UserID: ownerID,
		Title:  "Cached task",
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	cached, err := taskCache.GetTask(ownerID, task.ID)
	if err != nil {
		t.Fatalf("Expected fresh task in cache, got %v", err)
	}
	if cached.Title != "Cached task" {
		t.Errorf("Expected cached title %q, got %q", "Cached task", cached.Title)
	}
}

func TestCachedTaskService_ListRefreshesAfterCreate(t *testing.T) {
	db := setupTestDB(t)
	taskCache := setupTestCache(t)
	ownerID := createTestUser(t, db, "alice", "alice@example.com")
	svc := services.NewCachedTaskService(services.NewTaskService(), taskCache)

	if _, err := svc.CreateTask(db, models.Task{
		ID:     uuid.Must(uuid.NewV4()),
		UserID: ownerID,
		Title:  "First",
	}); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	tasks, err := svc.GetTasks(db, ownerID)
	if err != nil {
		t.Fatalf("GetTasks failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("Expected 1 task, got %d", len(tasks))
	}

	// A second create invalidates the cached list; the next read must not
	// serve the stale one-element copy.
	if _, err := svc.CreateTask(db, models.Task{
		ID:     uuid.Must(uuid.NewV4()),
		UserID: ownerID,
		Title:  "Second",
	}); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	tasks, err = svc.GetTasks(db, ownerID)
	if err != nil {
		t.Fatalf("GetTasks failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("Expected 2 tasks after invalidation, got %d", len(tasks))
	}
}

func TestCachedTaskService_MutationsInvalidate(t *testing.T) {
	db := setupTestDB(t)
	taskCache := setupTestCache(t)
	ownerID := createTestUser(t, db, "alice", "alice@example.com")
	svc := services.NewCachedTaskService(services.NewTaskService(), taskCache)

	task, err := svc.CreateTask(db, models.Task{
		ID:     uuid.Must(uuid.NewV4()),
		UserID: ownerID,
		Title:  "Before",
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	newTitle := "After"
	if _, err := svc.UpdateTask(db, ownerID, task.ID, services.TaskUpdate{Title: &newTitle}); err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}

	got, err := svc.GetTaskByID(db, ownerID, task.ID)
	if err != nil {
		t.Fatalf("GetTaskByID failed: %v", err)
	}
	if got.Title != "After" {
		t.Errorf("Expected updated title, got %q", got.Title)
	}
}

func TestCachedTaskService_FailsOpenWhenRedisDown(t *testing.T) {
	db := setupTestDB(t)
	ownerID := createTestUser(t, db, "alice", "alice@example.com")

	// Nothing listens on this address; every cache call fails.
	deadCache := cache.NewTaskCache(&cache.CacheConfig{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { deadCache.Close() })

	svc := services.NewCachedTaskService(services.NewTaskService(), deadCache)

	task, err := svc.CreateTask(db, models.Task{
		ID:     uuid.Must(uuid.NewV4()),
		UserID: ownerID,
		Title:  "Still works",
	})
	if err != nil {
		t.Fatalf("CreateTask must succeed without redis, got %v", err)
	}

	got, err := svc.GetTaskByID(db, ownerID, task.ID)
	if err != nil {
		t.Fatalf("GetTaskByID must fall through to the store, got %v", err)
	}
	if got.Title != "Still works" {
		t.Errorf("Expected title from store, got %q", got.Title)
	}
}

func TestCachedUserService_DeleteDropsOwnerEntries(t *testing.T) {
	db := setupTestDB(t)
	taskCache := setupTestCache(t)
	ownerID := createTestUser(t, db, "alice", "alice@example.com")

	taskSvc := services.NewCachedTaskService(services.NewTaskService(), taskCache)
	userSvc := services.NewCachedUserService(services.NewUserService(bcrypt.MinCost), taskCache)

	task, err := taskSvc.CreateTask(db, models.Task{
		ID:     uuid.Must(uuid.NewV4()),
		UserID: ownerID,
		Title:  "Sensitive plan",
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	// Warm the list entry too.
	if _, err := taskSvc.GetTasks(db, ownerID); err != nil {
		t.Fatalf("GetTasks failed: %v", err)
	}

	if err := userSvc.DeleteUser(db, ownerID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	// Nothing cached for the owner may outlive the account.
	if _, err := taskCache.GetTask(ownerID, task.ID); err != cache.ErrCacheMiss {
		t.Errorf("Expected task entry to be dropped, got %v", err)
	}
	if _, err := taskCache.GetUserTasks(ownerID); err != cache.ErrCacheMiss {
		t.Errorf("Expected list entry to be dropped, got %v", err)
	}

	// A still-valid session reading through the service now sees nothing.
	tasks, err := taskSvc.GetTasks(db, ownerID)
	if err != nil {
		t.Fatalf("GetTasks after deletion failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("Expected no tasks after account deletion, got %d", len(tasks))
	}
}
