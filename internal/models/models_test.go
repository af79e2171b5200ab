package models_test

import (
	"testing"
	"time"

	"tasktrack/backend/internal/models"

	"github.com/gofrs/uuid"
)

func TestTask_Defaults(t *testing.T) {
	task := models.Task{
		ID:          uuid.Must(uuid.NewV4()),
		UserID:      uuid.Must(uuid.NewV4()),
		Title:       "Test Task",
		Description: "Test Description",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if task.Title != "Test Task" {
		t.Errorf("Expected title 'Test Task', got '%s'", task.Title)
	}

	if task.IsCompleted {
		t.Error("Expected new task to not be completed")
	}
}

func TestCategory_Valid(t *testing.T) {
	validCategories := []models.Category{
		models.CategoryWork,
		models.CategoryPersonal,
		models.CategoryShopping,
		models.CategoryOthers,
	}

	for _, category := range validCategories {
		if !category.Valid() {
			t.Errorf("Expected category '%s' to be valid", category)
		}
	}

	for _, category := range []models.Category{"Urgent", "work", ""} {
		if category.Valid() {
			t.Errorf("Expected category '%s' to be invalid", category)
		}
	}
}

func TestTask_BeforeSave_DefaultsCategory(t *testing.T) {
	task := models.Task{
		ID:     uuid.Must(uuid.NewV4()),
		UserID: uuid.Must(uuid.NewV4()),
		Title:  "Test Task",
	}

	if err := task.BeforeSave(nil); err != nil {
		t.Fatalf("BeforeSave returned error: %v", err)
	}

	if task.Category != models.CategoryOthers {
		t.Errorf("Expected category 'Others', got '%s'", task.Category)
	}
}

func TestTask_BeforeSave_RejectsUnknownCategory(t *testing.T) {
	task := models.Task{
		ID:       uuid.Must(uuid.NewV4()),
		UserID:   uuid.Must(uuid.NewV4()),
		Title:    "Test Task",
		Category: "Urgent",
	}

	if err := task.BeforeSave(nil); err != models.ErrInvalidCategory {
		t.Errorf("Expected ErrInvalidCategory, got %v", err)
	}
}

func TestUser_BeforeSave_TrimsFields(t *testing.T) {
	user := models.User{
		ID:       uuid.Must(uuid.NewV4()),
		Username: "  testuser  ",
		Email:    " test@example.com ",
		Password: "hashedpassword",
	}

	if err := user.BeforeSave(nil); err != nil {
		t.Fatalf("BeforeSave returned error: %v", err)
	}

	if user.Username != "testuser" {
		t.Errorf("Expected username 'testuser', got '%s'", user.Username)
	}

	if user.Email != "test@example.com" {
		t.Errorf("Expected email 'test@example.com', got '%s'", user.Email)
	}
}

func TestUser_BeforeSave_ShortUsername(t *testing.T) {
	user := models.User{
		ID:       uuid.Must(uuid.NewV4()),
		Username: "ab",
		Email:    "test@example.com",
		Password: "hashedpassword",
	}

	if err := user.BeforeSave(nil); err != models.ErrUsernameTooShort {
		t.Errorf("Expected ErrUsernameTooShort, got %v", err)
	}
}

func TestUser_BeforeSave_InvalidEmail(t *testing.T) {
	user := models.User{
		ID:       uuid.Must(uuid.NewV4()),
		Username: "testuser",
		Email:    "not-an-email",
		Password: "hashedpassword",
	}

	if err := user.BeforeSave(nil); err != models.ErrInvalidEmail {
		t.Errorf("Expected ErrInvalidEmail, got %v", err)
	}
}
