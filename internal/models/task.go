package models

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryShopping Category = "Shopping"
	CategoryOthers   Category = "Others"
)

var ErrInvalidCategory = errors.New("category must be one of Work, Personal, Shopping, Others")

func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryShopping, CategoryOthers:
		return true
	}
	return false
}

type Task struct {
	ID          uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	UserID      uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	IsCompleted bool       `json:"is_completed" gorm:"not null;default:false"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Category    Category   `json:"category" gorm:"not null;default:'Others'"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// BeforeSave rejects categories outside the fixed enumeration before they
// reach the store.
func (t *Task) BeforeSave(tx *gorm.DB) error {
	if t.Category == "" {
		t.Category = CategoryOthers
	}
	if !t.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}
