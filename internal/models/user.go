package models

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

var (
	ErrUsernameTooShort = errors.New("username must be at least 3 characters long")
	ErrInvalidEmail     = errors.New("invalid email address")
)

type User struct {
	ID       uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Username string    `json:"username" gorm:"unique;not null"`
	Email    string    `json:"email" gorm:"unique;not null"`
	Password string    `json:"-" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Tasks []Task `json:"tasks,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// BeforeSave normalizes and validates the identity fields. The password
// column always holds a bcrypt digest by the time a user reaches the store;
// hashing happens in the service layer.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.TrimSpace(u.Email)

	if len(u.Username) < 3 {
		return ErrUsernameTooShort
	}
	if !emailPattern.MatchString(u.Email) {
		return ErrInvalidEmail
	}
	return nil
}
