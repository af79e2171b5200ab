package services

import (
	"errors"
	"strings"

	"tasktrack/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// UserUpdate carries a partial profile update; nil fields are left alone.
type UserUpdate struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password" binding:"omitempty,min=8"`
}

type UserService interface {
	GetUserProfile(db *gorm.DB, userID uuid.UUID) (*models.User, error)
	UpdateUser(db *gorm.DB, userID uuid.UUID, update UserUpdate) (*models.User, error)
	DeleteUser(db *gorm.DB, userID uuid.UUID) error
}

type UserServiceImpl struct {
	bcryptCost int
}

func NewUserService(bcryptCost int) *UserServiceImpl {
	return &UserServiceImpl{bcryptCost: bcryptCost}
}

func (s *UserServiceImpl) GetUserProfile(db *gorm.DB, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies a partial profile update, re-checking uniqueness for
// username and email and re-hashing a changed password.
func (s *UserServiceImpl) UpdateUser(db *gorm.DB, userID uuid.UUID, update UserUpdate) (*models.User, error) {
	user, err := s.GetUserProfile(db, userID)
	if err != nil {
		return nil, err
	}

	// Stored the same way signup stores it, or the lowered lookup at
	// signin could never match again.
	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		if email != user.Email {
			var existing models.User
			if err := db.Where("email = ? AND id <> ?", email, userID).First(&existing).Error; err == nil {
				return nil, ErrDuplicateEmail
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}

	if update.Username != nil {
		username := strings.TrimSpace(*update.Username)
		if username != user.Username {
			var existing models.User
			if err := db.Where("username = ? AND id <> ?", username, userID).First(&existing).Error; err == nil {
				return nil, ErrDuplicateUsername
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			user.Username = username
		}
	}

	if update.Password != nil {
		hashed, err := HashPassword(*update.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the account and its tasks in one transaction.
func (s *UserServiceImpl) DeleteUser(db *gorm.DB, userID uuid.UUID) error {
	user, err := s.GetUserProfile(db, userID)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
}
