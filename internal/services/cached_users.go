package services

import (
	"tasktrack/backend/internal/cache"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// CachedUserService pairs the user service with the task cache so account
// deletion also drops everything cached for that owner. Without this a
// still-valid token could keep reading the deleted account's tasks until
// the entries expired.
type CachedUserService struct {
	UserService
	cache *cache.TaskCache
}

func NewCachedUserService(userService UserService, cacheInstance *cache.TaskCache) *CachedUserService {
	return &CachedUserService{
		UserService: userService,
		cache:       cacheInstance,
	}
}

func (s *CachedUserService) DeleteUser(db *gorm.DB, userID uuid.UUID) error {
	if err := s.UserService.DeleteUser(db, userID); err != nil {
		return err
	}

	s.cache.InvalidateOwner(userID)

	return nil
}
