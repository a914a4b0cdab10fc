package repository

import (
	"github.com/MarvinHaas/ClipCast/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, *models.UserSettings, error)
	Update(user *models.User) error
	Delete(id uint) error
	Count() (int64, error)
}

// ConnectionRepository defines the interface for platform connection records.
// Upsert carries the uniqueness invariant: at most one row per
// (user_id, platform) pair, overwritten in place on re-authorization.
type ConnectionRepository interface {
	Upsert(conn *models.PlatformConnection) error
	GetByUserAndPlatform(userID uint, platform string) (*models.PlatformConnection, error)
	ListByUser(userID uint) ([]models.PlatformConnection, error)
	DeleteByUserAndPlatform(userID uint, platform string) error
	CountByUser(userID uint) (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User       UserRepository
	Connection ConnectionRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Connection: NewConnectionRepository(db),
	}
}
