package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MarvinHaas/ClipCast/app/models"
)

// connectionRepository implements the ConnectionRepository interface
type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository creates a new platform connection repository instance
func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

// Upsert writes the connection as a single atomic insert-or-overwrite keyed
// on (user_id, platform). Token fields, expiry and the profile snapshot are
// replaced; created_at keeps the time of the first authorization. Concurrent
// callbacks for the same pair resolve to last writer wins.
func (r *connectionRepository) Upsert(conn *models.PlatformConnection) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "platform"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"access_token", "refresh_token", "token_expiry",
			"channel_id", "channel_name", "updated_at",
		}),
	}).Create(conn).Error
}

// GetByUserAndPlatform retrieves a single connection record
func (r *connectionRepository) GetByUserAndPlatform(userID uint, platform string) (*models.PlatformConnection, error) {
	var conn models.PlatformConnection
	err := r.db.Where("user_id = ? AND platform = ?", userID, platform).First(&conn).Error
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// ListByUser retrieves all connection records for a user
func (r *connectionRepository) ListByUser(userID uint) ([]models.PlatformConnection, error) {
	var conns []models.PlatformConnection
	err := r.db.Where("user_id = ?", userID).Order("platform").Find(&conns).Error
	return conns, err
}

// DeleteByUserAndPlatform removes the matching connection. Deleting a
// non-existent row is not an error; zero rows affected counts as success.
func (r *connectionRepository) DeleteByUserAndPlatform(userID uint, platform string) error {
	return r.db.Where("user_id = ? AND platform = ?", userID, platform).
		Delete(&models.PlatformConnection{}).Error
}

// CountByUser returns the number of connected platforms for a user
func (r *connectionRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.PlatformConnection{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
