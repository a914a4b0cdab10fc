package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MarvinHaas/ClipCast/app/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.PlatformConnection{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM platform_connections")
	})
	return db
}

func TestConnectionUpsertInsertsNewRecord(t *testing.T) {
	repo := NewConnectionRepository(newTestDB(t))

	expiry := time.Now().Add(time.Hour)
	err := repo.Upsert(&models.PlatformConnection{
		UserID:       1,
		Platform:     "youtube",
		AccessToken:  "at",
		RefreshToken: "rt",
		TokenExpiry:  &expiry,
		ChannelID:    "UC1",
		ChannelName:  "Channel One",
	})
	require.NoError(t, err)

	got, err := repo.GetByUserAndPlatform(1, "youtube")
	require.NoError(t, err)
	assert.Equal(t, "at", got.AccessToken)
	assert.Equal(t, "rt", got.RefreshToken)
	assert.Equal(t, "UC1", got.ChannelID)
	assert.Equal(t, "Channel One", got.ChannelName)
	require.NotNil(t, got.TokenExpiry)
}

func TestConnectionUpsertOverwritesExistingPair(t *testing.T) {
	db := newTestDB(t)
	repo := NewConnectionRepository(db)

	require.NoError(t, repo.Upsert(&models.PlatformConnection{
		UserID: 1, Platform: "youtube", AccessToken: "old", ChannelID: "UC1", ChannelName: "Old",
	}))

	first, err := repo.GetByUserAndPlatform(1, "youtube")
	require.NoError(t, err)
	createdAt := first.CreatedAt

	require.NoError(t, repo.Upsert(&models.PlatformConnection{
		UserID: 1, Platform: "youtube", AccessToken: "new", RefreshToken: "rt2", ChannelID: "UC2", ChannelName: "New",
	}))

	var count int64
	require.NoError(t, db.Model(&models.PlatformConnection{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	got, err := repo.GetByUserAndPlatform(1, "youtube")
	require.NoError(t, err)
	assert.Equal(t, "new", got.AccessToken)
	assert.Equal(t, "rt2", got.RefreshToken)
	assert.Equal(t, "UC2", got.ChannelID)
	assert.Equal(t, "New", got.ChannelName)
	assert.WithinDuration(t, createdAt, got.CreatedAt, time.Second)
}

func TestConnectionUpsertKeepsPlatformsSeparate(t *testing.T) {
	db := newTestDB(t)
	repo := NewConnectionRepository(db)

	require.NoError(t, repo.Upsert(&models.PlatformConnection{UserID: 1, Platform: "youtube", AccessToken: "a"}))
	require.NoError(t, repo.Upsert(&models.PlatformConnection{UserID: 1, Platform: "tiktok", AccessToken: "b"}))
	require.NoError(t, repo.Upsert(&models.PlatformConnection{UserID: 2, Platform: "youtube", AccessToken: "c"}))

	count, err := repo.CountByUser(1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	conns, err := repo.ListByUser(1)
	require.NoError(t, err)
	require.Len(t, conns, 2)
	for _, conn := range conns {
		assert.EqualValues(t, 1, conn.UserID)
	}
}

func TestConnectionDeleteIsIdempotent(t *testing.T) {
	repo := NewConnectionRepository(newTestDB(t))

	require.NoError(t, repo.Upsert(&models.PlatformConnection{UserID: 1, Platform: "youtube", AccessToken: "a"}))

	require.NoError(t, repo.DeleteByUserAndPlatform(1, "youtube"))
	_, err := repo.GetByUserAndPlatform(1, "youtube")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// second delete of the same pair still succeeds
	require.NoError(t, repo.DeleteByUserAndPlatform(1, "youtube"))

	// deleting a never-connected platform succeeds too
	require.NoError(t, repo.DeleteByUserAndPlatform(1, "linkedin"))
}

func TestConnectionDeleteScopedToUser(t *testing.T) {
	repo := NewConnectionRepository(newTestDB(t))

	require.NoError(t, repo.Upsert(&models.PlatformConnection{UserID: 1, Platform: "youtube", AccessToken: "a"}))
	require.NoError(t, repo.Upsert(&models.PlatformConnection{UserID: 2, Platform: "youtube", AccessToken: "b"}))

	require.NoError(t, repo.DeleteByUserAndPlatform(1, "youtube"))

	got, err := repo.GetByUserAndPlatform(2, "youtube")
	require.NoError(t, err)
	assert.Equal(t, "b", got.AccessToken)
}
