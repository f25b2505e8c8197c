package notifications

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/terra-legacy/terra-backend/pkg/db/models"
	"github.com/terra-legacy/terra-backend/pkg/enums"
	"github.com/terra-legacy/terra-backend/pkg/pagination"
)

func setupNotificationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`
CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  type TEXT NOT NULL,
  title TEXT NOT NULL,
  message TEXT NOT NULL,
  link TEXT,
  read_at DATETIME,
  created_at DATETIME
);`).Error)
	return db
}

func newNotification(t *testing.T, db *gorm.DB, kind enums.NotificationType, created time.Time) *models.Notification {
	t.Helper()

	notification := &models.Notification{
		ID:        uuid.New(),
		Type:      kind,
		Title:     "New order placed",
		Message:   "Order TL-100001 placed.",
		CreatedAt: created,
	}
	require.NoError(t, db.Create(notification).Error)
	return notification
}

func TestRepositoryListNewestFirstWithCursor(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	oldest := newNotification(t, db, enums.NotificationTypeOrder, now.Add(-2*time.Hour))
	newNotification(t, db, enums.NotificationTypeCommunity, now.Add(-time.Hour))
	latest := newNotification(t, db, enums.NotificationTypeOrder, now)

	rows, next, err := repo.List(context.Background(), pagination.Params{Limit: 1}, ListFilters{Type: enums.NotificationTypeOrder})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, latest.ID, rows[0].ID)
	require.NotEmpty(t, next)

	rows, next, err = repo.List(context.Background(), pagination.Params{Limit: 1, Cursor: next}, ListFilters{Type: enums.NotificationTypeOrder})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, oldest.ID, rows[0].ID)
	assert.Empty(t, next)
}

func TestRepositoryListUnreadOnly(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	read := newNotification(t, db, enums.NotificationTypeOrder, now.Add(-time.Hour))
	require.NoError(t, db.Model(&models.Notification{}).Where("id = ?", read.ID).UpdateColumn("read_at", now).Error)
	unread := newNotification(t, db, enums.NotificationTypeOrder, now)

	rows, _, err := repo.List(context.Background(), pagination.Params{Limit: 10}, ListFilters{UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, unread.ID, rows[0].ID)
}

func TestRepositoryMarkRead(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	notification := newNotification(t, db, enums.NotificationTypeOrder, now)

	mark, err := repo.MarkRead(context.Background(), notification.ID, now)
	require.NoError(t, err)
	assert.True(t, mark.Found)
	assert.True(t, mark.Updated)

	// Second pass finds the row but has nothing left to stamp.
	mark, err = repo.MarkRead(context.Background(), notification.ID, now)
	require.NoError(t, err)
	assert.True(t, mark.Found)
	assert.False(t, mark.Updated)

	mark, err = repo.MarkRead(context.Background(), uuid.New(), now)
	require.NoError(t, err)
	assert.False(t, mark.Found)
}

func TestRepositoryMarkAllRead(t *testing.T) {
	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	newNotification(t, db, enums.NotificationTypeOrder, now.Add(-time.Hour))
	newNotification(t, db, enums.NotificationTypeOrder, now)

	updated, err := repo.MarkAllRead(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	updated, err = repo.MarkAllRead(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, updated)
}
