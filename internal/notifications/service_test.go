package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-legacy/terra-backend/pkg/db/models"
	"github.com/terra-legacy/terra-backend/pkg/enums"
	pkgerrors "github.com/terra-legacy/terra-backend/pkg/errors"
	"github.com/terra-legacy/terra-backend/pkg/pagination"
)

func setupNotificationsService(t *testing.T) (Service, *Repository) {
	t.Helper()

	db := setupNotificationsTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestServiceListMapsRows(t *testing.T) {
	svc, repo := setupNotificationsService(t)

	now := time.Now().UTC()
	created := newNotificationViaRepo(t, repo, now)

	items, next, err := svc.List(context.Background(), pagination.Params{Limit: 10}, ListFilters{})
	require.NoError(t, err)
	assert.Empty(t, next)
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)
	assert.Equal(t, enums.NotificationTypeOrder, items[0].Type)
	assert.Nil(t, items[0].ReadAt)
}

func TestServiceMarkReadNotFound(t *testing.T) {
	svc, _ := setupNotificationsService(t)

	err := svc.MarkRead(context.Background(), uuid.New())
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeNotFound, coded.Code())
}

func TestServiceMarkAllRead(t *testing.T) {
	svc, repo := setupNotificationsService(t)

	now := time.Now().UTC()
	newNotificationViaRepo(t, repo, now.Add(-time.Minute))
	newNotificationViaRepo(t, repo, now)

	updated, err := svc.MarkAllRead(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	items, _, err := svc.List(context.Background(), pagination.Params{Limit: 10}, ListFilters{UnreadOnly: true})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func newNotificationViaRepo(t *testing.T, repo *Repository, created time.Time) *models.Notification {
	t.Helper()

	notification := &models.Notification{
		ID:        uuid.New(),
		Type:      enums.NotificationTypeOrder,
		Title:     "New order placed",
		Message:   "Order TL-100001 placed.",
		CreatedAt: created,
	}
	require.NoError(t, repo.Create(context.Background(), notification))
	return notification
}
