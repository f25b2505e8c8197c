package orders

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/terra-legacy/terra-backend/pkg/db/models"
	"github.com/terra-legacy/terra-backend/pkg/enums"
	"github.com/terra-legacy/terra-backend/pkg/logger"
	"github.com/terra-legacy/terra-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{`
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  session_token TEXT NOT NULL,
  email TEXT NOT NULL,
  shipping_address TEXT,
  status TEXT NOT NULL DEFAULT 'placed',
  subtotal_cents INTEGER NOT NULL,
  total_cents INTEGER NOT NULL,
  item_count INTEGER NOT NULL,
  notes TEXT,
  placed_at DATETIME NOT NULL,
  canceled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT,
  title TEXT NOT NULL,
  category TEXT NOT NULL,
  image_url TEXT,
  unit_price_cents INTEGER NOT NULL,
  qty INTEGER NOT NULL,
  total_cents INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func ordersTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newOrder(t *testing.T, db *gorm.DB, number string, status enums.OrderStatus, created time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:            uuid.New(),
		OrderNumber:   number,
		SessionToken:  "sess-1",
		Email:         "shopper@terralegacy.com",
		Status:        status,
		SubtotalCents: 2500,
		TotalCents:    2500,
		ItemCount:     2,
		PlacedAt:      created,
		CreatedAt:     created,
		UpdatedAt:     created,
		Items: []models.OrderLineItem{
			{
				ID:             uuid.New(),
				Title:          "Heirloom Tomato Seeds",
				Category:       "seeds",
				UnitPriceCents: 1250,
				Qty:            2,
				TotalCents:     2500,
			},
		},
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestRepositoryFindByOrderNumber(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	created := newOrder(t, db, "TL-204581", enums.OrderStatusPlaced, time.Now().UTC())

	got, err := repo.FindByOrderNumber(context.Background(), "TL-204581")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Heirloom Tomato Seeds", got.Items[0].Title)

	_, err = repo.FindByOrderNumber(context.Background(), "TL-000000")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryExistsByOrderNumber(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	newOrder(t, db, "TL-204581", enums.OrderStatusPlaced, time.Now().UTC())

	exists, err := repo.ExistsByOrderNumber(context.Background(), "TL-204581")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByOrderNumber(context.Background(), "TL-999999")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepositoryListByStatusWithCursor(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	newOrder(t, db, "TL-100001", enums.OrderStatusPlaced, now.Add(-2*time.Hour))
	newOrder(t, db, "TL-100002", enums.OrderStatusCanceled, now.Add(-time.Hour))
	latest := newOrder(t, db, "TL-100003", enums.OrderStatusPlaced, now)

	rows, next, err := repo.List(context.Background(), pagination.Params{Limit: 1}, ListFilters{Status: enums.OrderStatusPlaced})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, latest.OrderNumber, rows[0].OrderNumber)
	require.NotEmpty(t, next)

	rows, next, err = repo.List(context.Background(), pagination.Params{Limit: 1, Cursor: next}, ListFilters{Status: enums.OrderStatusPlaced})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "TL-100001", rows[0].OrderNumber)
	assert.Empty(t, next)
}
