package product

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
	"github.com/terra-legacy/terra-backend/pkg/pagination"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT,
  category TEXT NOT NULL,
  tags TEXT NOT NULL DEFAULT '{}',
  image_url TEXT,
  price_cents INTEGER NOT NULL,
  compare_at_price_cents INTEGER,
  is_active INTEGER NOT NULL DEFAULT 1,
  is_featured INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	return db
}

func newProduct(t *testing.T, db *gorm.DB, title string, category string, created time.Time, active bool) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:         uuid.New(),
		Title:      title,
		Slug:       fmt.Sprintf("%s-%s", title, uuid.NewString()[:8]),
		Category:   category,
		Tags:       []string{},
		PriceCents: 1000,
		IsActive:   active,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositoryListPagination(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	newProduct(t, db, "older", "seeds", now.Add(-time.Hour), true)
	newest := newProduct(t, db, "newest", "seeds", now, true)

	rows, next, err := repo.List(context.Background(), pagination.Params{Limit: 1}, ListFilters{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, newest.ID, rows[0].ID)
	assert.NotEmpty(t, next)

	rows, next, err = repo.List(context.Background(), pagination.Params{Limit: 1, Cursor: next}, ListFilters{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "older", rows[0].Title)
	assert.Empty(t, next)
}

func TestRepositoryListFilters(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	newProduct(t, db, "Tomato Seeds", "seeds", now, true)
	newProduct(t, db, "Trowel", "tools", now.Add(-time.Minute), true)
	newProduct(t, db, "Hidden Rake", "tools", now.Add(-2*time.Minute), false)

	rows, _, err := repo.List(context.Background(), pagination.Params{}, ListFilters{Category: "tools", ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Trowel", rows[0].Title)

	rows, _, err = repo.List(context.Background(), pagination.Params{}, ListFilters{Query: "tomato"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Tomato Seeds", rows[0].Title)
}

func TestRepositoryFindActiveByID(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	active := newProduct(t, db, "Active", "seeds", now, true)
	inactive := newProduct(t, db, "Inactive", "seeds", now, false)

	got, err := repo.FindActiveByID(context.Background(), active.ID)
	require.NoError(t, err)
	assert.Equal(t, active.ID, got.ID)

	_, err = repo.FindActiveByID(context.Background(), inactive.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
