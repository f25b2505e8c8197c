package blog

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
	pkgerrors "github.com/terra-legacy/terra-backend/pkg/errors"
	"github.com/terra-legacy/terra-backend/pkg/pagination"
)

func setupBlogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS blog_posts (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  author TEXT NOT NULL,
  excerpt TEXT,
  body TEXT NOT NULL,
  hero_image TEXT,
  tags TEXT NOT NULL DEFAULT '{}',
  is_published INTEGER NOT NULL DEFAULT 0,
  published_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func setupBlogService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := setupBlogTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc, db
}

func requireBlogCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	coded := pkgerrors.As(err)
	require.NotNil(t, coded, "expected coded error, got %v", err)
	assert.Equal(t, code, coded.Code())
}

func TestBlogCreateSlugsTitle(t *testing.T) {
	svc, _ := setupBlogService(t)

	dto, err := svc.Create(context.Background(), CreateInput{
		Title:  "Why Cover Crops Matter!",
		Author: "June Reyes",
		Body:   "Cover crops protect and feed your soil through the winter.",
	})
	require.NoError(t, err)
	assert.Equal(t, "why-cover-crops-matter", dto.Slug)
	assert.False(t, dto.IsPublished)
	assert.Nil(t, dto.PublishedAt)
}

func TestBlogCreateValidation(t *testing.T) {
	svc, _ := setupBlogService(t)

	_, err := svc.Create(context.Background(), CreateInput{Author: "June", Body: "text"})
	requireBlogCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(context.Background(), CreateInput{Title: "Hi", Body: "text"})
	requireBlogCode(t, err, pkgerrors.CodeValidation)
}

func TestBlogPublishLifecycle(t *testing.T) {
	svc, _ := setupBlogService(t)
	ctx := context.Background()

	dto, err := svc.Create(ctx, CreateInput{Title: "Seed Saving 101", Author: "June Reyes", Body: "Keep your best seeds."})
	require.NoError(t, err)

	published, err := svc.Publish(ctx, dto.ID)
	require.NoError(t, err)
	assert.True(t, published.IsPublished)
	require.NotNil(t, published.PublishedAt)
	firstPublish := *published.PublishedAt

	// publishing again keeps the original timestamp
	published, err = svc.Publish(ctx, dto.ID)
	require.NoError(t, err)
	assert.True(t, firstPublish.Equal(*published.PublishedAt))

	unpublished, err := svc.Unpublish(ctx, dto.ID)
	require.NoError(t, err)
	assert.False(t, unpublished.IsPublished)
	assert.Nil(t, unpublished.PublishedAt)
}

func TestBlogListPublishedOnly(t *testing.T) {
	svc, db := setupBlogService(t)
	ctx := context.Background()

	draft, err := svc.Create(ctx, CreateInput{Title: "Draft", Author: "June", Body: "wip"})
	require.NoError(t, err)
	live, err := svc.Create(ctx, CreateInput{Title: "Live", Author: "June", Body: "done"})
	require.NoError(t, err)
	_, err = svc.Publish(ctx, live.ID)
	require.NoError(t, err)

	// stagger created_at so ordering is deterministic
	require.NoError(t, db.Model(&models.BlogPost{}).
		Where("id = ?", draft.ID).
		Update("created_at", time.Now().UTC().Add(-time.Hour)).Error)

	rows, _, err := svc.List(ctx, pagination.Params{}, ListFilters{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Live", rows[0].Title)
}

func TestBlogGetBySlugNotFound(t *testing.T) {
	svc, _ := setupBlogService(t)

	_, err := svc.GetBySlug(context.Background(), "missing")
	requireBlogCode(t, err, pkgerrors.CodeNotFound)
}
