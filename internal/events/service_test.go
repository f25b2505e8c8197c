package event

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

	pkgerrors "github.com/terra-legacy/terra-backend/pkg/errors"
	"github.com/terra-legacy/terra-backend/pkg/pagination"
)

func setupEventTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS events (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT,
  venue TEXT NOT NULL,
  city TEXT NOT NULL,
  image_url TEXT,
  starts_at DATETIME NOT NULL,
  ends_at DATETIME,
  capacity INTEGER,
  is_published INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func setupEventService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(setupEventTestDB(t)))
	require.NoError(t, err)
	return svc
}

func requireEventCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	coded := pkgerrors.As(err)
	require.NotNil(t, coded, "expected coded error, got %v", err)
	assert.Equal(t, code, coded.Code())
}

func validCreateInput(title string, startsAt time.Time) CreateInput {
	return CreateInput{
		Title:    title,
		Venue:    "Community Greenhouse",
		City:     "Asheville",
		StartsAt: startsAt,
	}
}

func TestEventCreateValidatesSchedule(t *testing.T) {
	svc := setupEventService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	input := validCreateInput("Spring Planting Workshop", now)
	ended := now.Add(-time.Hour)
	input.EndsAt = &ended
	_, err := svc.Create(ctx, input)
	requireEventCode(t, err, pkgerrors.CodeValidation)

	input = validCreateInput("Spring Planting Workshop", now)
	zero := 0
	input.Capacity = &zero
	_, err = svc.Create(ctx, input)
	requireEventCode(t, err, pkgerrors.CodeValidation)
}

func TestEventCreateAndGetBySlug(t *testing.T) {
	svc := setupEventService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateInput("Spring Planting Workshop", time.Now().UTC().Add(48*time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, "spring-planting-workshop", created.Slug)

	got, err := svc.GetBySlug(ctx, "spring-planting-workshop")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestEventListUpcomingSortsSoonestFirst(t *testing.T) {
	svc := setupEventService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	later, err := svc.Create(ctx, validCreateInput("Harvest Festival", now.Add(14*24*time.Hour)))
	require.NoError(t, err)
	sooner, err := svc.Create(ctx, validCreateInput("Compost Clinic", now.Add(24*time.Hour)))
	require.NoError(t, err)
	past, err := svc.Create(ctx, validCreateInput("Winter Recap", now.Add(-24*time.Hour)))
	require.NoError(t, err)

	for _, dto := range []*EventDTO{later, sooner, past} {
		_, err := svc.Publish(ctx, dto.ID)
		require.NoError(t, err)
	}

	rows, next, err := svc.List(ctx, pagination.Params{}, ListFilters{PublishedOnly: true, UpcomingFrom: now})
	require.NoError(t, err)
	assert.Empty(t, next)
	require.Len(t, rows, 2)
	assert.Equal(t, "Compost Clinic", rows[0].Title)
	assert.Equal(t, "Harvest Festival", rows[1].Title)
}

func TestEventUpdatePartial(t *testing.T) {
	svc := setupEventService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateInput("Compost Clinic", time.Now().UTC().Add(time.Hour)))
	require.NoError(t, err)

	city := "Durham"
	updated, err := svc.Update(ctx, created.ID, UpdateInput{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Durham", updated.City)
	assert.Equal(t, created.Title, updated.Title)
}
