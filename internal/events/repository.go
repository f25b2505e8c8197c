package event

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/terra-legacy/terra-backend/pkg/db/models"
	"github.com/terra-legacy/terra-backend/pkg/pagination"
)

// Repository wires together event persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new event.
func (r *Repository) Create(ctx context.Context, event *models.Event) (*models.Event, error) {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

// Update saves the provided event.
func (r *Repository) Update(ctx context.Context, event *models.Event) (*models.Event, error) {
	if err := r.db.WithContext(ctx).Save(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

// Delete removes an event by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Event{}, "id = ?", id).Error
}

// FindByID loads the event regardless of publish state.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// FindBySlug loads the event by its URL slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// ListFilters describe the supported filter knobs for event listings.
type ListFilters struct {
	PublishedOnly bool
	City          string
	UpcomingFrom  time.Time
}

// List returns a page of events. Upcoming listings sort soonest first,
// otherwise newest first with a cursor.
func (r *Repository) List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Event, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	q := r.db.WithContext(ctx).Model(&models.Event{})
	if filters.PublishedOnly {
		q = q.Where("is_published = ?", true)
	}
	if trimmed := strings.TrimSpace(filters.City); trimmed != "" {
		q = q.Where("LOWER(city) = ?", strings.ToLower(trimmed))
	}

	if !filters.UpcomingFrom.IsZero() {
		var rows []models.Event
		if err := q.Where("starts_at >= ?", filters.UpcomingFrom).
			Order("starts_at ASC").
			Limit(limit).
			Find(&rows).Error; err != nil {
			return nil, "", err
		}
		return rows, "", nil
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Event
	if err := q.Order("created_at DESC").
		Order("id DESC").
		Limit(limit + 1).
		Find(&rows).Error; err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}
