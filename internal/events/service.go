package event

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/terra-legacy/terra-backend/pkg/db"
	"github.com/terra-legacy/terra-backend/pkg/db/models"
	"github.com/terra-legacy/terra-backend/pkg/errors"
	"github.com/terra-legacy/terra-backend/pkg/pagination"
	"github.com/terra-legacy/terra-backend/pkg/slug"
)

// CreateInput carries a new event draft.
type CreateInput struct {
	Title       string
	Description *string
	Venue       string
	City        string
	ImageURL    *string
	StartsAt    time.Time
	EndsAt      *time.Time
	Capacity    *int
}

// UpdateInput carries a partial event update.
type UpdateInput struct {
	Title       *string
	Description *string
	Venue       *string
	City        *string
	ImageURL    *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	Capacity    *int
}

// Service exposes event administration and public reads.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*EventDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*EventDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Publish(ctx context.Context, id uuid.UUID) (*EventDTO, error)
	Unpublish(ctx context.Context, id uuid.UUID) (*EventDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*EventDTO, error)
	GetBySlug(ctx context.Context, slugValue string) (*EventDTO, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) ([]EventDTO, string, error)
}

type service struct {
	repo *Repository
}

// NewService wires the event service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, stderrors.New("event repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*EventDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.New(errors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.Venue) == "" {
		return nil, errors.New(errors.CodeValidation, "venue is required")
	}
	if strings.TrimSpace(input.City) == "" {
		return nil, errors.New(errors.CodeValidation, "city is required")
	}
	if input.StartsAt.IsZero() {
		return nil, errors.New(errors.CodeValidation, "start time is required")
	}
	if err := validateSchedule(input.StartsAt, input.EndsAt, input.Capacity); err != nil {
		return nil, err
	}

	event := &models.Event{
		ID:          uuid.New(),
		Title:       title,
		Slug:        slug.Make(title),
		Description: input.Description,
		Venue:       strings.TrimSpace(input.Venue),
		City:        strings.TrimSpace(input.City),
		ImageURL:    input.ImageURL,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		Capacity:    input.Capacity,
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		if dbpkg.IsUniqueViolation(err, "ux_events_slug") {
			return nil, errors.New(errors.CodeConflict, "an event with this title already exists")
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "creating event")
	}
	return NewEventDTO(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*EventDTO, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, "loading event")
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, errors.New(errors.CodeValidation, "title cannot be empty")
		}
		event.Title = title
		event.Slug = slug.Make(title)
	}
	if input.Description != nil {
		event.Description = input.Description
	}
	if input.Venue != nil {
		event.Venue = strings.TrimSpace(*input.Venue)
	}
	if input.City != nil {
		event.City = strings.TrimSpace(*input.City)
	}
	if input.ImageURL != nil {
		event.ImageURL = input.ImageURL
	}
	if input.StartsAt != nil {
		event.StartsAt = *input.StartsAt
	}
	if input.EndsAt != nil {
		event.EndsAt = input.EndsAt
	}
	if input.Capacity != nil {
		event.Capacity = input.Capacity
	}
	if err := validateSchedule(event.StartsAt, event.EndsAt, event.Capacity); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, event)
	if err != nil {
		if dbpkg.IsUniqueViolation(err, "ux_events_slug") {
			return nil, errors.New(errors.CodeConflict, "an event with this title already exists")
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "updating event")
	}
	return NewEventDTO(updated), nil
}

func validateSchedule(startsAt time.Time, endsAt *time.Time, capacity *int) error {
	if endsAt != nil && !endsAt.After(startsAt) {
		return errors.New(errors.CodeValidation, "end time must be after start time")
	}
	if capacity != nil && *capacity < 1 {
		return errors.New(errors.CodeValidation, "capacity must be at least 1")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFoundOrDependency(err, "loading event")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "deleting event")
	}
	return nil
}

func (s *service) Publish(ctx context.Context, id uuid.UUID) (*EventDTO, error) {
	return s.setPublished(ctx, id, true)
}

func (s *service) Unpublish(ctx context.Context, id uuid.UUID) (*EventDTO, error) {
	return s.setPublished(ctx, id, false)
}

func (s *service) setPublished(ctx context.Context, id uuid.UUID, published bool) (*EventDTO, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, "loading event")
	}
	event.IsPublished = published
	updated, err := s.repo.Update(ctx, event)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "updating event")
	}
	return NewEventDTO(updated), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*EventDTO, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, "loading event")
	}
	return NewEventDTO(event), nil
}

func (s *service) GetBySlug(ctx context.Context, slugValue string) (*EventDTO, error) {
	event, err := s.repo.FindBySlug(ctx, slugValue)
	if err != nil {
		return nil, notFoundOrDependency(err, "loading event")
	}
	return NewEventDTO(event), nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) ([]EventDTO, string, error) {
	rows, next, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, "", errors.Wrap(errors.CodeDependency, err, "listing events")
	}
	return NewEventDTOs(rows), next, nil
}

func notFoundOrDependency(err error, action string) error {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.New(errors.CodeNotFound, "event not found")
	}
	return errors.Wrap(errors.CodeDependency, err, action)
}
