package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/terra-legacy/terra-backend/pkg/db/models"
)

// EventDTO is the transport shape for a community event.
type EventDTO struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description,omitempty"`
	Venue       string     `json:"venue"`
	City        string     `json:"city"`
	ImageURL    *string    `json:"image_url,omitempty"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	Capacity    *int       `json:"capacity,omitempty"`
	IsPublished bool       `json:"is_published"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewEventDTO maps the model into its transport shape.
func NewEventDTO(event *models.Event) *EventDTO {
	return &EventDTO{
		ID:          event.ID,
		Title:       event.Title,
		Slug:        event.Slug,
		Description: event.Description,
		Venue:       event.Venue,
		City:        event.City,
		ImageURL:    event.ImageURL,
		StartsAt:    event.StartsAt,
		EndsAt:      event.EndsAt,
		Capacity:    event.Capacity,
		IsPublished: event.IsPublished,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
}

// NewEventDTOs maps a slice of events.
func NewEventDTOs(events []models.Event) []EventDTO {
	out := make([]EventDTO, 0, len(events))
	for i := range events {
		out = append(out, *NewEventDTO(&events[i]))
	}
	return out
}
