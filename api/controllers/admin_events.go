package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/terra-legacy/terra-backend/api/responses"
	"github.com/terra-legacy/terra-backend/api/validators"
	eventsvc "github.com/terra-legacy/terra-backend/internal/events"
	"github.com/terra-legacy/terra-backend/pkg/logger"
)

type createEventRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description *string    `json:"description,omitempty"`
	Venue       string     `json:"venue" validate:"required,max=200"`
	City        string     `json:"city" validate:"required,max=120"`
	ImageURL    *string    `json:"image_url,omitempty" validate:"omitempty,url"`
	StartsAt    time.Time  `json:"starts_at" validate:"required"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	Capacity    *int       `json:"capacity,omitempty" validate:"omitempty,min=1"`
}

type updateEventRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string    `json:"description,omitempty"`
	Venue       *string    `json:"venue,omitempty" validate:"omitempty,max=200"`
	City        *string    `json:"city,omitempty" validate:"omitempty,max=120"`
	ImageURL    *string    `json:"image_url,omitempty" validate:"omitempty,url"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	Capacity    *int       `json:"capacity,omitempty" validate:"omitempty,min=1"`
}

// AdminEventList serves all events, drafts included.
func AdminEventList(svc eventsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := eventsvc.ListFilters{
			City: strings.TrimSpace(r.URL.Query().Get("city")),
		}

		items, next, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listEnvelope{Items: items, NextCursor: next})
	}
}

// AdminEventCreate drafts a new event.
func AdminEventCreate(svc eventsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createEventRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		event, err := svc.Create(r.Context(), eventsvc.CreateInput{
			Title:       strings.TrimSpace(body.Title),
			Description: body.Description,
			Venue:       strings.TrimSpace(body.Venue),
			City:        strings.TrimSpace(body.City),
			ImageURL:    body.ImageURL,
			StartsAt:    body.StartsAt,
			EndsAt:      body.EndsAt,
			Capacity:    body.Capacity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, event)
	}
}

// AdminEventUpdate applies a partial update to an event.
func AdminEventUpdate(svc eventsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "eventId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateEventRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		event, err := svc.Update(r.Context(), id, eventsvc.UpdateInput{
			Title:       body.Title,
			Description: body.Description,
			Venue:       body.Venue,
			City:        body.City,
			ImageURL:    body.ImageURL,
			StartsAt:    body.StartsAt,
			EndsAt:      body.EndsAt,
			Capacity:    body.Capacity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, event)
	}
}

// AdminEventPublish flips an event live.
func AdminEventPublish(svc eventsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "eventId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		event, err := svc.Publish(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, event)
	}
}

// AdminEventUnpublish pulls an event back to draft.
func AdminEventUnpublish(svc eventsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "eventId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		event, err := svc.Unpublish(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, event)
	}
}

// AdminEventDelete removes an event.
func AdminEventDelete(svc eventsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "eventId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
