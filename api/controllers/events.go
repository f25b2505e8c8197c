package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/terra-legacy/terra-backend/api/responses"
	"github.com/terra-legacy/terra-backend/api/validators"
	eventsvc "github.com/terra-legacy/terra-backend/internal/events"
	pkgerrors "github.com/terra-legacy/terra-backend/pkg/errors"
	"github.com/terra-legacy/terra-backend/pkg/logger"
)

// EventList serves published events. With upcoming=true the page sorts
// soonest first and excludes anything already started.
func EventList(svc eventsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		upcoming, err := validators.ParseQueryBool(r, "upcoming")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := eventsvc.ListFilters{
			PublishedOnly: true,
			City:          strings.TrimSpace(r.URL.Query().Get("city")),
		}
		if upcoming != nil && *upcoming {
			filters.UpcomingFrom = time.Now().UTC()
		}

		items, next, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listEnvelope{Items: items, NextCursor: next})
	}
}

// EventBySlug serves a single event by slug.
func EventBySlug(svc eventsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slugValue := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slugValue == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slug required"))
			return
		}

		event, err := svc.GetBySlug(r.Context(), slugValue)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, event)
	}
}
