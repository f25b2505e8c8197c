package controllers

import (
	"net/http"

	"github.com/terra-legacy/terra-backend/api/responses"
	contentsvc "github.com/terra-legacy/terra-backend/internal/content"
	"github.com/terra-legacy/terra-backend/pkg/logger"
)

// ContentHome serves the aggregated marketing-site home feed.
func ContentHome(svc contentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		feed, err := svc.Home(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, feed)
	}
}
