package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/terra-legacy/terra-backend/pkg/logger"
)

const (
	sessionTokenHeader = "X-TL-Session"
	sessionTokenCookie = "tl_session"
	sessionCookieTTL   = 30 * 24 * time.Hour
)

// SessionToken resolves the anonymous storefront session token from the
// request, minting one when the visitor has none. The token travels in
// both a cookie and a response header so SPA and server-rendered clients
// can each hold onto it.
func SessionToken(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(sessionTokenHeader))
			if token == "" {
				if cookie, err := r.Cookie(sessionTokenCookie); err == nil {
					token = strings.TrimSpace(cookie.Value)
				}
			}
			if _, err := uuid.Parse(token); err != nil {
				token = ""
			}

			if token == "" {
				token = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     sessionTokenCookie,
					Value:    token,
					Path:     "/",
					MaxAge:   int(sessionCookieTTL.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			w.Header().Set(sessionTokenHeader, token)

			ctx := WithSessionToken(r.Context(), token)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, token)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
