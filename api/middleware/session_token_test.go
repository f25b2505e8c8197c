package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestSessionTokenMintsWhenAbsent(t *testing.T) {
	var seen string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionTokenFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	SessionToken(nil)(handler).ServeHTTP(resp, req)

	if seen == "" {
		t.Fatalf("expected a minted token in context")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("minted token is not a uuid: %s", seen)
	}
	if got := resp.Header().Get("X-TL-Session"); got != seen {
		t.Fatalf("response header %q does not match context token %q", got, seen)
	}

	cookies := resp.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "tl_session" || cookies[0].Value != seen {
		t.Fatalf("expected tl_session cookie carrying the minted token")
	}
	if !cookies[0].HttpOnly {
		t.Fatalf("session cookie must be http-only")
	}
}

func TestSessionTokenKeepsExistingHeaderToken(t *testing.T) {
	token := uuid.NewString()
	var seen string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionTokenFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-TL-Session", token)
	resp := httptest.NewRecorder()
	SessionToken(nil)(handler).ServeHTTP(resp, req)

	if seen != token {
		t.Fatalf("expected header token kept, got %s", seen)
	}
	if len(resp.Result().Cookies()) != 0 {
		t.Fatalf("no cookie should be set when the client already holds a token")
	}
}

func TestSessionTokenReadsCookie(t *testing.T) {
	token := uuid.NewString()
	var seen string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionTokenFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: "tl_session", Value: token})
	resp := httptest.NewRecorder()
	SessionToken(nil)(handler).ServeHTTP(resp, req)

	if seen != token {
		t.Fatalf("expected cookie token kept, got %s", seen)
	}
}

func TestSessionTokenReplacesInvalidToken(t *testing.T) {
	var seen string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionTokenFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-TL-Session", "not-a-uuid")
	resp := httptest.NewRecorder()
	SessionToken(nil)(handler).ServeHTTP(resp, req)

	if seen == "" || seen == "not-a-uuid" {
		t.Fatalf("invalid token should be replaced, got %q", seen)
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("replacement token is not a uuid: %s", seen)
	}
}
