package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeLimiter struct {
	counts map[string]int64
}

func newFakeLimiter() *fakeLimiter {
	return &fakeLimiter{counts: make(map[string]int64)}
}

func (f *fakeLimiter) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	f.counts[key]++
	return f.counts[key], nil
}

func loginRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.RemoteAddr = "203.0.113.7:52811"
	return req
}

func TestAuthRateLimitBlocksIPAfterLimit(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 0)
	store := newFakeLimiter()
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})
	mw := AuthRateLimit(policy, store, nil)(handler)

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		mw.ServeHTTP(resp, loginRequest(`{"email":"a@b.c","password":"x"}`))
		if resp.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200 got %d", i+1, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	mw.ServeHTTP(resp, loginRequest(`{"email":"a@b.c","password":"x"}`))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}
	if calls != 2 {
		t.Fatalf("handler ran %d times, expected 2", calls)
	}
}

func TestAuthRateLimitBlocksEmailAcrossIPs(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 1)
	store := newFakeLimiter()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mw := AuthRateLimit(policy, store, nil)(handler)

	first := loginRequest(`{"email":"Target@Example.com","password":"x"}`)
	first.Header.Set("X-Forwarded-For", "198.51.100.1")
	resp := httptest.NewRecorder()
	mw.ServeHTTP(resp, first)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected first attempt allowed, got %d", resp.Code)
	}

	second := loginRequest(`{"email":"target@example.com","password":"y"}`)
	second.Header.Set("X-Forwarded-For", "198.51.100.2")
	resp = httptest.NewRecorder()
	mw.ServeHTTP(resp, second)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for same email from a new ip, got %d", resp.Code)
	}
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", 0, 0, 0)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mw := AuthRateLimit(policy, newFakeLimiter(), nil)(handler)

	resp := httptest.NewRecorder()
	mw.ServeHTTP(resp, loginRequest(`{}`))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", resp.Code)
	}
}

func TestClientIPPrefersForwardedHeader(t *testing.T) {
	req := loginRequest(`{}`)
	req.Header.Set("X-Forwarded-For", "198.51.100.9, 10.0.0.1")
	if got := clientIP(req); got != "198.51.100.9" {
		t.Fatalf("unexpected client ip: %s", got)
	}

	req = loginRequest(`{}`)
	if got := clientIP(req); got != "203.0.113.7" {
		t.Fatalf("unexpected fallback ip: %s", got)
	}
}
