package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/terra-legacy/terra-backend/api/middleware"
	cartsvc "github.com/terra-legacy/terra-backend/internal/cart"
	pkgerrors "github.com/terra-legacy/terra-backend/pkg/errors"
)

type stubCartService struct {
	dto      *cartsvc.CartDTO
	err      error
	gotToken string
	gotQty   int
}

func (s *stubCartService) Get(ctx context.Context, sessionToken string) (*cartsvc.CartDTO, error) {
	s.gotToken = sessionToken
	return s.dto, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, sessionToken string, productID uuid.UUID, qty int) (*cartsvc.CartDTO, error) {
	s.gotToken = sessionToken
	s.gotQty = qty
	return s.dto, s.err
}

func (s *stubCartService) UpdateQuantity(ctx context.Context, sessionToken string, productID uuid.UUID, qty int) (*cartsvc.CartDTO, error) {
	s.gotQty = qty
	return s.dto, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, sessionToken string, productID uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.dto, s.err
}

func (s *stubCartService) Clear(ctx context.Context, sessionToken string) error {
	return s.err
}

func (s *stubCartService) Snapshot(ctx context.Context, sessionToken string) (*cartsvc.Cart, error) {
	return nil, nil
}

func withSessionToken(req *http.Request, token string) *http.Request {
	return req.WithContext(middleware.WithSessionToken(req.Context(), token))
}

func TestCartFetchSuccess(t *testing.T) {
	token := uuid.NewString()
	svc := &stubCartService{dto: &cartsvc.CartDTO{SessionToken: token}}
	handler := CartFetch(svc, nil)

	req := withSessionToken(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil), token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data cartsvc.CartDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.SessionToken != token {
		t.Fatalf("unexpected session token: %s", envelope.Data.SessionToken)
	}
	if svc.gotToken != token {
		t.Fatalf("service received wrong token: %s", svc.gotToken)
	}
}

func TestCartFetchMissingSessionToken(t *testing.T) {
	handler := CartFetch(&stubCartService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartAddItemSuccess(t *testing.T) {
	token := uuid.NewString()
	svc := &stubCartService{dto: &cartsvc.CartDTO{SessionToken: token, ItemCount: 2}}
	handler := CartAddItem(svc, nil)

	body := `{"product_id":"` + uuid.NewString() + `","qty":2}`
	req := withSessionToken(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body)), token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotQty != 2 {
		t.Fatalf("service received wrong qty: %d", svc.gotQty)
	}
}

func TestCartAddItemRejectsBadProductID(t *testing.T) {
	handler := CartAddItem(&stubCartService{}, nil)

	body := `{"product_id":"not-a-uuid","qty":1}`
	req := withSessionToken(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body)), uuid.NewString())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartAddItemNotFoundProduct(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := CartAddItem(svc, nil)

	body := `{"product_id":"` + uuid.NewString() + `","qty":1}`
	req := withSessionToken(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body)), uuid.NewString())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
