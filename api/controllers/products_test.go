package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	productsvc "github.com/terra-legacy/terra-backend/internal/products"
	pkgerrors "github.com/terra-legacy/terra-backend/pkg/errors"
	"github.com/terra-legacy/terra-backend/pkg/pagination"
)

type stubProductService struct {
	items      []productsvc.ProductDTO
	next       string
	product    *productsvc.ProductDTO
	err        error
	gotFilters productsvc.ListFilters
	gotParams  pagination.Params
}

func (s *stubProductService) Create(ctx context.Context, input productsvc.CreateInput) (*productsvc.ProductDTO, error) {
	return s.product, s.err
}

func (s *stubProductService) Update(ctx context.Context, productID uuid.UUID, input productsvc.UpdateInput) (*productsvc.ProductDTO, error) {
	return s.product, s.err
}

func (s *stubProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	return s.err
}

func (s *stubProductService) Get(ctx context.Context, productID uuid.UUID) (*productsvc.ProductDTO, error) {
	return s.product, s.err
}

func (s *stubProductService) GetBySlug(ctx context.Context, slugValue string) (*productsvc.ProductDTO, error) {
	return s.product, s.err
}

func (s *stubProductService) List(ctx context.Context, params pagination.Params, filters productsvc.ListFilters) ([]productsvc.ProductDTO, string, error) {
	s.gotParams = params
	s.gotFilters = filters
	return s.items, s.next, s.err
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestProductListSuccess(t *testing.T) {
	svc := &stubProductService{
		items: []productsvc.ProductDTO{{ID: uuid.New(), Title: "Cast Iron Skillet"}},
		next:  "cursor-token",
	}
	handler := ProductList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?category=kitchen&featured=true&q=iron", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data struct {
			Items      []productsvc.ProductDTO `json:"items"`
			NextCursor string                  `json:"next_cursor"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Items) != 1 {
		t.Fatalf("unexpected item count: %d", len(envelope.Data.Items))
	}
	if envelope.Data.NextCursor != "cursor-token" {
		t.Fatalf("unexpected cursor: %s", envelope.Data.NextCursor)
	}
	if svc.gotFilters.Category != "kitchen" || svc.gotFilters.Query != "iron" {
		t.Fatalf("filters not forwarded: %+v", svc.gotFilters)
	}
	if svc.gotFilters.Featured == nil || !*svc.gotFilters.Featured {
		t.Fatalf("featured filter not forwarded")
	}
	if !svc.gotFilters.ActiveOnly {
		t.Fatalf("public listing must be active-only")
	}
}

func TestProductListRejectsBadFeaturedFlag(t *testing.T) {
	handler := ProductList(&stubProductService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?featured=maybe", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestProductBySlugSuccess(t *testing.T) {
	dto := &productsvc.ProductDTO{ID: uuid.New(), Slug: "cast-iron-skillet"}
	handler := ProductBySlug(&stubProductService{product: dto}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/products/cast-iron-skillet", nil), "slug", "cast-iron-skillet")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data productsvc.ProductDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Slug != dto.Slug {
		t.Fatalf("unexpected slug: %s", envelope.Data.Slug)
	}
}

func TestProductBySlugNotFound(t *testing.T) {
	svc := &stubProductService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := ProductBySlug(svc, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/products/missing", nil), "slug", "missing")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
