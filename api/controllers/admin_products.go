package controllers

import (
	"net/http"
	"strings"

	"github.com/terra-legacy/terra-backend/api/responses"
	"github.com/terra-legacy/terra-backend/api/validators"
	productsvc "github.com/terra-legacy/terra-backend/internal/products"
	"github.com/terra-legacy/terra-backend/pkg/logger"
)

type createProductRequest struct {
	Title          string   `json:"title" validate:"required,max=200"`
	Description    *string  `json:"description,omitempty"`
	Category       string   `json:"category" validate:"required"`
	Tags           []string `json:"tags,omitempty"`
	ImageURL       *string  `json:"image_url,omitempty" validate:"omitempty,url"`
	Price          string   `json:"price" validate:"required"`
	CompareAtPrice *string  `json:"compare_at_price,omitempty"`
	IsActive       *bool    `json:"is_active,omitempty"`
	IsFeatured     *bool    `json:"is_featured,omitempty"`
}

type updateProductRequest struct {
	Title          *string   `json:"title,omitempty" validate:"omitempty,max=200"`
	Description    *string   `json:"description,omitempty"`
	Category       *string   `json:"category,omitempty"`
	Tags           *[]string `json:"tags,omitempty"`
	ImageURL       *string   `json:"image_url,omitempty" validate:"omitempty,url"`
	Price          *string   `json:"price,omitempty"`
	CompareAtPrice *string   `json:"compare_at_price,omitempty"`
	IsActive       *bool     `json:"is_active,omitempty"`
	IsFeatured     *bool     `json:"is_featured,omitempty"`
}

// AdminProductList serves the full catalog, inactive entries included.
func AdminProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		featured, err := validators.ParseQueryBool(r, "featured")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := productsvc.ListFilters{
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			Featured: featured,
			Query:    strings.TrimSpace(r.URL.Query().Get("q")),
		}

		items, next, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listEnvelope{Items: items, NextCursor: next})
	}
}

// AdminProductGet serves one catalog entry by id.
func AdminProductGet(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// AdminProductCreate adds a catalog entry.
func AdminProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		isActive := true
		if body.IsActive != nil {
			isActive = *body.IsActive
		}
		isFeatured := false
		if body.IsFeatured != nil {
			isFeatured = *body.IsFeatured
		}

		product, err := svc.Create(r.Context(), productsvc.CreateInput{
			Title:          strings.TrimSpace(body.Title),
			Description:    body.Description,
			Category:       strings.TrimSpace(body.Category),
			Tags:           body.Tags,
			ImageURL:       body.ImageURL,
			Price:          strings.TrimSpace(body.Price),
			CompareAtPrice: body.CompareAtPrice,
			IsActive:       isActive,
			IsFeatured:     isFeatured,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// AdminProductUpdate applies a partial update to a catalog entry.
func AdminProductUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, productsvc.UpdateInput{
			Title:          body.Title,
			Description:    body.Description,
			Category:       body.Category,
			Tags:           body.Tags,
			ImageURL:       body.ImageURL,
			Price:          body.Price,
			CompareAtPrice: body.CompareAtPrice,
			IsActive:       body.IsActive,
			IsFeatured:     body.IsFeatured,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// AdminProductDelete removes a catalog entry.
func AdminProductDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "productId")
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
