package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/terra-legacy/terra-backend/pkg/db/models"
	"github.com/terra-legacy/terra-backend/pkg/money"
)

// ProductDTO represents the product payload returned to clients.
type ProductDTO struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Slug             string    `json:"slug"`
	Description      *string   `json:"description,omitempty"`
	Category         string    `json:"category"`
	Tags             []string  `json:"tags"`
	ImageURL         *string   `json:"image_url,omitempty"`
	PriceCents       int64     `json:"price_cents"`
	Price            string    `json:"price"`
	CompareAtCents   *int64    `json:"compare_at_price_cents,omitempty"`
	CompareAtDisplay *string   `json:"compare_at_price,omitempty"`
	IsActive         bool      `json:"is_active"`
	IsFeatured       bool      `json:"is_featured"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:             product.ID,
		Title:          product.Title,
		Slug:           product.Slug,
		Description:    product.Description,
		Category:       product.Category,
		Tags:           append([]string{}, product.Tags...),
		ImageURL:       product.ImageURL,
		PriceCents:     product.PriceCents,
		Price:          money.FormatCents(product.PriceCents),
		CompareAtCents: product.CompareAtPriceCents,
		IsActive:       product.IsActive,
		IsFeatured:     product.IsFeatured,
		CreatedAt:      product.CreatedAt,
		UpdatedAt:      product.UpdatedAt,
	}
	if product.CompareAtPriceCents != nil {
		display := money.FormatCents(*product.CompareAtPriceCents)
		dto.CompareAtDisplay = &display
	}
	return dto
}

// NewProductDTOs maps a slice of models.
func NewProductDTOs(products []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, *NewProductDTO(&products[i]))
	}
	return out
}
