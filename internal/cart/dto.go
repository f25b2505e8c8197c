package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/terra-legacy/terra-backend/pkg/money"
)

// LineDTO is the transport shape for a single cart line.
type LineDTO struct {
	ProductID      uuid.UUID `json:"product_id"`
	Title          string    `json:"title"`
	Category       string    `json:"category"`
	ImageURL       *string   `json:"image_url,omitempty"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	UnitPrice      string    `json:"unit_price"`
	Qty            int       `json:"qty"`
	TotalCents     int64     `json:"total_cents"`
	Total          string    `json:"total"`
}

// CartDTO is the transport shape for the whole cart.
type CartDTO struct {
	SessionToken  string    `json:"session_token"`
	Lines         []LineDTO `json:"lines"`
	ItemCount     int       `json:"item_count"`
	SubtotalCents int64     `json:"subtotal_cents"`
	Subtotal      string    `json:"subtotal"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewCartDTO maps the snapshot into its transport shape with display prices.
func NewCartDTO(snapshot *Cart) *CartDTO {
	lines := make([]LineDTO, 0, len(snapshot.Lines))
	for _, line := range snapshot.Lines {
		lines = append(lines, LineDTO{
			ProductID:      line.ProductID,
			Title:          line.Title,
			Category:       line.Category,
			ImageURL:       line.ImageURL,
			UnitPriceCents: line.UnitPriceCents,
			UnitPrice:      money.FormatCents(line.UnitPriceCents),
			Qty:            line.Qty,
			TotalCents:     line.TotalCents(),
			Total:          money.FormatCents(line.TotalCents()),
		})
	}
	return &CartDTO{
		SessionToken:  snapshot.SessionToken,
		Lines:         lines,
		ItemCount:     snapshot.ItemCount(),
		SubtotalCents: snapshot.SubtotalCents(),
		Subtotal:      money.FormatCents(snapshot.SubtotalCents()),
		UpdatedAt:     snapshot.UpdatedAt,
	}
}
