package cart

import (
	"time"

	"github.com/google/uuid"
)

// Line is a single product entry inside a session cart.
type Line struct {
	ProductID      uuid.UUID `json:"product_id"`
	Title          string    `json:"title"`
	Category       string    `json:"category"`
	ImageURL       *string   `json:"image_url,omitempty"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Qty            int       `json:"qty"`
}

// TotalCents returns the extended price for the line.
func (l Line) TotalCents() int64 {
	return l.UnitPriceCents * int64(l.Qty)
}

// Cart is the full snapshot stored per browser session.
type Cart struct {
	SessionToken string    `json:"session_token"`
	Lines        []Line    `json:"lines"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewCart returns an empty cart bound to the session token.
func NewCart(sessionToken string) *Cart {
	return &Cart{
		SessionToken: sessionToken,
		Lines:        []Line{},
	}
}

// SubtotalCents derives the cart subtotal from its lines.
func (c *Cart) SubtotalCents() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.TotalCents()
	}
	return total
}

// ItemCount returns the sum of all line quantities.
func (c *Cart) ItemCount() int {
	var count int
	for _, line := range c.Lines {
		count += line.Qty
	}
	return count
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) lineIndex(productID uuid.UUID) int {
	for i, line := range c.Lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}
