package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/terra-legacy/terra-backend/pkg/db/models"
	"github.com/terra-legacy/terra-backend/pkg/enums"
	"github.com/terra-legacy/terra-backend/pkg/money"
	"github.com/terra-legacy/terra-backend/pkg/types"
)

// LineItemDTO is the transport shape for an order line.
type LineItemDTO struct {
	ID             uuid.UUID  `json:"id"`
	ProductID      *uuid.UUID `json:"product_id,omitempty"`
	Title          string     `json:"title"`
	Category       string     `json:"category"`
	ImageURL       *string    `json:"image_url,omitempty"`
	UnitPriceCents int64      `json:"unit_price_cents"`
	UnitPrice      string     `json:"unit_price"`
	Qty            int        `json:"qty"`
	TotalCents     int64      `json:"total_cents"`
	Total          string     `json:"total"`
}

// OrderDTO is the transport shape for an order.
type OrderDTO struct {
	ID              uuid.UUID         `json:"id"`
	OrderNumber     string            `json:"order_number"`
	Email           string            `json:"email"`
	ShippingAddress *types.Address    `json:"shipping_address,omitempty"`
	Status          enums.OrderStatus `json:"status"`
	SubtotalCents   int64             `json:"subtotal_cents"`
	Subtotal        string            `json:"subtotal"`
	TotalCents      int64             `json:"total_cents"`
	Total           string            `json:"total"`
	ItemCount       int               `json:"item_count"`
	Notes           *string           `json:"notes,omitempty"`
	Items           []LineItemDTO     `json:"items"`
	PlacedAt        time.Time         `json:"placed_at"`
	CanceledAt      *time.Time        `json:"canceled_at,omitempty"`
}

// NewOrderDTO maps the model into its transport shape.
func NewOrderDTO(order *models.Order) *OrderDTO {
	items := make([]LineItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, LineItemDTO{
			ID:             item.ID,
			ProductID:      item.ProductID,
			Title:          item.Title,
			Category:       item.Category,
			ImageURL:       item.ImageURL,
			UnitPriceCents: item.UnitPriceCents,
			UnitPrice:      money.FormatCents(item.UnitPriceCents),
			Qty:            item.Qty,
			TotalCents:     item.TotalCents,
			Total:          money.FormatCents(item.TotalCents),
		})
	}
	return &OrderDTO{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		Email:           order.Email,
		ShippingAddress: order.ShippingAddress,
		Status:          order.Status,
		SubtotalCents:   order.SubtotalCents,
		Subtotal:        money.FormatCents(order.SubtotalCents),
		TotalCents:      order.TotalCents,
		Total:           money.FormatCents(order.TotalCents),
		ItemCount:       order.ItemCount,
		Notes:           order.Notes,
		Items:           items,
		PlacedAt:        order.PlacedAt,
		CanceledAt:      order.CanceledAt,
	}
}

// NewOrderDTOs maps a slice of orders.
func NewOrderDTOs(orders []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, *NewOrderDTO(&orders[i]))
	}
	return out
}
