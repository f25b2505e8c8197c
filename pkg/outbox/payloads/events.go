package payloads

import (
	"time"

	"github.com/google/uuid"
)

// OrderCreatedEvent signals a completed checkout session.
type OrderCreatedEvent struct {
	OrderID       uuid.UUID `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	Email         string    `json:"email"`
	ItemCount     int       `json:"item_count"`
	SubtotalCents int64     `json:"subtotal_cents"`
	TotalCents    int64     `json:"total_cents"`
	PlacedAt      time.Time `json:"placed_at"`
}

// OrderCanceledEvent is emitted when an order is canceled before fulfillment.
type OrderCanceledEvent struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	CanceledAt  time.Time `json:"canceled_at"`
	Reason      string    `json:"reason,omitempty"`
}

// ForumTopicCreatedEvent tells downstream systems a new discussion thread exists.
type ForumTopicCreatedEvent struct {
	TopicID    uuid.UUID `json:"topic_id"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	AuthorName string    `json:"author_name"`
}
