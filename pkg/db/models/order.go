package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/terra-legacy/terra-backend/pkg/enums"
	"github.com/terra-legacy/terra-backend/pkg/types"
)

// Order is the durable record produced when a checkout session completes.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber     string            `gorm:"column:order_number;not null;uniqueIndex"`
	SessionToken    string            `gorm:"column:session_token;not null;index"`
	Email           string            `gorm:"column:email;not null"`
	ShippingAddress *types.Address    `gorm:"column:shipping_address;type:jsonb"`
	Status          enums.OrderStatus `gorm:"column:status;type:text;not null;default:'placed'"`
	SubtotalCents   int64             `gorm:"column:subtotal_cents;not null"`
	TotalCents      int64             `gorm:"column:total_cents;not null"`
	ItemCount       int               `gorm:"column:item_count;not null"`
	Notes           *string           `gorm:"column:notes"`
	Items           []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PlacedAt        time.Time         `gorm:"column:placed_at;not null"`
	CanceledAt      *time.Time        `gorm:"column:canceled_at"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
