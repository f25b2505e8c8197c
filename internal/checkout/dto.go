package checkout

import (
	"time"

	"github.com/terra-legacy/terra-backend/pkg/enums"
	"github.com/terra-legacy/terra-backend/pkg/types"
)

// SessionDTO is the transport shape for the checkout wizard state.
type SessionDTO struct {
	SessionToken    string               `json:"session_token"`
	Steps           []enums.CheckoutStep `json:"steps"`
	CurrentStep     enums.CheckoutStep   `json:"current_step"`
	CompletedSteps  []enums.CheckoutStep `json:"completed_steps"`
	Email           string               `json:"email,omitempty"`
	ShippingAddress *types.Address       `json:"shipping_address,omitempty"`
	PaymentMethod   string               `json:"payment_method,omitempty"`
	OrderNumber     string               `json:"order_number,omitempty"`
	Notes           *string              `json:"notes,omitempty"`
	StartedAt       time.Time            `json:"started_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// NewSessionDTO maps the stored session into its transport shape.
func NewSessionDTO(session *Session) *SessionDTO {
	return &SessionDTO{
		SessionToken:    session.SessionToken,
		Steps:           enums.CheckoutSteps,
		CurrentStep:     session.CurrentStep,
		CompletedSteps:  session.CompletedSteps(),
		Email:           session.Email,
		ShippingAddress: session.ShippingAddress,
		PaymentMethod:   session.PaymentMethod,
		OrderNumber:     session.OrderNumber,
		Notes:           session.Notes,
		StartedAt:       session.StartedAt,
		UpdatedAt:       session.UpdatedAt,
	}
}
