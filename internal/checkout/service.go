package checkout

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/terra-legacy/terra-backend/internal/cart"
	"github.com/terra-legacy/terra-backend/internal/orders"
	"github.com/terra-legacy/terra-backend/pkg/config"
	"github.com/terra-legacy/terra-backend/pkg/db/models"
	"github.com/terra-legacy/terra-backend/pkg/enums"
	"github.com/terra-legacy/terra-backend/pkg/errors"
	"github.com/terra-legacy/terra-backend/pkg/logger"
	"github.com/terra-legacy/terra-backend/pkg/outbox"
	"github.com/terra-legacy/terra-backend/pkg/outbox/payloads"
	"github.com/terra-legacy/terra-backend/pkg/types"
)

var allowedPaymentMethods = map[string]bool{
	"card":   true,
	"paypal": true,
	"cod":    true,
}

// ShippingInput carries the shipping step submission.
type ShippingInput struct {
	Email   string
	Address types.Address
}

// PaymentInput carries the payment step submission. Payment capture itself
// happens off-platform, the wizard only records the chosen method.
type PaymentInput struct {
	Method string
	Notes  *string
}

// Service drives the multi-step checkout wizard.
type Service interface {
	Start(ctx context.Context, sessionToken string) (*SessionDTO, error)
	Get(ctx context.Context, sessionToken string) (*SessionDTO, error)
	GoToStep(ctx context.Context, sessionToken string, step enums.CheckoutStep) (*SessionDTO, error)
	SubmitShipping(ctx context.Context, sessionToken string, input ShippingInput) (*SessionDTO, error)
	SubmitPayment(ctx context.Context, sessionToken string, input PaymentInput) (*SessionDTO, error)
	PlaceOrder(ctx context.Context, sessionToken string) (*orders.OrderDTO, error)
	Abandon(ctx context.Context, sessionToken string) error
}

type cartReader interface {
	Snapshot(ctx context.Context, sessionToken string) (*cart.Cart, error)
	Clear(ctx context.Context, sessionToken string) error
}

type service struct {
	db         *gorm.DB
	sessions   *SessionStore
	carts      cartReader
	ordersRepo *orders.Repository
	outbox     *outbox.Service
	numbers    *NumberGenerator
	allowJumps bool
	logg       *logger.Logger
}

// NewService wires the checkout service with its session, cart and order deps.
func NewService(
	db *gorm.DB,
	sessions *SessionStore,
	carts cartReader,
	ordersRepo *orders.Repository,
	outboxSvc *outbox.Service,
	cfg config.CheckoutConfig,
	logg *logger.Logger,
) (Service, error) {
	if db == nil {
		return nil, stderrors.New("db is required")
	}
	if sessions == nil {
		return nil, stderrors.New("session store is required")
	}
	if carts == nil {
		return nil, stderrors.New("cart reader is required")
	}
	if ordersRepo == nil {
		return nil, stderrors.New("order repository is required")
	}
	if outboxSvc == nil {
		return nil, stderrors.New("outbox service is required")
	}
	if logg == nil {
		return nil, stderrors.New("logger is required")
	}
	numbers, err := NewNumberGenerator(cfg.OrderNumberPrefix, ordersRepo.ExistsByOrderNumber)
	if err != nil {
		return nil, err
	}
	return &service{
		db:         db,
		sessions:   sessions,
		carts:      carts,
		ordersRepo: ordersRepo,
		outbox:     outboxSvc,
		numbers:    numbers,
		allowJumps: cfg.AllowArbitraryJumps,
		logg:       logg,
	}, nil
}

func (s *service) Start(ctx context.Context, sessionToken string) (*SessionDTO, error) {
	if strings.TrimSpace(sessionToken) == "" {
		return nil, errors.New(errors.CodeValidation, "session token is required")
	}

	snapshot, err := s.carts.Snapshot(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	if snapshot.IsEmpty() {
		return nil, errors.New(errors.CodeStateConflict, "cannot start checkout with an empty cart")
	}

	// restarting keeps an in-flight session rather than wiping progress
	session, err := s.sessions.Load(ctx, sessionToken)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading checkout session")
	}
	if session == nil {
		session = NewSession(sessionToken)
		session.MarkCompleted(enums.CheckoutStepCart)
		session.CurrentStep = enums.CheckoutStepShipping
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, errors.Wrap(errors.CodeDependency, err, "saving checkout session")
		}
	}
	return NewSessionDTO(session), nil
}

func (s *service) Get(ctx context.Context, sessionToken string) (*SessionDTO, error) {
	session, err := s.load(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	return NewSessionDTO(session), nil
}

func (s *service) GoToStep(ctx context.Context, sessionToken string, step enums.CheckoutStep) (*SessionDTO, error) {
	if !step.IsValid() {
		return nil, errors.New(errors.CodeValidation, fmt.Sprintf("invalid checkout step %q", step))
	}
	session, err := s.load(ctx, sessionToken)
	if err != nil {
		return nil, err
	}

	if err := s.checkNavigation(session, step); err != nil {
		return nil, err
	}

	session.CurrentStep = step
	// every step below the active one counts as completed, regardless of
	// how the shopper got here
	for _, lower := range enums.CheckoutSteps[:step.Ordinal()] {
		session.MarkCompleted(lower)
	}
	if step == enums.CheckoutStepConfirmation && session.OrderNumber == "" {
		number, err := s.numbers.Next(ctx)
		if err != nil {
			return nil, errors.Wrap(errors.CodeDependency, err, "assigning order number")
		}
		session.OrderNumber = number
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "saving checkout session")
	}
	return NewSessionDTO(session), nil
}

func (s *service) checkNavigation(session *Session, target enums.CheckoutStep) error {
	if s.allowJumps {
		return nil
	}
	current := session.CurrentStep.Ordinal()
	wanted := target.Ordinal()

	// moving backward is always allowed
	if wanted <= current {
		return nil
	}
	if wanted > current+1 {
		return errors.New(errors.CodeStateConflict,
			fmt.Sprintf("cannot jump from %s to %s", session.CurrentStep, target))
	}
	for _, step := range enums.CheckoutSteps[:wanted] {
		if !session.IsCompleted(step) {
			return errors.New(errors.CodeStateConflict,
				fmt.Sprintf("step %s must be completed before %s", step, target))
		}
	}
	return nil
}

func (s *service) SubmitShipping(ctx context.Context, sessionToken string, input ShippingInput) (*SessionDTO, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" {
		return nil, errors.New(errors.CodeValidation, "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errors.New(errors.CodeValidation, "email is invalid")
	}
	if err := input.Address.Validate(); err != nil {
		return nil, errors.Wrap(errors.CodeValidation, err, "shipping address is invalid")
	}

	session, err := s.load(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	if err := s.checkNavigation(session, enums.CheckoutStepShipping); err != nil {
		return nil, err
	}

	address := input.Address
	session.Email = email
	session.ShippingAddress = &address
	session.MarkCompleted(enums.CheckoutStepShipping)
	session.CurrentStep = enums.CheckoutStepPayment

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "saving checkout session")
	}
	return NewSessionDTO(session), nil
}

func (s *service) SubmitPayment(ctx context.Context, sessionToken string, input PaymentInput) (*SessionDTO, error) {
	method := strings.TrimSpace(strings.ToLower(input.Method))
	if !allowedPaymentMethods[method] {
		return nil, errors.New(errors.CodeValidation, fmt.Sprintf("unsupported payment method %q", input.Method))
	}

	session, err := s.load(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	if !session.IsCompleted(enums.CheckoutStepShipping) {
		return nil, errors.New(errors.CodeStateConflict, "shipping must be completed before payment")
	}

	session.PaymentMethod = method
	session.Notes = input.Notes
	session.MarkCompleted(enums.CheckoutStepPayment)
	session.CurrentStep = enums.CheckoutStepConfirmation

	// the public order number is minted once and survives retries
	if session.OrderNumber == "" {
		number, err := s.numbers.Next(ctx)
		if err != nil {
			return nil, errors.Wrap(errors.CodeDependency, err, "assigning order number")
		}
		session.OrderNumber = number
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "saving checkout session")
	}
	return NewSessionDTO(session), nil
}

func (s *service) PlaceOrder(ctx context.Context, sessionToken string) (*orders.OrderDTO, error) {
	session, err := s.load(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	if !session.IsCompleted(enums.CheckoutStepPayment) {
		return nil, errors.New(errors.CodeStateConflict, "payment must be completed before placing the order")
	}

	// a retried confirmation returns the already-placed order
	if session.OrderNumber != "" {
		existing, err := s.ordersRepo.FindByOrderNumber(ctx, session.OrderNumber)
		if err == nil {
			s.finish(ctx, sessionToken)
			return orders.NewOrderDTO(existing), nil
		}
		if !stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(errors.CodeDependency, err, "looking up order")
		}
	}

	snapshot, err := s.carts.Snapshot(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	if snapshot.IsEmpty() {
		return nil, errors.New(errors.CodeStateConflict, "cannot place an order from an empty cart")
	}

	if session.OrderNumber == "" {
		number, err := s.numbers.Next(ctx)
		if err != nil {
			return nil, errors.Wrap(errors.CodeDependency, err, "assigning order number")
		}
		session.OrderNumber = number
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, errors.Wrap(errors.CodeDependency, err, "saving checkout session")
		}
	}

	order := buildOrder(session, snapshot)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.ordersRepo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			OccurredAt:    order.PlacedAt,
			Data: payloads.OrderCreatedEvent{
				OrderID:       order.ID,
				OrderNumber:   order.OrderNumber,
				Email:         order.Email,
				ItemCount:     order.ItemCount,
				SubtotalCents: order.SubtotalCents,
				TotalCents:    order.TotalCents,
				PlacedAt:      order.PlacedAt,
			},
		})
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "placing order")
	}

	s.finish(ctx, sessionToken)
	s.logg.Info(s.logg.WithField(ctx, "order_number", order.OrderNumber), "order placed")
	return orders.NewOrderDTO(order), nil
}

func (s *service) Abandon(ctx context.Context, sessionToken string) error {
	if strings.TrimSpace(sessionToken) == "" {
		return errors.New(errors.CodeValidation, "session token is required")
	}
	if err := s.sessions.Clear(ctx, sessionToken); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "clearing checkout session")
	}
	return nil
}

func (s *service) load(ctx context.Context, sessionToken string) (*Session, error) {
	if strings.TrimSpace(sessionToken) == "" {
		return nil, errors.New(errors.CodeValidation, "session token is required")
	}
	session, err := s.sessions.Load(ctx, sessionToken)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading checkout session")
	}
	if session == nil {
		return nil, errors.New(errors.CodeStateConflict, "checkout has not been started")
	}
	return session, nil
}

// finish clears the cart and wizard state after an order exists. The order is
// already durable, so cleanup failures are logged rather than surfaced.
func (s *service) finish(ctx context.Context, sessionToken string) {
	if err := s.carts.Clear(ctx, sessionToken); err != nil {
		s.logg.Error(s.logg.WithSessionID(ctx, sessionToken), "clearing cart after checkout", err)
	}
	if err := s.sessions.Clear(ctx, sessionToken); err != nil {
		s.logg.Error(s.logg.WithSessionID(ctx, sessionToken), "clearing checkout session", err)
	}
}

func buildOrder(session *Session, snapshot *cart.Cart) *models.Order {
	now := time.Now().UTC()
	items := make([]models.OrderLineItem, 0, len(snapshot.Lines))
	for _, line := range snapshot.Lines {
		productID := line.ProductID
		items = append(items, models.OrderLineItem{
			ID:             uuid.New(),
			ProductID:      &productID,
			Title:          line.Title,
			Category:       line.Category,
			ImageURL:       line.ImageURL,
			UnitPriceCents: line.UnitPriceCents,
			Qty:            line.Qty,
			TotalCents:     line.TotalCents(),
		})
	}
	subtotal := snapshot.SubtotalCents()
	return &models.Order{
		ID:              uuid.New(),
		OrderNumber:     session.OrderNumber,
		SessionToken:    session.SessionToken,
		Email:           session.Email,
		ShippingAddress: session.ShippingAddress,
		Status:          enums.OrderStatusPlaced,
		SubtotalCents:   subtotal,
		TotalCents:      subtotal,
		ItemCount:       snapshot.ItemCount(),
		Notes:           session.Notes,
		Items:           items,
		PlacedAt:        now,
	}
}
