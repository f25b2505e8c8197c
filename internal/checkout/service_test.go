package checkout

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/terra-legacy/terra-backend/internal/cart"
	"github.com/terra-legacy/terra-backend/internal/orders"
	"github.com/terra-legacy/terra-backend/pkg/config"
	"github.com/terra-legacy/terra-backend/pkg/db/models"
	"github.com/terra-legacy/terra-backend/pkg/enums"
	pkgerrors "github.com/terra-legacy/terra-backend/pkg/errors"
	"github.com/terra-legacy/terra-backend/pkg/logger"
	"github.com/terra-legacy/terra-backend/pkg/outbox"
	"github.com/terra-legacy/terra-backend/pkg/types"
)

type memoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: map[string]string{}}
}

func (m *memoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (m *memoryKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	return nil
}

func (m *memoryKV) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memoryKV) CheckoutKey(sessionToken string) string {
	return "tl:checkout:" + sessionToken
}

type stubCart struct {
	mu       sync.Mutex
	carts    map[string]*cart.Cart
	clearLog []string
}

func newStubCart() *stubCart {
	return &stubCart{carts: map[string]*cart.Cart{}}
}

func (s *stubCart) Snapshot(_ context.Context, sessionToken string) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snapshot, ok := s.carts[sessionToken]; ok {
		return snapshot, nil
	}
	return cart.NewCart(sessionToken), nil
}

func (s *stubCart) Clear(_ context.Context, sessionToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionToken)
	s.clearLog = append(s.clearLog, sessionToken)
	return nil
}

func (s *stubCart) seed(sessionToken string, lines ...cart.Line) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := cart.NewCart(sessionToken)
	snapshot.Lines = lines
	s.carts[sessionToken] = snapshot
}

func setupCheckoutDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{`
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  session_token TEXT NOT NULL,
  email TEXT NOT NULL,
  shipping_address TEXT,
  status TEXT NOT NULL DEFAULT 'placed',
  subtotal_cents INTEGER NOT NULL,
  total_cents INTEGER NOT NULL,
  item_count INTEGER NOT NULL,
  notes TEXT,
  placed_at DATETIME NOT NULL,
  canceled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT,
  title TEXT NOT NULL,
  category TEXT NOT NULL,
  image_url TEXT,
  unit_price_cents INTEGER NOT NULL,
  qty INTEGER NOT NULL,
  total_cents INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type checkoutFixture struct {
	svc   Service
	carts *stubCart
	kv    *memoryKV
	db    *gorm.DB
}

func setupCheckout(t *testing.T, cfg config.CheckoutConfig) *checkoutFixture {
	t.Helper()

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Hour
	}
	if cfg.OrderNumberPrefix == "" {
		cfg.OrderNumberPrefix = "TL-"
	}

	db := setupCheckoutDB(t)
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	kv := newMemoryKV()
	sessions := &SessionStore{kv: kv, ttl: cfg.SessionTTL, logg: logg}
	carts := newStubCart()
	ordersRepo := orders.NewRepository(db)
	outboxSvc := outbox.NewService(outbox.NewRepository(db), logg)

	svc, err := NewService(db, sessions, carts, ordersRepo, outboxSvc, cfg, logg)
	require.NoError(t, err)
	return &checkoutFixture{svc: svc, carts: carts, kv: kv, db: db}
}

func seedLine(priceCents int64, qty int) cart.Line {
	return cart.Line{
		ProductID:      uuid.New(),
		Title:          "Heirloom Tomato Seeds",
		Category:       "seeds",
		UnitPriceCents: priceCents,
		Qty:            qty,
	}
}

func shippingInput() ShippingInput {
	return ShippingInput{
		Email: "Shopper@TerraLegacy.com",
		Address: types.Address{
			FullName:   "Jordan Fields",
			Line1:      "12 Orchard Lane",
			City:       "Asheville",
			State:      "NC",
			PostalCode: "28801",
			Country:    "US",
		},
	}
}

func requireCheckoutCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	coded := pkgerrors.As(err)
	require.NotNil(t, coded, "expected coded error, got %v", err)
	assert.Equal(t, code, coded.Code())
}

func TestStartRequiresNonEmptyCart(t *testing.T) {
	fx := setupCheckout(t, config.CheckoutConfig{})

	_, err := fx.svc.Start(context.Background(), "sess-1")
	requireCheckoutCode(t, err, pkgerrors.CodeStateConflict)
}

func TestStartIsIdempotent(t *testing.T) {
	fx := setupCheckout(t, config.CheckoutConfig{})
	fx.carts.seed("sess-1", seedLine(1999, 1))
	ctx := context.Background()

	first, err := fx.svc.Start(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutStepShipping, first.CurrentStep)

	_, err = fx.svc.SubmitShipping(ctx, "sess-1", shippingInput())
	require.NoError(t, err)

	// restarting does not wipe submitted progress
	again, err := fx.svc.Start(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutStepPayment, again.CurrentStep)
	assert.Equal(t, "shopper@terralegacy.com", again.Email)
}

func TestGoToStepBlocksForwardJumps(t *testing.T) {
	fx := setupCheckout(t, config.CheckoutConfig{})
	fx.carts.seed("sess-1", seedLine(1999, 1))
	ctx := context.Background()

	_, err := fx.svc.Start(ctx, "sess-1")
	require.NoError(t, err)

	_, err = fx.svc.GoToStep(ctx, "sess-1", enums.CheckoutStepConfirmation)
	requireCheckoutCode(t, err, pkgerrors.CodeStateConflict)

	// moving back to the cart step is always allowed
	dto, err := fx.svc.GoToStep(ctx, "sess-1", enums.CheckoutStepCart)
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutStepCart, dto.CurrentStep)
}

func TestGoToStepWithArbitraryJumps(t *testing.T) {
	fx := setupCheckout(t, config.CheckoutConfig{AllowArbitraryJumps: true})
	fx.carts.seed("sess-1", seedLine(1999, 1))
	ctx := context.Background()

	_, err := fx.svc.Start(ctx, "sess-1")
	require.NoError(t, err)

	dto, err := fx.svc.GoToStep(ctx, "sess-1", enums.CheckoutStepConfirmation)
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutStepConfirmation, dto.CurrentStep)

	// jumping straight ahead still settles the steps passed over
	assert.ElementsMatch(t, []enums.CheckoutStep{
		enums.CheckoutStepCart,
		enums.CheckoutStepShipping,
		enums.CheckoutStepPayment,
	}, dto.CompletedSteps)
	require.NotEmpty(t, dto.OrderNumber)

	// the minted number survives further navigation
	back, err := fx.svc.GoToStep(ctx, "sess-1", enums.CheckoutStepCart)
	require.NoError(t, err)
	again, err := fx.svc.GoToStep(ctx, "sess-1", enums.CheckoutStepConfirmation)
	require.NoError(t, err)
	assert.Equal(t, dto.OrderNumber, again.OrderNumber)
	assert.Equal(t, enums.CheckoutStepCart, back.CurrentStep)
}

func TestSubmitShippingValidation(t *testing.T) {
	fx := setupCheckout(t, config.CheckoutConfig{})
	fx.carts.seed("sess-1", seedLine(1999, 1))
	ctx := context.Background()

	_, err := fx.svc.Start(ctx, "sess-1")
	require.NoError(t, err)

	input := shippingInput()
	input.Email = "not-an-email"
	_, err = fx.svc.SubmitShipping(ctx, "sess-1", input)
	requireCheckoutCode(t, err, pkgerrors.CodeValidation)

	input = shippingInput()
	input.Address.City = ""
	_, err = fx.svc.SubmitShipping(ctx, "sess-1", input)
	requireCheckoutCode(t, err, pkgerrors.CodeValidation)
}

func TestSubmitPaymentRequiresShipping(t *testing.T) {
	fx := setupCheckout(t, config.CheckoutConfig{})
	fx.carts.seed("sess-1", seedLine(1999, 1))
	ctx := context.Background()

	_, err := fx.svc.Start(ctx, "sess-1")
	require.NoError(t, err)

	_, err = fx.svc.SubmitPayment(ctx, "sess-1", PaymentInput{Method: "card"})
	requireCheckoutCode(t, err, pkgerrors.CodeStateConflict)
}

func TestSubmitPaymentAssignsStableOrderNumber(t *testing.T) {
	fx := setupCheckout(t, config.CheckoutConfig{})
	fx.carts.seed("sess-1", seedLine(1999, 1))
	ctx := context.Background()

	_, err := fx.svc.Start(ctx, "sess-1")
	require.NoError(t, err)
	_, err = fx.svc.SubmitShipping(ctx, "sess-1", shippingInput())
	require.NoError(t, err)

	first, err := fx.svc.SubmitPayment(ctx, "sess-1", PaymentInput{Method: "card"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(first.OrderNumber, "TL-"), "got %q", first.OrderNumber)
	require.Len(t, first.OrderNumber, len("TL-")+6)

	second, err := fx.svc.SubmitPayment(ctx, "sess-1", PaymentInput{Method: "paypal"})
	require.NoError(t, err)
	assert.Equal(t, first.OrderNumber, second.OrderNumber)
}

func TestPlaceOrderHappyPath(t *testing.T) {
	fx := setupCheckout(t, config.CheckoutConfig{})
	fx.carts.seed("sess-1", seedLine(1250, 2))
	ctx := context.Background()

	_, err := fx.svc.Start(ctx, "sess-1")
	require.NoError(t, err)
	_, err = fx.svc.SubmitShipping(ctx, "sess-1", shippingInput())
	require.NoError(t, err)
	session, err := fx.svc.SubmitPayment(ctx, "sess-1", PaymentInput{Method: "card"})
	require.NoError(t, err)

	order, err := fx.svc.PlaceOrder(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, session.OrderNumber, order.OrderNumber)
	assert.Equal(t, enums.OrderStatusPlaced, order.Status)
	assert.Equal(t, int64(2500), order.TotalCents)
	assert.Equal(t, "$25.00", order.Total)
	assert.Equal(t, 2, order.ItemCount)
	require.Len(t, order.Items, 1)

	// cart and wizard state are discarded once the order is durable
	assert.Contains(t, fx.carts.clearLog, "sess-1")
	assert.Empty(t, fx.kv.data)

	var events []models.OutboxEvent
	require.NoError(t, fx.db.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, enums.EventOrderCreated, events[0].EventType)

	// the wizard is gone, a second confirmation cannot start from nothing
	_, err = fx.svc.PlaceOrder(ctx, "sess-1")
	requireCheckoutCode(t, err, pkgerrors.CodeStateConflict)
}

func TestPlaceOrderRetryReturnsExistingOrder(t *testing.T) {
	fx := setupCheckout(t, config.CheckoutConfig{})
	fx.carts.seed("sess-1", seedLine(1250, 2))
	ctx := context.Background()

	_, err := fx.svc.Start(ctx, "sess-1")
	require.NoError(t, err)
	_, err = fx.svc.SubmitShipping(ctx, "sess-1", shippingInput())
	require.NoError(t, err)
	_, err = fx.svc.SubmitPayment(ctx, "sess-1", PaymentInput{Method: "card"})
	require.NoError(t, err)

	// keep a copy of the wizard state to simulate a client retry where the
	// cleanup after the first placement never reached Redis
	stash := fx.kv.data["tl:checkout:sess-1"]

	first, err := fx.svc.PlaceOrder(ctx, "sess-1")
	require.NoError(t, err)

	fx.kv.data["tl:checkout:sess-1"] = stash
	second, err := fx.svc.PlaceOrder(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, first.OrderNumber, second.OrderNumber)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, fx.db.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
