package cart

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/terra-legacy/terra-backend/pkg/config"
	"github.com/terra-legacy/terra-backend/pkg/db/models"
	pkgerrors "github.com/terra-legacy/terra-backend/pkg/errors"
	"github.com/terra-legacy/terra-backend/pkg/logger"
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

func (m *memoryKV) CartKey(sessionToken string) string {
	return "tl:cart:" + sessionToken
}

type stubCatalog struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubCatalog) FindActiveByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func setupCartService(t *testing.T, catalog *stubCatalog) (Service, *memoryKV) {
	t.Helper()

	kv := newMemoryKV()
	logg := testLogger()
	store := &Store{kv: kv, ttl: time.Hour, logg: logg}
	svc, err := NewService(store, catalog, config.CartConfig{MaxLineQty: 5, SnapshotTTL: time.Hour}, logg)
	require.NoError(t, err)
	return svc, kv
}

func seedProduct(priceCents int64) *models.Product {
	return &models.Product{
		ID:         uuid.New(),
		Title:      "Heirloom Tomato Seeds",
		Category:   "seeds",
		PriceCents: priceCents,
		IsActive:   true,
	}
}

func requireCartCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	coded := pkgerrors.As(err)
	require.NotNil(t, coded, "expected coded error, got %v", err)
	assert.Equal(t, code, coded.Code())
}

func TestAddItemAccumulatesAndClamps(t *testing.T) {
	product := seedProduct(1999)
	svc, _ := setupCartService(t, &stubCatalog{products: map[uuid.UUID]*models.Product{product.ID: product}})
	ctx := context.Background()

	dto, err := svc.AddItem(ctx, "sess-1", product.ID, 2)
	require.NoError(t, err)
	require.Len(t, dto.Lines, 1)
	assert.Equal(t, 2, dto.Lines[0].Qty)
	assert.Equal(t, int64(3998), dto.SubtotalCents)
	assert.Equal(t, "$39.98", dto.Subtotal)

	// adding the same product again increments the existing line
	dto, err = svc.AddItem(ctx, "sess-1", product.ID, 1)
	require.NoError(t, err)
	require.Len(t, dto.Lines, 1)
	assert.Equal(t, 3, dto.Lines[0].Qty)

	// quantity is clamped at the configured maximum
	dto, err = svc.AddItem(ctx, "sess-1", product.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, 5, dto.Lines[0].Qty)
}

func TestAddItemRejectsUnknownProduct(t *testing.T) {
	svc, _ := setupCartService(t, &stubCatalog{products: map[uuid.UUID]*models.Product{}})

	_, err := svc.AddItem(context.Background(), "sess-1", uuid.New(), 1)
	requireCartCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateQuantityRemovesOnZero(t *testing.T) {
	product := seedProduct(500)
	svc, _ := setupCartService(t, &stubCatalog{products: map[uuid.UUID]*models.Product{product.ID: product}})
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "sess-1", product.ID, 3)
	require.NoError(t, err)

	dto, err := svc.UpdateQuantity(ctx, "sess-1", product.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, dto.Lines)
	assert.Equal(t, int64(0), dto.SubtotalCents)
}

func TestRemoveMissingLineIsNoOp(t *testing.T) {
	product := seedProduct(500)
	svc, _ := setupCartService(t, &stubCatalog{products: map[uuid.UUID]*models.Product{product.ID: product}})
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "sess-1", product.ID, 1)
	require.NoError(t, err)

	dto, err := svc.RemoveItem(ctx, "sess-1", uuid.New())
	require.NoError(t, err)
	require.Len(t, dto.Lines, 1)
}

func TestClearDropsSnapshot(t *testing.T) {
	product := seedProduct(500)
	svc, kv := setupCartService(t, &stubCatalog{products: map[uuid.UUID]*models.Product{product.ID: product}})
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "sess-1", product.ID, 1)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, "sess-1"))

	assert.Empty(t, kv.data)

	dto, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, dto.Lines)
}

func TestCorruptSnapshotYieldsEmptyCart(t *testing.T) {
	product := seedProduct(500)
	svc, kv := setupCartService(t, &stubCatalog{products: map[uuid.UUID]*models.Product{product.ID: product}})
	ctx := context.Background()

	kv.data["tl:cart:sess-1"] = "{not json"

	dto, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, dto.Lines)
}

func TestCartsAreIsolatedBySession(t *testing.T) {
	product := seedProduct(500)
	svc, _ := setupCartService(t, &stubCatalog{products: map[uuid.UUID]*models.Product{product.ID: product}})
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "sess-1", product.ID, 2)
	require.NoError(t, err)

	other, err := svc.Get(ctx, "sess-2")
	require.NoError(t, err)
	assert.Empty(t, other.Lines)
}
