package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/terra-legacy/terra-backend/pkg/db/models"
	"github.com/terra-legacy/terra-backend/pkg/enums"
	pkgerrors "github.com/terra-legacy/terra-backend/pkg/errors"
	"github.com/terra-legacy/terra-backend/pkg/outbox"
	"github.com/terra-legacy/terra-backend/pkg/pagination"
)

func setupOrdersService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	db := setupOrdersTestDB(t)
	logg := ordersTestLogger()
	outboxSvc := outbox.NewService(outbox.NewRepository(db), logg)
	svc, err := NewService(db, NewRepository(db), outboxSvc, logg)
	require.NoError(t, err)
	return svc, db
}

func requireOrderCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	coded := pkgerrors.As(err)
	require.NotNil(t, coded, "expected coded error, got %v", err)
	assert.Equal(t, code, coded.Code())
}

func TestServiceGetNotFound(t *testing.T) {
	svc, _ := setupOrdersService(t)

	_, err := svc.Get(context.Background(), uuid.New())
	requireOrderCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceCancelEmitsOutboxEvent(t *testing.T) {
	svc, db := setupOrdersService(t)
	order := newOrder(t, db, "TL-204581", enums.OrderStatusPlaced, time.Now().UTC())

	dto, err := svc.Cancel(context.Background(), order.ID, "customer request")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCanceled, dto.Status)
	require.NotNil(t, dto.CanceledAt)

	var events []models.OutboxEvent
	require.NoError(t, db.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, enums.EventOrderCanceled, events[0].EventType)
	assert.Equal(t, enums.AggregateOrder, events[0].AggregateType)
	assert.Equal(t, order.ID, events[0].AggregateID)
}

func TestServiceCancelRejectsTerminalStatus(t *testing.T) {
	svc, db := setupOrdersService(t)
	order := newOrder(t, db, "TL-204582", enums.OrderStatusFulfilled, time.Now().UTC())

	_, err := svc.Cancel(context.Background(), order.ID, "")
	requireOrderCode(t, err, pkgerrors.CodeStateConflict)

	var events []models.OutboxEvent
	require.NoError(t, db.Find(&events).Error)
	assert.Empty(t, events)
}

func TestServiceFulfill(t *testing.T) {
	svc, db := setupOrdersService(t)
	order := newOrder(t, db, "TL-204583", enums.OrderStatusPlaced, time.Now().UTC())

	dto, err := svc.Fulfill(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusFulfilled, dto.Status)

	// fulfilling twice is a state conflict
	_, err = svc.Fulfill(context.Background(), order.ID)
	requireOrderCode(t, err, pkgerrors.CodeStateConflict)
}

func TestServiceListValidatesStatus(t *testing.T) {
	svc, _ := setupOrdersService(t)

	_, _, err := svc.List(context.Background(), pagination.Params{}, ListFilters{Status: enums.OrderStatus("shipped")})
	requireOrderCode(t, err, pkgerrors.CodeValidation)
}
