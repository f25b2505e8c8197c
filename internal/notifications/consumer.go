package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/terra-legacy/terra-backend/pkg/db/models"
	"github.com/terra-legacy/terra-backend/pkg/enums"
	"github.com/terra-legacy/terra-backend/pkg/logger"
	"github.com/terra-legacy/terra-backend/pkg/money"
	"github.com/terra-legacy/terra-backend/pkg/outbox"
	"github.com/terra-legacy/terra-backend/pkg/outbox/payloads"
	"github.com/terra-legacy/terra-backend/pkg/outbox/registry"
)

const orderNotificationConsumer = "order-notifications"

type repository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

type idempotencyChecker interface {
	CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error)
	Delete(ctx context.Context, consumer string, eventID uuid.UUID) error
}

// Consumer watches order events and turns them into back office notifications.
type Consumer struct {
	repo         repository
	subscription *gcppubsub.Subscriber
	decoders     *registry.DecoderRegistry
	idempotency  idempotencyChecker
	logg         *logger.Logger
}

// NewConsumer builds an order notification consumer with its payload decoders
// registered.
func NewConsumer(repo repository, subscription *gcppubsub.Subscriber, manager idempotencyChecker, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, errors.New("notifications repository is required")
	}
	if subscription == nil {
		return nil, errors.New("orders subscription is required")
	}
	if manager == nil {
		return nil, errors.New("idempotency manager is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Consumer{
		repo:         repo,
		subscription: subscription,
		decoders:     newOrderEventDecoders(),
		idempotency:  manager,
		logg:         logg,
	}, nil
}

func newOrderEventDecoders() *registry.DecoderRegistry {
	decoders := registry.NewDecoderRegistry()
	decoders.Register(enums.EventOrderCreated, 1, func(payload json.RawMessage) (interface{}, error) {
		var event payloads.OrderCreatedEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, err
		}
		return event, nil
	})
	decoders.Register(enums.EventOrderCanceled, 1, func(payload json.RawMessage) (interface{}, error) {
		var event payloads.OrderCanceledEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, err
		}
		return event, nil
	})
	return decoders
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *gcppubsub.Message) {
		if c.process(ctx, msg).nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *gcppubsub.Message) processResult {
	rawType := strings.TrimSpace(msg.Attributes["event_type"])
	fields := map[string]any{
		"message_id": msg.ID,
		"event_type": rawType,
	}
	logCtx := c.logg.WithFields(ctx, fields)

	eventType, err := enums.ParseOutboxEventType(rawType)
	if err != nil {
		c.logg.Warn(logCtx, "unrecognized event type")
		return processResult{}
	}
	if eventType != enums.EventOrderCreated && eventType != enums.EventOrderCanceled {
		c.logg.Info(logCtx, "skipping non-order event")
		return processResult{}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{}
	}
	logCtx = c.logg.WithFields(logCtx, map[string]any{"event_id": envelope.EventID})

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, orderNotificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{}
	}

	payload, err := c.decoders.Decode(eventType, envelope.Version, envelope.Data)
	if err != nil {
		// A payload we cannot decode will never decode on redelivery.
		c.logg.Error(logCtx, "failed to decode payload", err)
		return processResult{}
	}

	if err := c.handlePayload(ctx, payload, logCtx); err != nil {
		c.logg.Error(logCtx, "notification handling failed", err)
		_ = c.idempotency.Delete(ctx, orderNotificationConsumer, eventID)
		return processResult{nack: true}
	}

	c.logg.Info(logCtx, "order event handled")
	return processResult{}
}

func (c *Consumer) handlePayload(ctx context.Context, payload interface{}, logCtx context.Context) error {
	switch event := payload.(type) {
	case payloads.OrderCreatedEvent:
		return c.createOrderPlacedNotification(ctx, event)
	case payloads.OrderCanceledEvent:
		return c.createOrderCanceledNotification(ctx, event)
	default:
		c.logg.Info(logCtx, "payload not handled")
		return nil
	}
}

func (c *Consumer) createOrderPlacedNotification(ctx context.Context, event payloads.OrderCreatedEvent) error {
	if event.OrderID == uuid.Nil {
		return fmt.Errorf("order id missing")
	}
	link := fmt.Sprintf("/admin/orders/%s", event.OrderID)
	message := fmt.Sprintf("Order %s placed by %s for %s (%d items).",
		event.OrderNumber, event.Email, money.FormatCents(event.TotalCents), event.ItemCount)
	return c.repo.Create(ctx, &models.Notification{
		ID:      uuid.New(),
		Type:    enums.NotificationTypeOrder,
		Title:   "New order placed",
		Message: message,
		Link:    stringPtr(link),
	})
}

func (c *Consumer) createOrderCanceledNotification(ctx context.Context, event payloads.OrderCanceledEvent) error {
	if event.OrderID == uuid.Nil {
		return fmt.Errorf("order id missing")
	}
	link := fmt.Sprintf("/admin/orders/%s", event.OrderID)
	message := fmt.Sprintf("Order %s was canceled.", event.OrderNumber)
	if reason := strings.TrimSpace(event.Reason); reason != "" {
		message = fmt.Sprintf("Order %s was canceled. Reason: %s", event.OrderNumber, reason)
	}
	return c.repo.Create(ctx, &models.Notification{
		ID:      uuid.New(),
		Type:    enums.NotificationTypeOrder,
		Title:   "Order canceled",
		Message: message,
		Link:    stringPtr(link),
	})
}

func stringPtr(value string) *string {
	return &value
}
