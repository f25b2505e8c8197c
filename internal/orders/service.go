package orders

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/terra-legacy/terra-backend/pkg/enums"
	"github.com/terra-legacy/terra-backend/pkg/errors"
	"github.com/terra-legacy/terra-backend/pkg/logger"
	"github.com/terra-legacy/terra-backend/pkg/outbox"
	"github.com/terra-legacy/terra-backend/pkg/outbox/payloads"
	"github.com/terra-legacy/terra-backend/pkg/pagination"
)

// Service exposes order administration and lookup operations.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	GetByNumber(ctx context.Context, orderNumber string) (*OrderDTO, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) ([]OrderDTO, string, error)
	Fulfill(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string) (*OrderDTO, error)
}

type service struct {
	db     *gorm.DB
	repo   *Repository
	outbox *outbox.Service
	logg   *logger.Logger
}

// NewService wires the order service with its persistence and event deps.
func NewService(db *gorm.DB, repo *Repository, outboxSvc *outbox.Service, logg *logger.Logger) (Service, error) {
	if db == nil {
		return nil, stderrors.New("db is required")
	}
	if repo == nil {
		return nil, stderrors.New("order repository is required")
	}
	if outboxSvc == nil {
		return nil, stderrors.New("outbox service is required")
	}
	if logg == nil {
		return nil, stderrors.New("logger is required")
	}
	return &service{db: db, repo: repo, outbox: outboxSvc, logg: logg}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, "loading order")
	}
	return NewOrderDTO(order), nil
}

func (s *service) GetByNumber(ctx context.Context, orderNumber string) (*OrderDTO, error) {
	trimmed := strings.TrimSpace(orderNumber)
	if trimmed == "" {
		return nil, errors.New(errors.CodeValidation, "order number is required")
	}
	order, err := s.repo.FindByOrderNumber(ctx, trimmed)
	if err != nil {
		return nil, notFoundOrDependency(err, "loading order")
	}
	return NewOrderDTO(order), nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) ([]OrderDTO, string, error) {
	if filters.Status != "" && !filters.Status.IsValid() {
		return nil, "", errors.New(errors.CodeValidation, fmt.Sprintf("invalid order status %q", filters.Status))
	}
	rows, next, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, "", errors.Wrap(errors.CodeDependency, err, "listing orders")
	}
	return NewOrderDTOs(rows), next, nil
}

func (s *service) Fulfill(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, "loading order")
	}
	if order.Status.IsTerminal() {
		return nil, errors.New(errors.CodeStateConflict,
			fmt.Sprintf("order %s cannot be fulfilled from status %s", order.OrderNumber, order.Status))
	}

	order.Status = enums.OrderStatusFulfilled
	if _, err := s.repo.Save(ctx, order); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "updating order")
	}
	return NewOrderDTO(order), nil
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID, reason string) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, "loading order")
	}
	if order.Status.IsTerminal() {
		return nil, errors.New(errors.CodeStateConflict,
			fmt.Sprintf("order %s cannot be canceled from status %s", order.OrderNumber, order.Status))
	}

	now := time.Now().UTC()
	order.Status = enums.OrderStatusCanceled
	order.CanceledAt = &now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Save(ctx, order); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCanceled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			OccurredAt:    now,
			Data: payloads.OrderCanceledEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				CanceledAt:  now,
				Reason:      strings.TrimSpace(reason),
			},
		})
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "canceling order")
	}

	s.logg.Info(s.logg.WithField(ctx, "order_number", order.OrderNumber), "order canceled")
	return NewOrderDTO(order), nil
}

func notFoundOrDependency(err error, action string) error {
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.New(errors.CodeNotFound, "order not found")
	}
	return errors.Wrap(errors.CodeDependency, err, action)
}
