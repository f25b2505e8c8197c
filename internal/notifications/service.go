package notifications

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/terra-legacy/terra-backend/pkg/errors"
	"github.com/terra-legacy/terra-backend/pkg/pagination"
)

// Service exposes the back office notification feed.
type Service interface {
	List(ctx context.Context, params pagination.Params, filters ListFilters) ([]NotificationDTO, string, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context) (int64, error)
}

type service struct {
	repo *Repository
}

// NewService wires the notification service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, stderrors.New("notifications repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) ([]NotificationDTO, string, error) {
	rows, next, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, "", errors.Wrap(errors.CodeDependency, err, "listing notifications")
	}
	return NewNotificationDTOs(rows), next, nil
}

func (s *service) MarkRead(ctx context.Context, id uuid.UUID) error {
	mark, err := s.repo.MarkRead(ctx, id, time.Now().UTC())
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "marking notification read")
	}
	if !mark.Found {
		return errors.New(errors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context) (int64, error) {
	updated, err := s.repo.MarkAllRead(ctx, time.Now().UTC())
	if err != nil {
		return 0, errors.Wrap(errors.CodeDependency, err, "marking notifications read")
	}
	return updated, nil
}
