package cart

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/terra-legacy/terra-backend/pkg/config"
	"github.com/terra-legacy/terra-backend/pkg/db/models"
	"github.com/terra-legacy/terra-backend/pkg/errors"
	"github.com/terra-legacy/terra-backend/pkg/logger"
)

// Service exposes the session cart operations.
type Service interface {
	Get(ctx context.Context, sessionToken string) (*CartDTO, error)
	AddItem(ctx context.Context, sessionToken string, productID uuid.UUID, qty int) (*CartDTO, error)
	UpdateQuantity(ctx context.Context, sessionToken string, productID uuid.UUID, qty int) (*CartDTO, error)
	RemoveItem(ctx context.Context, sessionToken string, productID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, sessionToken string) error
	Snapshot(ctx context.Context, sessionToken string) (*Cart, error)
}

type productLoader interface {
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	store      *Store
	products   productLoader
	maxLineQty int
	logg       *logger.Logger
}

// NewService wires the cart service with its snapshot store and catalog lookup.
func NewService(store *Store, products productLoader, cfg config.CartConfig, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, stderrors.New("cart store is required")
	}
	if products == nil {
		return nil, stderrors.New("product loader is required")
	}
	if logg == nil {
		return nil, stderrors.New("logger is required")
	}
	maxQty := cfg.MaxLineQty
	if maxQty <= 0 {
		maxQty = 99
	}
	return &service{
		store:      store,
		products:   products,
		maxLineQty: maxQty,
		logg:       logg,
	}, nil
}

func (s *service) Get(ctx context.Context, sessionToken string) (*CartDTO, error) {
	snapshot, err := s.snapshot(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	return NewCartDTO(snapshot), nil
}

// Snapshot returns the raw stored cart for consumers that need line data.
func (s *service) Snapshot(ctx context.Context, sessionToken string) (*Cart, error) {
	return s.snapshot(ctx, sessionToken)
}

func (s *service) AddItem(ctx context.Context, sessionToken string, productID uuid.UUID, qty int) (*CartDTO, error) {
	if qty < 1 {
		return nil, errors.New(errors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.FindActiveByID(ctx, productID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "product not available")
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "loading product")
	}

	snapshot, err := s.snapshot(ctx, sessionToken)
	if err != nil {
		return nil, err
	}

	if i := snapshot.lineIndex(productID); i >= 0 {
		snapshot.Lines[i].Qty = s.clampQty(snapshot.Lines[i].Qty + qty)
		// refresh denormalized fields in case the catalog entry changed
		snapshot.Lines[i].Title = product.Title
		snapshot.Lines[i].Category = product.Category
		snapshot.Lines[i].ImageURL = product.ImageURL
		snapshot.Lines[i].UnitPriceCents = product.PriceCents
	} else {
		snapshot.Lines = append(snapshot.Lines, Line{
			ProductID:      product.ID,
			Title:          product.Title,
			Category:       product.Category,
			ImageURL:       product.ImageURL,
			UnitPriceCents: product.PriceCents,
			Qty:            s.clampQty(qty),
		})
	}

	if err := s.store.Save(ctx, snapshot); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "saving cart")
	}
	return NewCartDTO(snapshot), nil
}

func (s *service) UpdateQuantity(ctx context.Context, sessionToken string, productID uuid.UUID, qty int) (*CartDTO, error) {
	snapshot, err := s.snapshot(ctx, sessionToken)
	if err != nil {
		return nil, err
	}

	i := snapshot.lineIndex(productID)
	if i < 0 {
		if qty < 1 {
			// removing a line that is already gone is a no-op
			return NewCartDTO(snapshot), nil
		}
		return nil, errors.New(errors.CodeNotFound, "product not in cart")
	}

	if qty < 1 {
		snapshot.Lines = append(snapshot.Lines[:i], snapshot.Lines[i+1:]...)
	} else {
		snapshot.Lines[i].Qty = s.clampQty(qty)
	}

	if err := s.store.Save(ctx, snapshot); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "saving cart")
	}
	return NewCartDTO(snapshot), nil
}

func (s *service) RemoveItem(ctx context.Context, sessionToken string, productID uuid.UUID) (*CartDTO, error) {
	snapshot, err := s.snapshot(ctx, sessionToken)
	if err != nil {
		return nil, err
	}

	i := snapshot.lineIndex(productID)
	if i < 0 {
		return NewCartDTO(snapshot), nil
	}
	snapshot.Lines = append(snapshot.Lines[:i], snapshot.Lines[i+1:]...)

	if err := s.store.Save(ctx, snapshot); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "saving cart")
	}
	return NewCartDTO(snapshot), nil
}

func (s *service) Clear(ctx context.Context, sessionToken string) error {
	if strings.TrimSpace(sessionToken) == "" {
		return errors.New(errors.CodeValidation, "session token is required")
	}
	if err := s.store.Clear(ctx, sessionToken); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "clearing cart")
	}
	return nil
}

func (s *service) snapshot(ctx context.Context, sessionToken string) (*Cart, error) {
	if strings.TrimSpace(sessionToken) == "" {
		return nil, errors.New(errors.CodeValidation, "session token is required")
	}
	snapshot, err := s.store.Load(ctx, sessionToken)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading cart")
	}
	return snapshot, nil
}

func (s *service) clampQty(qty int) int {
	if qty > s.maxLineQty {
		return s.maxLineQty
	}
	return qty
}
