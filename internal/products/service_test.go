package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/terra-legacy/terra-backend/pkg/errors"
)

func TestServiceCreateValidation(t *testing.T) {
	t.Parallel()

	svc, err := NewService(NewRepository(setupProductsTestDB(t)))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateInput{Title: "", Category: "seeds", Price: "$10.00"})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(context.Background(), CreateInput{Title: "Heirloom Tomato Seeds", Category: "", Price: "$10.00"})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(context.Background(), CreateInput{Title: "Heirloom Tomato Seeds", Category: "seeds", Price: "ten dollars"})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestServiceCreateParsesDisplayPrice(t *testing.T) {
	t.Parallel()

	svc, err := NewService(NewRepository(setupProductsTestDB(t)))
	require.NoError(t, err)

	dto, err := svc.Create(context.Background(), CreateInput{
		Title:    "Heirloom Tomato Seeds",
		Category: "seeds",
		Price:    "$19.99",
		IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1999), dto.PriceCents)
	assert.Equal(t, "$19.99", dto.Price)
	assert.Equal(t, "heirloom-tomato-seeds", dto.Slug)
}

func TestServiceGetNotFound(t *testing.T) {
	t.Parallel()

	svc, err := NewService(NewRepository(setupProductsTestDB(t)))
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.New())
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceUpdatePartial(t *testing.T) {
	t.Parallel()

	svc, err := NewService(NewRepository(setupProductsTestDB(t)))
	require.NoError(t, err)

	created, err := svc.Create(context.Background(), CreateInput{
		Title:    "Garden Trowel",
		Category: "tools",
		Price:    "$12.50",
		IsActive: true,
	})
	require.NoError(t, err)

	newPrice := "$14.00"
	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, int64(1400), updated.PriceCents)
	assert.Equal(t, "Garden Trowel", updated.Title)
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected coded error, got %v", err)
	assert.Equal(t, code, typed.Code())
}
