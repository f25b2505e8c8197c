package checkout

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

const orderNumberAttempts = 5

type numberExistsFunc func(ctx context.Context, orderNumber string) (bool, error)

// NumberGenerator mints public order numbers such as TL-204581.
type NumberGenerator struct {
	prefix string
	exists numberExistsFunc
}

// NewNumberGenerator builds a generator that checks candidates for collisions.
func NewNumberGenerator(prefix string, exists numberExistsFunc) (*NumberGenerator, error) {
	if prefix == "" {
		return nil, errors.New("order number prefix is required")
	}
	if exists == nil {
		return nil, errors.New("order number existence check is required")
	}
	return &NumberGenerator{prefix: prefix, exists: exists}, nil
}

// Next returns a fresh order number not yet present in storage.
func (g *NumberGenerator) Next(ctx context.Context) (string, error) {
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
		if err != nil {
			return "", fmt.Errorf("generating order number: %w", err)
		}
		candidate := fmt.Sprintf("%s%06d", g.prefix, n.Int64())
		taken, err := g.exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("checking order number: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", errors.New("exhausted order number attempts")
}
