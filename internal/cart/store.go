package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/terra-legacy/terra-backend/pkg/config"
	"github.com/terra-legacy/terra-backend/pkg/logger"
	redisclient "github.com/terra-legacy/terra-backend/pkg/redis"
)

type snapshotKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionToken string) string
}

// Store persists cart snapshots in Redis keyed by session token.
type Store struct {
	kv   snapshotKV
	ttl  time.Duration
	logg *logger.Logger
}

// NewStore wires the snapshot store against the shared Redis client.
func NewStore(client *redisclient.Client, cfg config.CartConfig, logg *logger.Logger) (*Store, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.SnapshotTTL <= 0 {
		return nil, errors.New("cart snapshot ttl must be positive")
	}
	return &Store{kv: client, ttl: cfg.SnapshotTTL, logg: logg}, nil
}

// Load returns the cart snapshot for the session, or an empty cart when
// nothing is stored. A corrupt snapshot is dropped rather than surfaced.
func (s *Store) Load(ctx context.Context, sessionToken string) (*Cart, error) {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(sessionToken))
	if errors.Is(err, redis.Nil) {
		return NewCart(sessionToken), nil
	}
	if err != nil {
		return nil, err
	}

	var snapshot Cart
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		s.logg.Warn(s.logg.WithSessionID(ctx, sessionToken), "discarding corrupt cart snapshot")
		return NewCart(sessionToken), nil
	}
	snapshot.SessionToken = sessionToken
	if snapshot.Lines == nil {
		snapshot.Lines = []Line{}
	}
	return &snapshot, nil
}

// Save writes the full snapshot and refreshes the TTL.
func (s *Store) Save(ctx context.Context, snapshot *Cart) error {
	if snapshot == nil {
		return errors.New("cart snapshot is required")
	}
	snapshot.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.kv.CartKey(snapshot.SessionToken), payload, s.ttl)
}

// Clear removes the stored snapshot for the session.
func (s *Store) Clear(ctx context.Context, sessionToken string) error {
	return s.kv.Del(ctx, s.kv.CartKey(sessionToken))
}
