package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/terra-legacy/terra-backend/pkg/config"
	"github.com/terra-legacy/terra-backend/pkg/enums"
	"github.com/terra-legacy/terra-backend/pkg/logger"
	redisclient "github.com/terra-legacy/terra-backend/pkg/redis"
	"github.com/terra-legacy/terra-backend/pkg/types"
)

// Session is the wizard state stored per browser session while checking out.
type Session struct {
	SessionToken    string                      `json:"session_token"`
	CurrentStep     enums.CheckoutStep          `json:"current_step"`
	Completed       map[enums.CheckoutStep]bool `json:"completed"`
	Email           string                      `json:"email,omitempty"`
	ShippingAddress *types.Address              `json:"shipping_address,omitempty"`
	PaymentMethod   string                      `json:"payment_method,omitempty"`
	Notes           *string                     `json:"notes,omitempty"`
	OrderNumber     string                      `json:"order_number,omitempty"`
	StartedAt       time.Time                   `json:"started_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

// NewSession starts a fresh wizard at the cart step.
func NewSession(sessionToken string) *Session {
	now := time.Now().UTC()
	return &Session{
		SessionToken: sessionToken,
		CurrentStep:  enums.CheckoutStepCart,
		Completed:    map[enums.CheckoutStep]bool{},
		StartedAt:    now,
		UpdatedAt:    now,
	}
}

// MarkCompleted records the step as done.
func (s *Session) MarkCompleted(step enums.CheckoutStep) {
	if s.Completed == nil {
		s.Completed = map[enums.CheckoutStep]bool{}
	}
	s.Completed[step] = true
}

// IsCompleted reports whether the step was finished.
func (s *Session) IsCompleted(step enums.CheckoutStep) bool {
	return s.Completed[step]
}

// CompletedSteps returns the finished steps in wizard order.
func (s *Session) CompletedSteps() []enums.CheckoutStep {
	out := make([]enums.CheckoutStep, 0, len(s.Completed))
	for _, step := range enums.CheckoutSteps {
		if s.Completed[step] {
			out = append(out, step)
		}
	}
	return out
}

type sessionKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CheckoutKey(sessionToken string) string
}

// SessionStore persists checkout sessions in Redis keyed by session token.
type SessionStore struct {
	kv   sessionKV
	ttl  time.Duration
	logg *logger.Logger
}

// NewSessionStore wires the store against the shared Redis client.
func NewSessionStore(client *redisclient.Client, cfg config.CheckoutConfig, logg *logger.Logger) (*SessionStore, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.SessionTTL <= 0 {
		return nil, errors.New("checkout session ttl must be positive")
	}
	return &SessionStore{kv: client, ttl: cfg.SessionTTL, logg: logg}, nil
}

// Load returns the stored session, or nil when none exists.
func (s *SessionStore) Load(ctx context.Context, sessionToken string) (*Session, error) {
	raw, err := s.kv.Get(ctx, s.kv.CheckoutKey(sessionToken))
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		s.logg.Warn(s.logg.WithSessionID(ctx, sessionToken), "discarding corrupt checkout session")
		return nil, nil
	}
	session.SessionToken = sessionToken
	if session.Completed == nil {
		session.Completed = map[enums.CheckoutStep]bool{}
	}
	return &session, nil
}

// Save writes the session and refreshes the TTL.
func (s *SessionStore) Save(ctx context.Context, session *Session) error {
	if session == nil {
		return errors.New("checkout session is required")
	}
	session.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.kv.CheckoutKey(session.SessionToken), payload, s.ttl)
}

// Clear removes the stored session.
func (s *SessionStore) Clear(ctx context.Context, sessionToken string) error {
	return s.kv.Del(ctx, s.kv.CheckoutKey(sessionToken))
}
