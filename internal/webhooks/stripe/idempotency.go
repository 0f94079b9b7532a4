package stripewebhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pawwelfare/shelter-backend/pkg/redis"
)

const guardScope = "stripe_webhook"

// ReplayGuard deduplicates webhook deliveries. Stripe retries events until
// acknowledged, so every delivery id is marked before processing and the
// mark is dropped again when handling fails, letting the retry through.
type ReplayGuard struct {
	store redis.IdempotencyStore
	ttl   time.Duration
}

func NewReplayGuard(store redis.IdempotencyStore, ttl time.Duration) (*ReplayGuard, error) {
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if ttl <= 0 {
		return nil, errors.New("ttl must be positive")
	}
	return &ReplayGuard{store: store, ttl: ttl}, nil
}

// SeenAndMark reports whether the event was already handled, marking it as
// in-flight otherwise.
func (g *ReplayGuard) SeenAndMark(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return false, errors.New("event id is required")
	}
	key := g.store.IdempotencyKey(guardScope, eventID)
	set, err := g.store.SetNX(ctx, key, "1", g.ttl)
	if err != nil {
		return false, fmt.Errorf("set idempotency key: %w", err)
	}
	return !set, nil
}

// Release clears the mark so a failed delivery can be retried by Stripe.
func (g *ReplayGuard) Release(ctx context.Context, eventID string) error {
	if eventID == "" {
		return errors.New("event id is required")
	}
	return g.store.Del(ctx, g.store.IdempotencyKey(guardScope, eventID))
}
