package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// IdempotencyStore remembers which card a create request produced.
// Key format: idempotency:<user_id>:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: idempotencyTTL}
}

// Lookup returns the card id stored for (userID, key), if any.
func (s *IdempotencyStore) Lookup(ctx context.Context, userID, key string) (string, bool, error) {
	cardID, err := s.client.Get(ctx, idempotencyKey(userID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	return cardID, true, nil
}

// Remember stores cardID for (userID, key) unless a mapping already exists.
// Lookup and Remember are separate round trips, so two creates racing on one
// key can both insert; only the first card is remembered and replayed later.
func (s *IdempotencyStore) Remember(ctx context.Context, userID, key, cardID string) error {
	if err := s.client.SetNX(ctx, idempotencyKey(userID, key), cardID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func idempotencyKey(userID, key string) string {
	return fmt.Sprintf("idempotency:%s:%s", userID, key)
}
