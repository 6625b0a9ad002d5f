// Package blacklist records revoked refresh tokens in Redis. Entries expire
// on their own once the token would have expired anyway, so nothing is ever
// cleaned up explicitly.
package blacklist

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "blacklisted_token:"
	sentinelValue = "blacklisted"

	// MaxTTL caps how long an entry can live, matching the refresh token
	// lifetime. A revoked token never needs to be remembered longer than
	// it could have been replayed.
	MaxTTL = 30 * 24 * time.Hour
)

type Store struct {
	client *redis.Client
}

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Revoke marks a token as blacklisted for ttl. Re-revoking an already
// blacklisted token is a no-op and does not extend the original TTL.
func (s *Store) Revoke(ctx context.Context, tokenValue string, ttl time.Duration) error {
	if ttl <= 0 || ttl > MaxTTL {
		ttl = MaxTTL
	}

	if err := s.client.SetNX(ctx, keyPrefix+tokenValue, sentinelValue, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *Store) IsRevoked(ctx context.Context, tokenValue string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+tokenValue).Result()
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return n > 0, nil
}

func (s *Store) Health(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
