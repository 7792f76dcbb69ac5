package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked_token:"

// RevocationList tracks logged-out tokens until they would have expired anyway.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type redisRevocationList struct {
	client *redis.Client
}

// NewRevocationList returns a redis-backed list. A nil client yields a list
// that never reports a token as revoked.
func NewRevocationList(client *redis.Client) RevocationList {
	return &redisRevocationList{client: client}
}

func (l *redisRevocationList) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if l.client == nil || tokenID == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return l.client.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err()
}

func (l *redisRevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if l.client == nil || tokenID == "" {
		return false, nil
	}
	n, err := l.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
