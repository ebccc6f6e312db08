package cache

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zeebo/blake3"
)

const keyPrefix = "fintrack:revoked:"

// RedisLedger keeps revoked tokens as keys that expire together with the token,
// so the ledger never outgrows the set of still-valid tokens.
type RedisLedger struct {
	client *redis.Client
	now    func() time.Time
}

func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}

func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{client: client, now: time.Now}
}

// TokenKey returns the Redis key for token; the raw token is never stored.
func TokenKey(token string) string {
	sum := blake3.Sum256([]byte(token))
	return keyPrefix + hex.EncodeToString(sum[:])
}

func (l *RedisLedger) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(l.now())
	if ttl <= 0 {
		// already unusable; nothing to remember
		return nil
	}
	return l.client.SetNX(ctx, TokenKey(token), 1, ttl).Err()
}

func (l *RedisLedger) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := l.client.Exists(ctx, TokenKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Prune is a no-op: Redis expires entries on its own.
func (l *RedisLedger) Prune(context.Context, time.Time) (int64, error) {
	return 0, nil
}
