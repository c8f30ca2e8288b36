package customer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Identity is the "last known customer" hint remembered per tenant and
// browser session. It only pre-fills identity resolution; it is never
// treated as authorization.
type Identity struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

var ErrCacheMiss = errors.New("identity cache miss")

type IdentityCache interface {
	Get(ctx context.Context, tenantID, sessionID string) (*Identity, error)
	Set(ctx context.Context, tenantID, sessionID string, id *Identity) error
	Delete(ctx context.Context, tenantID, sessionID string) error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, ttl: 30 * 24 * time.Hour}
}

func (r *RedisCache) Get(ctx context.Context, tenantID, sessionID string) (*Identity, error) {
	data, err := r.client.Get(ctx, cacheKey(tenantID, sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, fmt.Errorf("unmarshal identity failed: %w", err)
	}
	return &id, nil
}

func (r *RedisCache) Set(ctx context.Context, tenantID, sessionID string, id *Identity) error {
	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("marshal identity failed: %w", err)
	}
	if err := r.client.Set(ctx, cacheKey(tenantID, sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, tenantID, sessionID string) error {
	if err := r.client.Del(ctx, cacheKey(tenantID, sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(tenantID, sessionID string) string {
	return fmt.Sprintf("identity:%s:%s", tenantID, sessionID)
}
