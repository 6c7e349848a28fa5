package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nvalverde/boutique/internal/core/domain"
)

const (
	cartKeyPrefix     = "cart:"
	cartKeyTTL        = 30 * 24 * time.Hour
	idempotencyKeyTTL = 24 * time.Hour
)

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) Save(ctx context.Context, cartID string, items []domain.LineItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	return r.client.Set(ctx, cartKeyPrefix+cartID, payload, cartKeyTTL).Err()
}

func (r *RedisAdapter) Load(ctx context.Context, cartID string) ([]domain.LineItem, error) {
	payload, err := r.client.Get(ctx, cartKeyPrefix+cartID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	var items []domain.LineItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return items, nil
}

func (r *RedisAdapter) Delete(ctx context.Context, cartID string) error {
	return r.client.Del(ctx, cartKeyPrefix+cartID).Err()
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}
