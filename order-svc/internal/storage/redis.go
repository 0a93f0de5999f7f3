package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"sergei-eats/lifecycle"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

func (c *RedisCache) OrderKey(id string) string {
	return "order:" + id
}

func (c *RedisCache) Get(ctx context.Context, id string) (*lifecycle.Order, error) {
	raw, err := c.Client.Get(ctx, c.OrderKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var order lifecycle.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		// a corrupt snapshot is a miss; the store is authoritative
		c.Client.Del(ctx, c.OrderKey(id))
		return nil, nil
	}
	return &order, nil
}

func (c *RedisCache) Set(ctx context.Context, order lifecycle.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.OrderKey(order.ID), payload, c.TTL).Err()
}

func (c *RedisCache) Delete(ctx context.Context, id string) error {
	return c.Client.Del(ctx, c.OrderKey(id)).Err()
}
