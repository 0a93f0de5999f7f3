package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"sergei-eats/pricing"

	"github.com/redis/go-redis/v9"
)

const activeDiscountsKey = "catalog:discounts:active"

// DiscountCache keeps the active discount list as one JSON value.
type DiscountCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewDiscountCache(client *redis.Client, ttl time.Duration) *DiscountCache {
	return &DiscountCache{Client: client, TTL: ttl}
}

func (c *DiscountCache) GetActive(ctx context.Context) ([]pricing.Discount, bool, error) {
	raw, err := c.Client.Get(ctx, activeDiscountsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var discounts []pricing.Discount
	if err := json.Unmarshal(raw, &discounts); err != nil {
		c.Client.Del(ctx, activeDiscountsKey)
		return nil, false, nil
	}
	return discounts, true, nil
}

func (c *DiscountCache) SetActive(ctx context.Context, discounts []pricing.Discount) error {
	if discounts == nil {
		discounts = []pricing.Discount{}
	}
	payload, err := json.Marshal(discounts)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, activeDiscountsKey, payload, c.TTL).Err()
}

func (c *DiscountCache) Invalidate(ctx context.Context) error {
	return c.Client.Del(ctx, activeDiscountsKey).Err()
}
