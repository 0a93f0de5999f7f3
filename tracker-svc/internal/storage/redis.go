package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"sergei-eats/backend"
	"sergei-eats/lifecycle"
	"sergei-eats/pricing"
	"sergei-eats/tracker-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	maxWatchAttempts = 5
	allTimeRevenue   = "tracker:revenue:alltime"
)

var ErrContended = errors.New("order snapshot is contended")

// Store keeps the latest snapshot of every order plus the counters derived
// from it. Counters only move when a snapshot is accepted, so replayed or
// reordered events are counted once.
type Store struct {
	Client      *redis.Client
	SnapshotTTL time.Duration
	StatsTTL    time.Duration
}

func NewStore(client *redis.Client, snapshotTTL, statsTTL time.Duration) *Store {
	return &Store{Client: client, SnapshotTTL: snapshotTTL, StatsTTL: statsTTL}
}

func SnapshotKey(orderID string) string {
	return "tracker:order:" + orderID
}

func StatusKey(restaurantID string) string {
	return "tracker:restaurant:" + restaurantID + ":status"
}

func PlacedKey(day string) string {
	return "tracker:daily:" + day + ":placed"
}

func RevenueKey(day string) string {
	return "tracker:daily:" + day + ":revenue"
}

// Apply stores order if it is newer than the stored snapshot and reports
// whether it did.
func (s *Store) Apply(ctx context.Context, order lifecycle.Order) (bool, error) {
	key := SnapshotKey(order.ID)
	payload, err := json.Marshal(order)
	if err != nil {
		return false, err
	}

	var applied bool
	txf := func(tx *redis.Tx) error {
		applied = false

		var previous *lifecycle.Order
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			var stored lifecycle.Order
			if err := json.Unmarshal(raw, &stored); err == nil {
				if !backend.Newer(order, stored) {
					return nil
				}
				previous = &stored
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.SnapshotTTL)
			s.count(ctx, pipe, previous, order)
			return nil
		})
		if err == nil {
			applied = true
		}
		return err
	}

	for attempt := 0; attempt < maxWatchAttempts; attempt++ {
		err := s.Client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return applied, err
	}
	return false, ErrContended
}

func (s *Store) count(ctx context.Context, pipe redis.Pipeliner, previous *lifecycle.Order, order lifecycle.Order) {
	statusKey := StatusKey(order.RestaurantID)

	if previous == nil {
		day := order.CreatedAt.UTC().Format(domain.DayLayout)
		pipe.HIncrBy(ctx, statusKey, string(order.Status), 1)
		pipe.HIncrBy(ctx, PlacedKey(day), order.RestaurantID, 1)
		pipe.Expire(ctx, PlacedKey(day), s.StatsTTL)
		if !domain.Voided(order.Status) {
			s.addRevenue(ctx, pipe, day, order.RestaurantID, order.TotalAmount)
		}
		return
	}

	if previous.Status != order.Status {
		pipe.HIncrBy(ctx, statusKey, string(previous.Status), -1)
		pipe.HIncrBy(ctx, statusKey, string(order.Status), 1)
	}
	if !domain.Voided(previous.Status) && domain.Voided(order.Status) {
		day := previous.CreatedAt.UTC().Format(domain.DayLayout)
		s.addRevenue(ctx, pipe, day, order.RestaurantID, -previous.TotalAmount)
	}
}

func (s *Store) addRevenue(ctx context.Context, pipe redis.Pipeliner, day, restaurantID string, amount float64) {
	pipe.ZIncrBy(ctx, RevenueKey(day), amount, restaurantID)
	pipe.Expire(ctx, RevenueKey(day), s.StatsTTL)
	pipe.ZIncrBy(ctx, allTimeRevenue, amount, restaurantID)
}

// Snapshot returns nil, nil when the order is not tracked.
func (s *Store) Snapshot(ctx context.Context, orderID string) (*lifecycle.Order, error) {
	raw, err := s.Client.Get(ctx, SnapshotKey(orderID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var order lifecycle.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Store) StatusCounts(ctx context.Context, restaurantID string) (map[lifecycle.Status]int64, error) {
	fields, err := s.Client.HGetAll(ctx, StatusKey(restaurantID)).Result()
	if err != nil {
		return nil, err
	}

	counts := make(map[lifecycle.Status]int64, len(fields))
	for status, raw := range fields {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			continue
		}
		counts[lifecycle.Status(status)] = n
	}
	return counts, nil
}

func (s *Store) Placed(ctx context.Context, day, restaurantID string) (int64, error) {
	n, err := s.Client.HGet(ctx, PlacedKey(day), restaurantID).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (s *Store) Revenue(ctx context.Context, day, restaurantID string) (float64, error) {
	score, err := s.Client.ZScore(ctx, RevenueKey(day), restaurantID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return pricing.RoundCents(score), nil
}

// TopRestaurants ranks restaurants by revenue on day, or over all time when
// day is empty.
func (s *Store) TopRestaurants(ctx context.Context, day string, limit int) ([]domain.RestaurantRevenue, error) {
	key := allTimeRevenue
	if day != "" {
		key = RevenueKey(day)
	}

	result, err := s.Client.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	top := make([]domain.RestaurantRevenue, 0, len(result))
	for _, z := range result {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		top = append(top, domain.RestaurantRevenue{RestaurantID: member, Revenue: pricing.RoundCents(z.Score)})
	}
	return top, nil
}
