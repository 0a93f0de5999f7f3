package domain

import (
	"errors"
	"fmt"
	"time"

	"sergei-eats/lifecycle"
)

const DayLayout = "2006-01-02"

var (
	ErrSnapshotNotFound = errors.New("order snapshot not found")
	ErrInvalidDate      = errors.New("invalid date")
)

// RestaurantSummary is the dashboard view of one restaurant. StatusCounts
// covers every tracked order; Placed and Revenue cover orders created on Date.
type RestaurantSummary struct {
	RestaurantID string                     `json:"restaurant_id"`
	Date         string                     `json:"date"`
	StatusCounts map[lifecycle.Status]int64 `json:"status_counts"`
	Open         int64                      `json:"open_orders"`
	Placed       int64                      `json:"placed"`
	Revenue      float64                    `json:"revenue"`
}

type RestaurantRevenue struct {
	RestaurantID string  `json:"restaurant_id"`
	Revenue      float64 `json:"revenue"`
}

// ParseDay accepts YYYY-MM-DD.
func ParseDay(s string) (time.Time, error) {
	day, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return day, nil
}

// Voided orders do not count towards revenue.
func Voided(s lifecycle.Status) bool {
	return s == lifecycle.StatusCancelled || s == lifecycle.StatusRefunded
}
