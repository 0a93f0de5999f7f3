// Package provider is the data source behind the storefront: restaurants, menus
// and discounts. Exactly one implementation is chosen at start-up, the in-memory
// simulator or the live catalog service client.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"sergei-eats/pricing"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateCode = errors.New("discount code already exists")
	ErrUnknownMode   = errors.New("unknown data mode")
)

type Mode string

const (
	ModeMock Mode = "mock"
	ModeLive Mode = "live"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeMock, ModeLive:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

type Catalog interface {
	ListRestaurants(ctx context.Context) ([]Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*Restaurant, error)
	ListCategories(ctx context.Context, restaurantID string) ([]MenuCategory, error)
	ListMenuItems(ctx context.Context, restaurantID string) ([]MenuItem, error)
	GetMenuItem(ctx context.Context, id string) (*MenuItem, error)
	ListActiveDiscounts(ctx context.Context) ([]pricing.Discount, error)
	FindDiscountByCode(ctx context.Context, code string) (*pricing.Discount, error)
	RedeemDiscount(ctx context.Context, code string) error
}

var (
	_ Catalog                = (*Memory)(nil)
	_ Catalog                = (*HTTP)(nil)
	_ pricing.DiscountSource = (Catalog)(nil)
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Options struct {
	// BaseURL and Client configure live mode.
	BaseURL string
	Client  HTTPClient
	// Seed overrides the embedded catalog in mock mode.
	Seed *Seed
	Now  func() time.Time
}

// New returns the Catalog for mode.
func New(mode Mode, opts Options) (Catalog, error) {
	switch mode {
	case ModeMock:
		seed := opts.Seed
		if seed == nil {
			s, err := DefaultSeed()
			if err != nil {
				return nil, err
			}
			seed = s
		}
		return NewMemory(seed, opts.Now), nil
	case ModeLive:
		if opts.BaseURL == "" {
			return nil, errors.New("live mode requires a catalog service url")
		}
		client := opts.Client
		if client == nil {
			client = &http.Client{Timeout: 10 * time.Second}
		}
		return NewHTTP(opts.BaseURL, client), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}
