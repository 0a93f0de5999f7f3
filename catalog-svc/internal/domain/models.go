package domain

import (
	"errors"
	"fmt"
	"strings"

	"sergei-eats/pricing"
	"sergei-eats/provider"
)

var (
	ErrNotFound      = provider.ErrNotFound
	ErrDuplicateCode = provider.ErrDuplicateCode
	ErrInvalidIssue  = errors.New("invalid discount")
)

// RestaurantMenu is a restaurant with its active categories and available
// items, in display order.
type RestaurantMenu struct {
	Restaurant provider.Restaurant     `json:"restaurant"`
	Categories []provider.MenuCategory `json:"categories"`
	Items      []provider.MenuItem     `json:"items"`
}

// ValidateIssue checks a discount before it is issued. Issued discounts are
// never edited, so everything has to be right up front.
func ValidateIssue(d pricing.Discount) error {
	switch {
	case strings.TrimSpace(d.Code) == "":
		return fmt.Errorf("%w: code is required", ErrInvalidIssue)
	case !d.Type.Valid():
		return fmt.Errorf("%w: unknown type %q", ErrInvalidIssue, d.Type)
	case d.Value < 0:
		return fmt.Errorf("%w: value must not be negative", ErrInvalidIssue)
	case d.Type == pricing.DiscountPercentage && (d.Value == 0 || d.Value > 100):
		return fmt.Errorf("%w: percentage must be in (0, 100]", ErrInvalidIssue)
	case d.Type == pricing.DiscountFixedAmount && d.Value == 0:
		return fmt.Errorf("%w: fixed amount must be positive", ErrInvalidIssue)
	case d.MinOrderAmount < 0:
		return fmt.Errorf("%w: min_order_amount must not be negative", ErrInvalidIssue)
	case d.MaxDiscountAmount != nil && *d.MaxDiscountAmount <= 0:
		return fmt.Errorf("%w: max_discount_amount must be positive", ErrInvalidIssue)
	case d.UsageLimit != nil && *d.UsageLimit <= 0:
		return fmt.Errorf("%w: usage_limit must be positive", ErrInvalidIssue)
	case d.ValidFrom.IsZero() || d.ValidUntil.IsZero():
		return fmt.Errorf("%w: validity window is required", ErrInvalidIssue)
	case d.ValidUntil.Before(d.ValidFrom):
		return fmt.Errorf("%w: valid_until is before valid_from", ErrInvalidIssue)
	}
	return nil
}
