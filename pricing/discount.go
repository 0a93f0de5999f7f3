package pricing

import (
	"strings"
	"time"
)

type DiscountType string

const (
	DiscountPercentage   DiscountType = "percentage"
	DiscountFixedAmount  DiscountType = "fixed_amount"
	DiscountFreeDelivery DiscountType = "free_delivery"
)

func (t DiscountType) Valid() bool {
	switch t {
	case DiscountPercentage, DiscountFixedAmount, DiscountFreeDelivery:
		return true
	}
	return false
}

// Discount is immutable once issued; only UsedCount advances.
type Discount struct {
	ID                string       `json:"id" yaml:"id"`
	Code              string       `json:"code" yaml:"code"`
	Name              string       `json:"name" yaml:"name"`
	Description       string       `json:"description" yaml:"description"`
	Type              DiscountType `json:"type" yaml:"type"`
	Value             float64      `json:"value" yaml:"value"`
	MinOrderAmount    float64      `json:"min_order_amount" yaml:"min_order_amount"`
	MaxDiscountAmount *float64     `json:"max_discount_amount" yaml:"max_discount_amount"`
	UsageLimit        *int         `json:"usage_limit" yaml:"usage_limit"`
	UsedCount         int          `json:"used_count" yaml:"used_count"`
	IsActive          bool         `json:"is_active" yaml:"is_active"`
	ValidFrom         time.Time    `json:"valid_from" yaml:"valid_from"`
	ValidUntil        time.Time    `json:"valid_until" yaml:"valid_until"`
}

// ActiveAt reports whether d can be offered at t.
func (d Discount) ActiveAt(t time.Time) bool {
	if !d.IsActive || d.Exhausted() {
		return false
	}
	return !t.Before(d.ValidFrom) && !t.After(d.ValidUntil)
}

func (d Discount) Exhausted() bool {
	return d.UsageLimit != nil && d.UsedCount >= *d.UsageLimit
}

// NormalizeCode is the form codes are compared in.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// check returns why d cannot be applied to subtotal at now, or nil.
func (d Discount) check(subtotal float64, now time.Time) error {
	switch {
	case !d.IsActive:
		return ErrInvalidDiscount
	case now.After(d.ValidUntil):
		return ErrDiscountExpired
	case now.Before(d.ValidFrom):
		return ErrInvalidDiscount
	case d.Exhausted():
		return ErrDiscountExhausted
	case d.MinOrderAmount > subtotal:
		return ErrDiscountMinimumNotMet
	}
	return nil
}

// amount is the discount d grants on subtotal, never more than subtotal.
func (d Discount) amount(subtotal float64) float64 {
	var amount float64
	switch d.Type {
	case DiscountPercentage:
		amount = subtotal * d.Value / 100
		if d.MaxDiscountAmount != nil && *d.MaxDiscountAmount < amount {
			amount = *d.MaxDiscountAmount
		}
	case DiscountFixedAmount:
		amount = d.Value
		if d.MaxDiscountAmount != nil && *d.MaxDiscountAmount < amount {
			amount = *d.MaxDiscountAmount
		}
	case DiscountFreeDelivery:
		return 0
	}
	if amount > subtotal {
		amount = subtotal
	}
	if amount < 0 {
		amount = 0
	}
	return amount
}

func findCode(catalog []Discount, code string) (Discount, bool) {
	want := NormalizeCode(code)
	for _, d := range catalog {
		if NormalizeCode(d.Code) == want {
			return d, true
		}
	}
	return Discount{}, false
}
