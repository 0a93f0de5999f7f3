package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Rules are the storefront pricing constants.
type Rules struct {
	TaxRate               float64 `json:"tax_rate"`
	DeliveryFee           float64 `json:"delivery_fee"`
	FreeDeliveryThreshold float64 `json:"free_delivery_threshold"`
	MinOrderAmount        float64 `json:"min_order_amount"`
	MaxOrderValue         float64 `json:"max_order_value"`
}

func DefaultRules() Rules {
	return Rules{
		TaxRate:               0.08,
		DeliveryFee:           3.00,
		FreeDeliveryThreshold: 30.00,
		MinOrderAmount:        10.00,
		MaxOrderValue:         500.00,
	}
}

// Breakdown holds full-precision amounts. Use Rounded for display and storage.
type Breakdown struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	DeliveryFee    float64 `json:"delivery_fee"`
	TaxAmount      float64 `json:"tax_amount"`
	TotalAmount    float64 `json:"total_amount"`
}

// Rounded rounds every amount half-up to cents.
func (b Breakdown) Rounded() Breakdown {
	return Breakdown{
		Subtotal:       RoundCents(b.Subtotal),
		DiscountAmount: RoundCents(b.DiscountAmount),
		DeliveryFee:    RoundCents(b.DeliveryFee),
		TaxAmount:      RoundCents(b.TaxAmount),
		TotalAmount:    RoundCents(b.TotalAmount),
	}
}

func RoundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Quote is a priced cart. DiscountErr explains a rejected code and PlacementErr
// a failed placement gate; the breakdown is filled in either way.
type Quote struct {
	Breakdown
	Discount     *Discount
	DiscountErr  error
	PlacementErr error
}

func (q Quote) CanPlace() bool {
	return q.PlacementErr == nil
}

// Compute prices items. deliveryFee and taxRate are the restaurant's values and
// override the ones in rules. catalog is searched for code; an empty code applies
// no discount. Lines that are not Valid are left out of the subtotal and block
// placement.
func Compute(items []LineItem, deliveryFee, taxRate float64, code string, catalog []Discount, rules Rules, now time.Time) Quote {
	var q Quote
	q.Subtotal = subtotal(items)

	freeDelivery := false
	if NormalizeCode(code) != "" {
		d, ok := findCode(catalog, code)
		if !ok {
			q.DiscountErr = ErrInvalidDiscount
		} else if err := d.check(q.Subtotal, now); err != nil {
			q.DiscountErr = err
		} else {
			q.Discount = &d
			q.DiscountAmount = d.amount(q.Subtotal)
			freeDelivery = d.Type == DiscountFreeDelivery
		}
	}

	q.DeliveryFee = deliveryFee
	if freeDelivery || q.Subtotal >= rules.FreeDeliveryThreshold {
		q.DeliveryFee = 0
	}

	taxable := q.Subtotal - q.DiscountAmount
	q.TaxAmount = taxable * taxRate
	q.TotalAmount = taxable + q.DeliveryFee + q.TaxAmount

	switch {
	case len(items) == 0:
		q.PlacementErr = ErrEmptyCart
	case hasInvalidLine(items):
		q.PlacementErr = ErrInvalidLineItem
	case q.TotalAmount < rules.MinOrderAmount:
		q.PlacementErr = ErrOrderBelowMinimum
	case q.TotalAmount > rules.MaxOrderValue:
		q.PlacementErr = ErrOrderAboveMaximum
	}
	return q
}

func hasInvalidLine(items []LineItem) bool {
	for _, item := range items {
		if !item.Valid() {
			return true
		}
	}
	return false
}

// DiscountSource looks discounts up in the active data provider.
// FindDiscountByCode returns a nil discount and nil error for an unknown code.
type DiscountSource interface {
	ListActiveDiscounts(ctx context.Context) ([]Discount, error)
	FindDiscountByCode(ctx context.Context, code string) (*Discount, error)
}

type Calculator struct {
	rules  Rules
	source DiscountSource
	now    func() time.Time
}

func NewCalculator(rules Rules, source DiscountSource, now func() time.Time) *Calculator {
	if now == nil {
		now = time.Now
	}
	return &Calculator{rules: rules, source: source, now: now}
}

func (c *Calculator) Rules() Rules {
	return c.rules
}

// ComputeTotal prices items against the live discount catalog. The error is
// reserved for data provider failures; discount and placement problems are
// reported on the Quote.
func (c *Calculator) ComputeTotal(ctx context.Context, items []LineItem, deliveryFee, taxRate float64, code string) (Quote, error) {
	var catalog []Discount
	if NormalizeCode(code) != "" {
		d, err := c.source.FindDiscountByCode(ctx, code)
		if err != nil {
			return Quote{}, fmt.Errorf("failed to look up discount: %w", err)
		}
		if d != nil {
			catalog = []Discount{*d}
		}
	}
	return Compute(items, deliveryFee, taxRate, code, catalog, c.rules, c.now()), nil
}

// QuoteCart prices a cart with the default fee and tax rate.
func (c *Calculator) QuoteCart(ctx context.Context, cart *Cart, code string) (Quote, error) {
	return c.ComputeTotal(ctx, cart.Lines(), c.rules.DeliveryFee, c.rules.TaxRate, code)
}

// ValidateCode checks code against subtotal for the "apply code" action.
func (c *Calculator) ValidateCode(ctx context.Context, code string, subtotal float64) (*Discount, error) {
	if NormalizeCode(code) == "" {
		return nil, ErrInvalidDiscount
	}
	d, err := c.source.FindDiscountByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up discount: %w", err)
	}
	if d == nil {
		return nil, ErrInvalidDiscount
	}
	if err := d.check(subtotal, c.now()); err != nil {
		return nil, err
	}
	return d, nil
}
