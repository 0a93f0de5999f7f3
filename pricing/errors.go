package pricing

import "errors"

// Discount rejections. A rejected code prices the order without a discount.
var (
	ErrInvalidDiscount       = errors.New("invalid discount code")
	ErrDiscountExpired       = errors.New("discount code has expired")
	ErrDiscountExhausted     = errors.New("discount code usage limit reached")
	ErrDiscountMinimumNotMet = errors.New("order does not meet the discount minimum")
)

// Placement gate failures.
var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidLineItem   = errors.New("cart line needs a quantity of at least 1 and a non-negative price")
	ErrOrderBelowMinimum = errors.New("order total is below the minimum order amount")
	ErrOrderAboveMaximum = errors.New("order total exceeds the maximum order value")
)
