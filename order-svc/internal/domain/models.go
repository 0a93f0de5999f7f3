package domain

import (
	"errors"

	"sergei-eats/backend"
	"sergei-eats/lifecycle"
	"sergei-eats/pricing"
)

var (
	// ErrOrderNotFound is shared with the gateway client so both sides of the
	// wire match the same sentinel.
	ErrOrderNotFound   = backend.ErrOrderNotFound
	ErrVersionConflict = errors.New("order was modified concurrently")
)

type OrderLine struct {
	ItemID              string  `json:"item_id"`
	Quantity            int     `json:"quantity"`
	SpecialInstructions *string `json:"special_instructions,omitempty"`
}

type PlaceOrderRequest struct {
	CustomerID          string                  `json:"user_id"`
	RestaurantID        string                  `json:"restaurant_id"`
	Type                lifecycle.OrderType     `json:"order_type"`
	PaymentMethod       lifecycle.PaymentMethod `json:"payment_method"`
	DiscountCode        string                  `json:"discount_code"`
	DeliveryAddress     *string                 `json:"delivery_address"`
	Delivery            *lifecycle.Coordinates  `json:"delivery"`
	SpecialInstructions *string                 `json:"special_instructions"`
	Items               []OrderLine             `json:"items"`
}

type QuoteRequest struct {
	RestaurantID string              `json:"restaurant_id"`
	Type         lifecycle.OrderType `json:"order_type"`
	DiscountCode string              `json:"discount_code"`
	Items        []OrderLine         `json:"items"`
}

type QuoteResponse struct {
	pricing.Breakdown
	Discount       *pricing.Discount `json:"discount,omitempty"`
	DiscountError  string            `json:"discount_error,omitempty"`
	PlacementError string            `json:"placement_error,omitempty"`
	CanPlace       bool              `json:"can_place"`
}

func NewQuoteResponse(q pricing.Quote) QuoteResponse {
	resp := QuoteResponse{
		Breakdown: q.Rounded(),
		Discount:  q.Discount,
		CanPlace:  q.CanPlace(),
	}
	if q.DiscountErr != nil {
		resp.DiscountError = q.DiscountErr.Error()
	}
	if q.PlacementErr != nil {
		resp.PlacementError = q.PlacementErr.Error()
	}
	return resp
}

type ValidateDiscountRequest struct {
	Code     string  `json:"code"`
	Subtotal float64 `json:"subtotal"`
}

type ValidateDiscountResponse struct {
	Valid    bool              `json:"valid"`
	Discount *pricing.Discount `json:"discount,omitempty"`
	Error    string            `json:"error,omitempty"`
}

type TransitionRequest struct {
	Target    lifecycle.Status `json:"target"`
	ActorRole string           `json:"actor_role"`
	ActorID   string           `json:"actor_id"`
	Reason    string           `json:"reason"`
}

type DriverRequest struct {
	DriverID string           `json:"driver_id"`
	Target   lifecycle.Status `json:"target"`
}

// OrderFilter narrows List. Zero fields match everything.
type OrderFilter struct {
	CustomerID   string
	RestaurantID string
	DriverID     string
	Status       lifecycle.Status
	Type         lifecycle.OrderType
	Unassigned   bool
}

func (f OrderFilter) Match(o lifecycle.Order) bool {
	switch {
	case f.CustomerID != "" && o.CustomerID != f.CustomerID:
		return false
	case f.RestaurantID != "" && o.RestaurantID != f.RestaurantID:
		return false
	case f.DriverID != "" && (o.DriverID == nil || *o.DriverID != f.DriverID):
		return false
	case f.Status != "" && o.Status != f.Status:
		return false
	case f.Type != "" && o.Type != f.Type:
		return false
	case f.Unassigned && o.HasDriver():
		return false
	}
	return true
}
