package lifecycle

import "time"

type OrderType string

const (
	TypeDelivery OrderType = "delivery"
	TypePickup   OrderType = "pickup"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
	PaymentBank PaymentMethod = "bank"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Item struct {
	ItemID              string  `json:"item_id"`
	Name                string  `json:"item_name"`
	Quantity            int     `json:"quantity"`
	UnitPrice           float64 `json:"unit_price"`
	TotalPrice          float64 `json:"total_price"`
	SpecialInstructions *string `json:"special_instructions,omitempty"`
}

// Order is the persisted record of a food order. Monetary fields are stored at
// currency precision; Version increases by one on every accepted mutation.
type Order struct {
	ID                  string        `json:"id"`
	OrderNumber         string        `json:"order_number"`
	CustomerID          string        `json:"user_id"`
	DriverID            *string       `json:"driver_id"`
	RestaurantID        string        `json:"restaurant_id"`
	Status              Status        `json:"status"`
	Type                OrderType     `json:"order_type"`
	Subtotal            float64       `json:"subtotal"`
	DeliveryFee         float64       `json:"delivery_fee"`
	TaxAmount           float64       `json:"tax_amount"`
	DiscountAmount      float64       `json:"discount_amount"`
	TotalAmount         float64       `json:"total_amount"`
	DiscountCode        string        `json:"discount_code,omitempty"`
	PaymentMethod       PaymentMethod `json:"payment_method"`
	PaymentStatus       PaymentStatus `json:"payment_status"`
	DeliveryAddress     *string       `json:"delivery_address"`
	Delivery            *Coordinates  `json:"delivery,omitempty"`
	Pickup              *Coordinates  `json:"pickup,omitempty"`
	EstimatedDeliveryAt *time.Time    `json:"estimated_delivery_time"`
	ActualDeliveryAt    *time.Time    `json:"actual_delivery_time"`
	SpecialInstructions *string       `json:"special_instructions"`
	CancellationReason  *string       `json:"cancellation_reason"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
	Version             int64         `json:"version"`
	Items               []Item        `json:"items,omitempty"`
}

// HasDriver reports whether a driver is assigned.
func (o Order) HasDriver() bool {
	return o.DriverID != nil && *o.DriverID != ""
}

// Clone returns a deep copy; the copy shares no pointers or slices with o.
func (o Order) Clone() Order {
	c := o
	c.DriverID = cloneString(o.DriverID)
	c.DeliveryAddress = cloneString(o.DeliveryAddress)
	c.SpecialInstructions = cloneString(o.SpecialInstructions)
	c.CancellationReason = cloneString(o.CancellationReason)
	c.EstimatedDeliveryAt = cloneTime(o.EstimatedDeliveryAt)
	c.ActualDeliveryAt = cloneTime(o.ActualDeliveryAt)
	if o.Delivery != nil {
		d := *o.Delivery
		c.Delivery = &d
	}
	if o.Pickup != nil {
		p := *o.Pickup
		c.Pickup = &p
	}
	if o.Items != nil {
		c.Items = make([]Item, len(o.Items))
		for i, it := range o.Items {
			it.SpecialInstructions = cloneString(it.SpecialInstructions)
			c.Items[i] = it
		}
	}
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
