package provider

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"time"

	"sergei-eats/lifecycle"
	"sergei-eats/pricing"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the catalog and order book the simulator starts from.
type Seed struct {
	Restaurants []Restaurant       `yaml:"restaurants"`
	Categories  []MenuCategory     `yaml:"menu_categories"`
	MenuItems   []MenuItem         `yaml:"menu_items"`
	Discounts   []pricing.Discount `yaml:"discounts"`
	Orders      []SeedOrder        `yaml:"orders"`
}

// SeedOrder times are offsets from the moment the seed is materialized.
type SeedOrder struct {
	ID                  string                  `yaml:"id"`
	OrderNumber         string                  `yaml:"order_number"`
	CustomerID          string                  `yaml:"user_id"`
	DriverID            string                  `yaml:"driver_id"`
	RestaurantID        string                  `yaml:"restaurant_id"`
	Status              lifecycle.Status        `yaml:"status"`
	Type                lifecycle.OrderType     `yaml:"order_type"`
	Subtotal            float64                 `yaml:"subtotal"`
	DeliveryFee         float64                 `yaml:"delivery_fee"`
	TaxAmount           float64                 `yaml:"tax_amount"`
	DiscountAmount      float64                 `yaml:"discount_amount"`
	TotalAmount         float64                 `yaml:"total_amount"`
	PaymentMethod       lifecycle.PaymentMethod `yaml:"payment_method"`
	PaymentStatus       lifecycle.PaymentStatus `yaml:"payment_status"`
	DeliveryAddress     string                  `yaml:"delivery_address"`
	Delivery            *lifecycle.Coordinates  `yaml:"delivery"`
	Pickup              *lifecycle.Coordinates  `yaml:"pickup"`
	SpecialInstructions string                  `yaml:"special_instructions"`
	CreatedOffset       time.Duration           `yaml:"created_offset"`
	UpdatedOffset       time.Duration           `yaml:"updated_offset"`
	EstimatedOffset     *time.Duration          `yaml:"estimated_offset"`
	DeliveredOffset     *time.Duration          `yaml:"delivered_offset"`
	Items               []SeedItem              `yaml:"items"`
}

type SeedItem struct {
	ItemID              string  `yaml:"item_id"`
	Name                string  `yaml:"item_name"`
	Quantity            int     `yaml:"quantity"`
	UnitPrice           float64 `yaml:"unit_price"`
	SpecialInstructions string  `yaml:"special_instructions"`
}

func DefaultSeed() (*Seed, error) {
	return parseSeed(defaultSeed)
}

func LoadSeed(r io.Reader) (*Seed, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed: %w", err)
	}
	return parseSeed(data)
}

func LoadSeedFile(path string) (*Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	return LoadSeed(f)
}

func parseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	for _, o := range seed.Orders {
		if !o.Status.Valid() {
			return nil, fmt.Errorf("seed order %s: %w: %q", o.ID, lifecycle.ErrUnknownStatus, o.Status)
		}
	}
	return &seed, nil
}

// OrderBook materializes the seeded orders relative to now.
func (s *Seed) OrderBook(now time.Time) []lifecycle.Order {
	orders := make([]lifecycle.Order, 0, len(s.Orders))
	for _, so := range s.Orders {
		o := lifecycle.Order{
			ID:             so.ID,
			OrderNumber:    so.OrderNumber,
			CustomerID:     so.CustomerID,
			RestaurantID:   so.RestaurantID,
			Status:         so.Status,
			Type:           so.Type,
			Subtotal:       so.Subtotal,
			DeliveryFee:    so.DeliveryFee,
			TaxAmount:      so.TaxAmount,
			DiscountAmount: so.DiscountAmount,
			TotalAmount:    so.TotalAmount,
			PaymentMethod:  so.PaymentMethod,
			PaymentStatus:  so.PaymentStatus,
			Delivery:       so.Delivery,
			Pickup:         so.Pickup,
			CreatedAt:      now.Add(so.CreatedOffset),
			UpdatedAt:      now.Add(so.UpdatedOffset),
			Version:        1,
		}
		if o.Type == "" {
			o.Type = lifecycle.TypeDelivery
		}
		o.DriverID = optional(so.DriverID)
		o.DeliveryAddress = optional(so.DeliveryAddress)
		o.SpecialInstructions = optional(so.SpecialInstructions)
		if so.EstimatedOffset != nil {
			t := now.Add(*so.EstimatedOffset)
			o.EstimatedDeliveryAt = &t
		}
		if so.DeliveredOffset != nil {
			t := now.Add(*so.DeliveredOffset)
			o.ActualDeliveryAt = &t
		}
		for _, it := range so.Items {
			o.Items = append(o.Items, lifecycle.Item{
				ItemID:              it.ItemID,
				Name:                it.Name,
				Quantity:            it.Quantity,
				UnitPrice:           it.UnitPrice,
				TotalPrice:          pricing.RoundCents(it.UnitPrice * float64(it.Quantity)),
				SpecialInstructions: optional(it.SpecialInstructions),
			})
		}
		orders = append(orders, o)
	}
	return orders
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
