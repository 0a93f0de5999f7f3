package provider

import "sergei-eats/lifecycle"

type OpeningHours struct {
	Open  string `json:"open" yaml:"open"`
	Close string `json:"close" yaml:"close"`
}

type Restaurant struct {
	ID             string                  `json:"id" yaml:"id"`
	Name           string                  `json:"name" yaml:"name"`
	Description    string                  `json:"description" yaml:"description"`
	JobName        string                  `json:"job_name" yaml:"job_name"`
	Phone          string                  `json:"phone" yaml:"phone"`
	Email          string                  `json:"email" yaml:"email"`
	Address        string                  `json:"address" yaml:"address"`
	Location       lifecycle.Coordinates   `json:"location" yaml:"location"`
	Pickup         lifecycle.Coordinates   `json:"pickup" yaml:"pickup"`
	IsActive       bool                    `json:"is_active" yaml:"is_active"`
	DeliveryRadius float64                 `json:"delivery_radius" yaml:"delivery_radius"`
	MinOrderAmount float64                 `json:"min_order_amount" yaml:"min_order_amount"`
	DeliveryFee    float64                 `json:"delivery_fee" yaml:"delivery_fee"`
	TaxRate        float64                 `json:"tax_rate" yaml:"tax_rate"`
	CuisineType    string                  `json:"cuisine_type" yaml:"cuisine_type"`
	Rating         float64                 `json:"rating" yaml:"rating"`
	TotalOrders    int                     `json:"total_orders" yaml:"total_orders"`
	OpeningHours   map[string]OpeningHours `json:"opening_hours" yaml:"opening_hours"`
}

type MenuCategory struct {
	ID           int    `json:"id" yaml:"id"`
	RestaurantID string `json:"restaurant_id" yaml:"restaurant_id"`
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description" yaml:"description"`
	SortOrder    int    `json:"sort_order" yaml:"sort_order"`
	IsActive     bool   `json:"is_active" yaml:"is_active"`
}

type Nutrition struct {
	Calories int     `json:"calories" yaml:"calories"`
	Protein  float64 `json:"protein" yaml:"protein"`
	Carbs    float64 `json:"carbs" yaml:"carbs"`
	Fat      float64 `json:"fat" yaml:"fat"`
}

type MenuItem struct {
	ID              string    `json:"id" yaml:"id"`
	RestaurantID    string    `json:"restaurant_id" yaml:"restaurant_id"`
	CategoryID      int       `json:"category_id" yaml:"category_id"`
	Name            string    `json:"name" yaml:"name"`
	Description     string    `json:"description" yaml:"description"`
	Price           float64   `json:"price" yaml:"price"`
	OriginalPrice   *float64  `json:"original_price" yaml:"original_price"`
	ImageURL        *string   `json:"image_url" yaml:"image_url"`
	IsAvailable     bool      `json:"is_available" yaml:"is_available"`
	IsFeatured      bool      `json:"is_featured" yaml:"is_featured"`
	Allergens       []string  `json:"allergens" yaml:"allergens"`
	Nutrition       Nutrition `json:"nutrition_info" yaml:"nutrition_info"`
	PreparationTime int       `json:"preparation_time" yaml:"preparation_time"`
	SortOrder       int       `json:"sort_order" yaml:"sort_order"`
}
