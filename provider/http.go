package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"sergei-eats/pricing"
)

// HTTP is the live client for the catalog service.
type HTTP struct {
	baseURL string
	client  HTTPClient
}

func NewHTTP(baseURL string, client HTTPClient) *HTTP {
	return &HTTP{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (h *HTTP) ListRestaurants(ctx context.Context) ([]Restaurant, error) {
	var out []Restaurant
	err := h.get(ctx, "/api/restaurants", &out)
	return out, err
}

func (h *HTTP) GetRestaurant(ctx context.Context, id string) (*Restaurant, error) {
	var out Restaurant
	if err := h.get(ctx, "/api/restaurants/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *HTTP) ListCategories(ctx context.Context, restaurantID string) ([]MenuCategory, error) {
	var out []MenuCategory
	err := h.get(ctx, "/api/restaurants/"+url.PathEscape(restaurantID)+"/categories", &out)
	return out, err
}

func (h *HTTP) ListMenuItems(ctx context.Context, restaurantID string) ([]MenuItem, error) {
	var out []MenuItem
	err := h.get(ctx, "/api/restaurants/"+url.PathEscape(restaurantID)+"/menu", &out)
	return out, err
}

func (h *HTTP) GetMenuItem(ctx context.Context, id string) (*MenuItem, error) {
	var out MenuItem
	if err := h.get(ctx, "/api/menu-items/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *HTTP) ListActiveDiscounts(ctx context.Context) ([]pricing.Discount, error) {
	var out []pricing.Discount
	err := h.get(ctx, "/api/discounts", &out)
	return out, err
}

func (h *HTTP) FindDiscountByCode(ctx context.Context, code string) (*pricing.Discount, error) {
	var out pricing.Discount
	err := h.get(ctx, "/api/discounts/"+url.PathEscape(pricing.NormalizeCode(code)), &out)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (h *HTTP) RedeemDiscount(ctx context.Context, code string) error {
	path := "/api/discounts/" + url.PathEscape(pricing.NormalizeCode(code)) + "/redeem"
	return h.do(ctx, http.MethodPost, path, nil)
}

func (h *HTTP) get(ctx context.Context, path string, out interface{}) error {
	return h.do(ctx, http.MethodGet, path, out)
}

func (h *HTTP) do(ctx context.Context, method, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	case resp.StatusCode == http.StatusConflict:
		return pricing.ErrDiscountExhausted
	case resp.StatusCode >= http.StatusBadRequest:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("catalog request %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
