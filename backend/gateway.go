// Package backend is the client side of the order service: fetching and
// submitting orders, receiving pushed snapshots, and keeping a local view that
// reconciles provisional changes with authoritative records.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"sergei-eats/lifecycle"
)

var ErrOrderNotFound = errors.New("order not found")

// Gateway is the transport between the presentation layer and the order
// service.
type Gateway interface {
	FetchOrder(ctx context.Context, id string) (lifecycle.Order, error)
	SubmitTransition(ctx context.Context, id string, target lifecycle.Status, actor Actor) (lifecycle.Order, error)
	SubscribeOrderUpdates(ctx context.Context, handler func(lifecycle.Order)) error
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Subscriber delivers pushed order events until ctx is done.
type Subscriber interface {
	Subscribe(ctx context.Context, handler func(OrderEvent)) error
}

// HTTPGateway talks to order-svc over REST and receives pushes from a
// Subscriber.
type HTTPGateway struct {
	baseURL string
	client  HTTPClient
	updates Subscriber
}

var _ Gateway = (*HTTPGateway)(nil)

func NewHTTPGateway(baseURL string, client HTTPClient, updates Subscriber) *HTTPGateway {
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		updates: updates,
	}
}

func (g *HTTPGateway) FetchOrder(ctx context.Context, id string) (lifecycle.Order, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/api/orders/"+url.PathEscape(id), nil)
	if err != nil {
		return lifecycle.Order{}, fmt.Errorf("failed to create request: %w", err)
	}
	return g.roundTrip(req)
}

type transitionRequest struct {
	Target lifecycle.Status `json:"target"`
	Actor
}

func (g *HTTPGateway) SubmitTransition(ctx context.Context, id string, target lifecycle.Status, actor Actor) (lifecycle.Order, error) {
	body, err := json.Marshal(transitionRequest{Target: target, Actor: actor})
	if err != nil {
		return lifecycle.Order{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/api/orders/"+url.PathEscape(id)+"/transitions", bytes.NewReader(body))
	if err != nil {
		return lifecycle.Order{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return g.roundTrip(req)
}

func (g *HTTPGateway) SubscribeOrderUpdates(ctx context.Context, handler func(lifecycle.Order)) error {
	if g.updates == nil {
		return errors.New("no update subscriber configured")
	}
	return g.updates.Subscribe(ctx, func(event OrderEvent) {
		handler(event.Order)
	})
}

func (g *HTTPGateway) roundTrip(req *http.Request) (lifecycle.Order, error) {
	resp, err := g.client.Do(req)
	if err != nil {
		return lifecycle.Order{}, fmt.Errorf("order service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return lifecycle.Order{}, responseError(resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var order lifecycle.Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return lifecycle.Order{}, fmt.Errorf("failed to decode order: %w", err)
	}
	return order, nil
}

// responseError turns an order-svc error response back into the sentinel it
// was produced from.
func responseError(code int, message string) error {
	var sentinel error
	switch code {
	case http.StatusNotFound:
		sentinel = ErrOrderNotFound
	case http.StatusForbidden:
		sentinel = ErrForbidden
	case http.StatusConflict:
		switch {
		case strings.Contains(message, lifecycle.ErrDriverAlreadyAssigned.Error()):
			sentinel = lifecycle.ErrDriverAlreadyAssigned
		case strings.Contains(message, lifecycle.ErrDriverRequired.Error()):
			sentinel = lifecycle.ErrDriverRequired
		default:
			sentinel = lifecycle.ErrInvalidTransition
		}
	default:
		return fmt.Errorf("order service returned %d: %s", code, message)
	}
	if message == "" || message == sentinel.Error() {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, message)
}
