package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sergei-eats/backend"
	"sergei-eats/lifecycle"
	"sergei-eats/order-svc/internal/domain"
	"sergei-eats/pricing"
	"sergei-eats/provider"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidOrder     = errors.New("invalid order")
	ErrRestaurantClosed = errors.New("restaurant is not accepting orders")
	ErrItemUnavailable  = errors.New("menu item unavailable")
	ErrConflict         = errors.New("order is busy, try again")
)

const (
	estimatedDelivery = 30 * time.Minute
	maxUpdateAttempts = 3
)

type Dependencies struct {
	Repository OrderRepository
	Cache      OrderCache
	Publisher  OrderPublisher
	Catalog    provider.Catalog
	QR         QRGenerator
	Rules      pricing.Rules
	Logger     *zap.Logger
	Now        func() time.Time
}

// OrderService is the authoritative side of the backend gateway. Every
// mutation is planned by the lifecycle engine and committed with a version
// compare-and-swap, so concurrent requests for one order serialize in the store.
type OrderService struct {
	repository OrderRepository
	cache      OrderCache
	publisher  OrderPublisher
	catalog    provider.Catalog
	qr         QRGenerator
	engine     *lifecycle.Engine
	calculator *pricing.Calculator
	logger     *zap.Logger
	now        func() time.Time
}

func NewOrderService(deps Dependencies) *OrderService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		repository: deps.Repository,
		cache:      deps.Cache,
		publisher:  deps.Publisher,
		catalog:    deps.Catalog,
		qr:         deps.QR,
		engine:     lifecycle.NewEngine(now),
		calculator: pricing.NewCalculator(deps.Rules, deps.Catalog, now),
		logger:     logger,
		now:        now,
	}
}

func (s *OrderService) Quote(ctx context.Context, req domain.QuoteRequest) (pricing.Quote, error) {
	restaurant, lines, _, err := s.resolveCart(ctx, req.RestaurantID, req.Items)
	if err != nil {
		return pricing.Quote{}, err
	}
	return s.price(ctx, restaurant, orderTypeOrDefault(req.Type), lines, req.DiscountCode)
}

func (s *OrderService) ValidateDiscount(ctx context.Context, code string, subtotal float64) (*pricing.Discount, error) {
	return s.calculator.ValidateCode(ctx, code, subtotal)
}

func (s *OrderService) Place(ctx context.Context, req domain.PlaceOrderRequest) (lifecycle.Order, error) {
	req.Type = orderTypeOrDefault(req.Type)
	if req.PaymentMethod == "" {
		req.PaymentMethod = lifecycle.PaymentCash
	}
	if err := validatePlacement(req); err != nil {
		return lifecycle.Order{}, err
	}

	restaurant, lines, items, err := s.resolveCart(ctx, req.RestaurantID, req.Items)
	if err != nil {
		return lifecycle.Order{}, err
	}
	quote, err := s.price(ctx, restaurant, req.Type, lines, req.DiscountCode)
	if err != nil {
		return lifecycle.Order{}, err
	}
	if quote.DiscountErr != nil {
		return lifecycle.Order{}, fmt.Errorf("discount %s: %w", pricing.NormalizeCode(req.DiscountCode), quote.DiscountErr)
	}
	if quote.PlacementErr != nil {
		return lifecycle.Order{}, quote.PlacementErr
	}

	now := s.now()
	number, err := s.repository.NextOrderNumber(ctx, now.Year())
	if err != nil {
		return lifecycle.Order{}, fmt.Errorf("failed to allocate order number: %w", err)
	}

	amounts := quote.Rounded()
	eta := now.Add(estimatedDelivery)
	order := lifecycle.Order{
		ID:                  uuid.NewString(),
		OrderNumber:         number,
		CustomerID:          req.CustomerID,
		RestaurantID:        restaurant.ID,
		Status:              lifecycle.StatusPending,
		Type:                req.Type,
		Subtotal:            amounts.Subtotal,
		DeliveryFee:         amounts.DeliveryFee,
		TaxAmount:           amounts.TaxAmount,
		DiscountAmount:      amounts.DiscountAmount,
		TotalAmount:         amounts.TotalAmount,
		PaymentMethod:       req.PaymentMethod,
		PaymentStatus:       lifecycle.PaymentPending,
		DeliveryAddress:     req.DeliveryAddress,
		Delivery:            req.Delivery,
		SpecialInstructions: req.SpecialInstructions,
		EstimatedDeliveryAt: &eta,
		CreatedAt:           now,
		UpdatedAt:           now,
		Version:             1,
		Items:               items,
	}
	if quote.Discount != nil {
		order.DiscountCode = quote.Discount.Code
	}
	if req.PaymentMethod == lifecycle.PaymentCard || req.PaymentMethod == lifecycle.PaymentBank {
		order.PaymentStatus = lifecycle.PaymentPaid
	}
	if restaurant.Pickup != (lifecycle.Coordinates{}) {
		pickup := restaurant.Pickup
		order.Pickup = &pickup
	}

	if err := s.repository.Create(ctx, order); err != nil {
		return lifecycle.Order{}, fmt.Errorf("failed to store order: %w", err)
	}
	// The code is only used up once an order exists to carry it.
	if quote.Discount != nil {
		if err := s.catalog.RedeemDiscount(ctx, quote.Discount.Code); err != nil {
			if delErr := s.repository.Delete(ctx, order.ID); delErr != nil {
				s.logger.Error("failed to remove order after discount redemption failed",
					zap.String("order_id", order.ID), zap.Error(delErr))
			}
			return lifecycle.Order{}, fmt.Errorf("failed to redeem discount: %w", err)
		}
	}

	s.issueReceipt(ctx, order.ID)
	s.afterWrite(ctx, backend.EventOrderPlaced, order, "", &backend.Actor{Role: backend.RoleCustomer, ID: order.CustomerID})
	s.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("restaurant_id", order.RestaurantID),
		zap.Float64("total_amount", order.TotalAmount))
	return order, nil
}

// Get reads through the snapshot cache.
func (s *OrderService) Get(ctx context.Context, id string) (lifecycle.Order, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.Warn("order cache read failed", zap.String("order_id", id), zap.Error(err))
		} else if cached != nil {
			return *cached, nil
		}
	}

	order, err := s.repository.Get(ctx, id)
	if err != nil {
		return lifecycle.Order{}, err
	}
	s.cacheOrder(ctx, order)
	return order, nil
}

func (s *OrderService) List(ctx context.Context, filter domain.OrderFilter) ([]lifecycle.Order, error) {
	return s.repository.List(ctx, filter)
}

// Available lists ready delivery orders no driver has taken yet.
func (s *OrderService) Available(ctx context.Context) ([]lifecycle.Order, error) {
	return s.repository.List(ctx, domain.OrderFilter{
		Status:     lifecycle.StatusReady,
		Type:       lifecycle.TypeDelivery,
		Unassigned: true,
	})
}

func (s *OrderService) Transitions(ctx context.Context, id string, actor backend.Actor) ([]lifecycle.Status, error) {
	order, err := s.repository.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return backend.AvailableFor(s.engine, actor, order), nil
}

func (s *OrderService) Transition(ctx context.Context, id string, target lifecycle.Status, actor backend.Actor, reason string) (lifecycle.Order, error) {
	return s.mutate(ctx, id, actor, func(current lifecycle.Order) (lifecycle.Order, error) {
		switch target {
		case lifecycle.StatusCancelled:
			if err := backend.Permits(actor, current, target); err != nil {
				return lifecycle.Order{}, err
			}
			return s.engine.Cancel(current, reason)
		case lifecycle.StatusRefunded:
			if err := backend.Permits(actor, current, target); err != nil {
				return lifecycle.Order{}, err
			}
			return s.engine.Refund(current, reason)
		case lifecycle.StatusPickedUp, lifecycle.StatusDelivering:
			// the losing side of an acceptance race may only see the order
			// after the winner has moved it on
			if actor.Role == backend.RoleDriver && takenByOther(actor, current) {
				return lifecycle.Order{}, &lifecycle.TransitionError{
					OrderID: current.ID, From: current.Status, To: target, Err: lifecycle.ErrDriverAlreadyAssigned,
				}
			}
		}
		return backend.Plan(s.engine, actor, current, target)
	})
}

// AcceptDelivery hands a ready order to driverID. Of several drivers racing for
// the same order exactly one wins; the rest get lifecycle.ErrDriverAlreadyAssigned.
func (s *OrderService) AcceptDelivery(ctx context.Context, id, driverID string, target lifecycle.Status) (lifecycle.Order, error) {
	if target == "" {
		target = lifecycle.StatusPickedUp
	}
	return s.Transition(ctx, id, target, backend.Actor{Role: backend.RoleDriver, ID: driverID}, "")
}

func (s *OrderService) CompleteDelivery(ctx context.Context, id, driverID string) (lifecycle.Order, error) {
	return s.Transition(ctx, id, lifecycle.StatusDelivered, backend.Actor{Role: backend.RoleDriver, ID: driverID}, "")
}

func (s *OrderService) Cancel(ctx context.Context, id string, actor backend.Actor, reason string) (lifecycle.Order, error) {
	return s.Transition(ctx, id, lifecycle.StatusCancelled, actor, reason)
}

func (s *OrderService) Refund(ctx context.Context, id, reason string) (lifecycle.Order, error) {
	return s.Transition(ctx, id, lifecycle.StatusRefunded, backend.Actor{Role: backend.RoleAdmin}, reason)
}

// QRCode returns the receipt PNG, regenerating it when none was stored.
func (s *OrderService) QRCode(ctx context.Context, id string) ([]byte, error) {
	qr, err := s.repository.GetQRCode(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(qr) > 0 {
		return qr, nil
	}

	qr, err = s.qr.Generate(id)
	if err != nil {
		return nil, fmt.Errorf("failed to generate qr code: %w", err)
	}
	if err := s.repository.SaveQRCode(ctx, id, qr); err != nil {
		s.logger.Warn("failed to store qr code", zap.String("order_id", id), zap.Error(err))
	}
	return qr, nil
}

func (s *OrderService) QRLink(id string) string {
	return fmt.Sprintf("/api/orders/%s/qrcode", id)
}

// mutate loads the stored order, plans the change and commits it if nobody
// else wrote in between. On a lost race the plan is rerun against the fresh
// record, which is how a second driver learns the order is taken.
func (s *OrderService) mutate(ctx context.Context, id string, actor backend.Actor, plan func(lifecycle.Order) (lifecycle.Order, error)) (lifecycle.Order, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		current, err := s.repository.Get(ctx, id)
		if err != nil {
			return lifecycle.Order{}, err
		}

		next, err := plan(current)
		if err != nil {
			return lifecycle.Order{}, err
		}

		err = s.repository.Update(ctx, next, current.Version)
		if errors.Is(err, domain.ErrVersionConflict) {
			s.logger.Debug("order version conflict, retrying",
				zap.String("order_id", id), zap.Int64("version", current.Version), zap.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			return lifecycle.Order{}, fmt.Errorf("failed to update order: %w", err)
		}

		s.afterWrite(ctx, backend.EventOrderUpdated, next, current.Status, &actor)
		s.logger.Info("order status changed",
			zap.String("order_id", id),
			zap.String("from", string(current.Status)),
			zap.String("to", string(next.Status)),
			zap.String("actor_role", string(actor.Role)))
		return next, nil
	}
	return lifecycle.Order{}, ErrConflict
}

func (s *OrderService) afterWrite(ctx context.Context, eventType backend.EventType, order lifecycle.Order, previous lifecycle.Status, actor *backend.Actor) {
	s.cacheOrder(ctx, order)
	if s.publisher == nil {
		return
	}
	event := backend.NewOrderEvent(eventType, order, previous, actor, s.now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish order event",
			zap.String("order_id", order.ID), zap.String("type", string(eventType)), zap.Error(err))
	}
}

func (s *OrderService) cacheOrder(ctx context.Context, order lifecycle.Order) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, order); err != nil {
		s.logger.Warn("order cache write failed", zap.String("order_id", order.ID), zap.Error(err))
	}
}

func (s *OrderService) issueReceipt(ctx context.Context, id string) {
	if s.qr == nil {
		return
	}
	qr, err := s.qr.Generate(id)
	if err == nil {
		err = s.repository.SaveQRCode(ctx, id, qr)
	}
	if err != nil {
		s.logger.Warn("failed to issue receipt qr code", zap.String("order_id", id), zap.Error(err))
	}
}

// resolveCart prices each line from the catalog. Clients never supply prices.
func (s *OrderService) resolveCart(ctx context.Context, restaurantID string, lines []domain.OrderLine) (*provider.Restaurant, []pricing.LineItem, []lifecycle.Item, error) {
	if strings.TrimSpace(restaurantID) == "" {
		return nil, nil, nil, fmt.Errorf("%w: restaurant_id is required", ErrInvalidOrder)
	}
	restaurant, err := s.catalog.GetRestaurant(ctx, restaurantID)
	if errors.Is(err, provider.ErrNotFound) {
		return nil, nil, nil, fmt.Errorf("%w: unknown restaurant %q", ErrInvalidOrder, restaurantID)
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load restaurant: %w", err)
	}
	if !restaurant.IsActive {
		return nil, nil, nil, fmt.Errorf("%w: %s", ErrRestaurantClosed, restaurant.Name)
	}

	priced := make([]pricing.LineItem, 0, len(lines))
	items := make([]lifecycle.Item, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, nil, nil, fmt.Errorf("%w: quantity for %q must be positive", ErrInvalidOrder, line.ItemID)
		}
		menuItem, err := s.catalog.GetMenuItem(ctx, line.ItemID)
		if errors.Is(err, provider.ErrNotFound) {
			return nil, nil, nil, fmt.Errorf("%w: %q", ErrItemUnavailable, line.ItemID)
		}
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to load menu item: %w", err)
		}
		if menuItem.RestaurantID != restaurant.ID || !menuItem.IsAvailable {
			return nil, nil, nil, fmt.Errorf("%w: %q", ErrItemUnavailable, line.ItemID)
		}

		li := pricing.LineItem{ItemID: menuItem.ID, Name: menuItem.Name, UnitPrice: menuItem.Price, Quantity: line.Quantity}
		priced = append(priced, li)
		items = append(items, lifecycle.Item{
			ItemID:              menuItem.ID,
			Name:                menuItem.Name,
			Quantity:            line.Quantity,
			UnitPrice:           menuItem.Price,
			TotalPrice:          pricing.RoundCents(li.Total()),
			SpecialInstructions: line.SpecialInstructions,
		})
	}
	return restaurant, priced, items, nil
}

// price applies the restaurant's fee and tax rate. Pickup orders carry no
// delivery fee, and a restaurant minimum above the global one also gates
// placement.
func (s *OrderService) price(ctx context.Context, restaurant *provider.Restaurant, orderType lifecycle.OrderType, lines []pricing.LineItem, code string) (pricing.Quote, error) {
	fee := restaurant.DeliveryFee
	if orderType == lifecycle.TypePickup {
		fee = 0
	}
	quote, err := s.calculator.ComputeTotal(ctx, lines, fee, restaurant.TaxRate, code)
	if err != nil {
		return pricing.Quote{}, err
	}
	if quote.PlacementErr == nil && quote.TotalAmount < restaurant.MinOrderAmount {
		quote.PlacementErr = fmt.Errorf("%w: %s requires %.2f", pricing.ErrOrderBelowMinimum, restaurant.Name, restaurant.MinOrderAmount)
	}
	return quote, nil
}

func validatePlacement(req domain.PlaceOrderRequest) error {
	switch {
	case strings.TrimSpace(req.CustomerID) == "":
		return fmt.Errorf("%w: user_id is required", ErrInvalidOrder)
	case req.Type != lifecycle.TypeDelivery && req.Type != lifecycle.TypePickup:
		return fmt.Errorf("%w: unknown order type %q", ErrInvalidOrder, req.Type)
	}
	switch req.PaymentMethod {
	case lifecycle.PaymentCash, lifecycle.PaymentCard, lifecycle.PaymentBank:
	default:
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidOrder, req.PaymentMethod)
	}
	if req.Type == lifecycle.TypeDelivery && req.Delivery == nil &&
		(req.DeliveryAddress == nil || strings.TrimSpace(*req.DeliveryAddress) == "") {
		return fmt.Errorf("%w: delivery orders need an address", ErrInvalidOrder)
	}
	return nil
}

func orderTypeOrDefault(t lifecycle.OrderType) lifecycle.OrderType {
	if t == "" {
		return lifecycle.TypeDelivery
	}
	return t
}

func takenByOther(actor backend.Actor, order lifecycle.Order) bool {
	return order.HasDriver() && *order.DriverID != actor.ID
}
