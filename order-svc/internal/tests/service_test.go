package tests

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"sergei-eats/backend"
	"sergei-eats/lifecycle"
	"sergei-eats/order-svc/internal/domain"
	"sergei-eats/order-svc/internal/mocks"
	"sergei-eats/order-svc/internal/service"
	"sergei-eats/order-svc/internal/storage"
	"sergei-eats/pricing"
	"sergei-eats/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var clock = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func now() time.Time { return clock }

type fixture struct {
	svc     *service.OrderService
	store   *storage.MemoryStore
	catalog *provider.Memory
	bus     *storage.MemoryBus
}

func newFixture(t *testing.T, qr service.QRGenerator) fixture {
	t.Helper()
	seed, err := provider.DefaultSeed()
	require.NoError(t, err)

	catalog := provider.NewMemory(seed, now)
	store := storage.NewMemoryStore(seed.OrderBook(clock))
	bus := storage.NewMemoryBus(16)
	if qr == nil {
		qr = service.DefaultQRGenerator{BaseURL: "http://localhost:8080"}
	}

	svc := service.NewOrderService(service.Dependencies{
		Repository: store,
		Publisher:  bus,
		Catalog:    catalog,
		QR:         qr,
		Rules:      pricing.DefaultRules(),
		Now:        now,
	})
	return fixture{svc: svc, store: store, catalog: catalog, bus: bus}
}

func address(s string) *string { return &s }

func TestOrderService_Place(t *testing.T) {
	ctx := context.Background()
	qr := mocks.NewQRGenerator(t)
	qr.On("Generate", mock.AnythingOfType("string")).Return([]byte("png"), nil).Once()
	f := newFixture(t, qr)

	order, err := f.svc.Place(ctx, domain.PlaceOrderRequest{
		CustomerID:      "USER010",
		RestaurantID:    "uwu-cafe",
		PaymentMethod:   lifecycle.PaymentCard,
		DiscountCode:    " welcome10 ",
		DeliveryAddress: address("22 Grove Street"),
		Items: []domain.OrderLine{
			{ItemID: "uwu-coffee", Quantity: 2},
			{ItemID: "uwu-sandwich", Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "SE-2024-007", order.OrderNumber)
	assert.Equal(t, lifecycle.StatusPending, order.Status)
	assert.Equal(t, lifecycle.TypeDelivery, order.Type)
	assert.Equal(t, lifecycle.PaymentPaid, order.PaymentStatus)
	assert.Equal(t, int64(1), order.Version)
	assert.Equal(t, 18.00, order.Subtotal)
	assert.Equal(t, 1.80, order.DiscountAmount)
	assert.Equal(t, 3.00, order.DeliveryFee)
	assert.Equal(t, 1.30, order.TaxAmount)
	assert.Equal(t, 20.50, order.TotalAmount)
	assert.Equal(t, "WELCOME10", order.DiscountCode)
	require.NotNil(t, order.EstimatedDeliveryAt)
	assert.Equal(t, clock.Add(30*time.Minute), *order.EstimatedDeliveryAt)
	require.NotNil(t, order.Pickup)
	assert.Equal(t, lifecycle.Coordinates{X: 300, Y: -1200, Z: 29}, *order.Pickup)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Uwu Coffee", order.Items[0].Name)
	assert.Equal(t, 10.00, order.Items[0].TotalPrice)

	stored, err := f.store.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order, stored)

	welcome, err := f.catalog.FindDiscountByCode(ctx, "WELCOME10")
	require.NoError(t, err)
	assert.Equal(t, 1, welcome.UsedCount)

	png, err := f.svc.QRCode(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), png)
}

func TestOrderService_PlacePickupSkipsDeliveryFee(t *testing.T) {
	f := newFixture(t, nil)

	order, err := f.svc.Place(context.Background(), domain.PlaceOrderRequest{
		CustomerID:   "USER011",
		RestaurantID: "burger-shot",
		Type:         lifecycle.TypePickup,
		Items:        []domain.OrderLine{{ItemID: "bs-heartstopper", Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Zero(t, order.DeliveryFee)
	assert.Equal(t, 12.96, order.TotalAmount)
	assert.Equal(t, lifecycle.PaymentCash, order.PaymentMethod)
	assert.Equal(t, lifecycle.PaymentPending, order.PaymentStatus)
}

func TestOrderService_PlaceRejections(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	valid := func() domain.PlaceOrderRequest {
		return domain.PlaceOrderRequest{
			CustomerID:      "USER012",
			RestaurantID:    "uwu-cafe",
			DeliveryAddress: address("1 Mirror Park"),
			Items:           []domain.OrderLine{{ItemID: "uwu-sandwich", Quantity: 2}},
		}
	}

	tests := []struct {
		name          string
		mutate        func(*domain.PlaceOrderRequest)
		expectedError error
	}{
		{name: "missing_customer", mutate: func(r *domain.PlaceOrderRequest) { r.CustomerID = "" }, expectedError: service.ErrInvalidOrder},
		{name: "unknown_restaurant", mutate: func(r *domain.PlaceOrderRequest) { r.RestaurantID = "cluckin-bell" }, expectedError: service.ErrInvalidOrder},
		{name: "closed_restaurant", mutate: func(r *domain.PlaceOrderRequest) { r.RestaurantID = "bean-machine" }, expectedError: service.ErrRestaurantClosed},
		{name: "unavailable_item", mutate: func(r *domain.PlaceOrderRequest) {
			r.Items = []domain.OrderLine{{ItemID: "uwu-pumpkin-pie", Quantity: 3}}
		}, expectedError: service.ErrItemUnavailable},
		{name: "item_from_other_restaurant", mutate: func(r *domain.PlaceOrderRequest) {
			r.Items = []domain.OrderLine{{ItemID: "bs-heartstopper", Quantity: 1}}
		}, expectedError: service.ErrItemUnavailable},
		{name: "zero_quantity", mutate: func(r *domain.PlaceOrderRequest) { r.Items[0].Quantity = 0 }, expectedError: service.ErrInvalidOrder},
		{name: "empty_cart", mutate: func(r *domain.PlaceOrderRequest) { r.Items = nil }, expectedError: pricing.ErrEmptyCart},
		{name: "below_minimum", mutate: func(r *domain.PlaceOrderRequest) {
			r.Items = []domain.OrderLine{{ItemID: "uwu-croissant", Quantity: 1}}
		}, expectedError: pricing.ErrOrderBelowMinimum},
		{name: "above_maximum", mutate: func(r *domain.PlaceOrderRequest) { r.Items[0].Quantity = 70 }, expectedError: pricing.ErrOrderAboveMaximum},
		{name: "expired_code", mutate: func(r *domain.PlaceOrderRequest) { r.DiscountCode = "SUMMER2023" }, expectedError: pricing.ErrDiscountExpired},
		{name: "unknown_code", mutate: func(r *domain.PlaceOrderRequest) { r.DiscountCode = "FREEFOOD" }, expectedError: pricing.ErrInvalidDiscount},
		{name: "delivery_without_address", mutate: func(r *domain.PlaceOrderRequest) { r.DeliveryAddress = nil }, expectedError: service.ErrInvalidOrder},
		{name: "unknown_payment", mutate: func(r *domain.PlaceOrderRequest) { r.PaymentMethod = "crypto" }, expectedError: service.ErrInvalidOrder},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			req := valid()
			testCase.mutate(&req)
			_, err := f.svc.Place(ctx, req)
			assert.ErrorIs(t, err, testCase.expectedError)
		})
	}

	orders, err := f.store.List(ctx, domain.OrderFilter{CustomerID: "USER012"})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

// redeemFails stands in for a catalog whose code ran out between quote and redemption.
type redeemFails struct {
	*provider.Memory
}

func (redeemFails) RedeemDiscount(ctx context.Context, code string) error {
	return fmt.Errorf("discount %s: %w", code, pricing.ErrDiscountExhausted)
}

func welcomeOrder(customer string) domain.PlaceOrderRequest {
	return domain.PlaceOrderRequest{
		CustomerID:      customer,
		RestaurantID:    "uwu-cafe",
		DiscountCode:    "WELCOME10",
		DeliveryAddress: address("22 Grove Street"),
		Items: []domain.OrderLine{
			{ItemID: "uwu-coffee", Quantity: 2},
			{ItemID: "uwu-sandwich", Quantity: 1},
		},
	}
}

func TestOrderService_PlaceKeepsDiscountWhenStoreFails(t *testing.T) {
	ctx := context.Background()
	repository := mocks.NewOrderRepository(t)

	seed, err := provider.DefaultSeed()
	require.NoError(t, err)
	catalog := provider.NewMemory(seed, now)
	svc := service.NewOrderService(service.Dependencies{
		Repository: repository,
		Catalog:    catalog,
		Rules:      pricing.DefaultRules(),
		Now:        now,
	})

	repository.On("NextOrderNumber", ctx, 2024).Return("SE-2024-100", nil).Times(3)
	repository.On("Create", ctx, mock.Anything).Return(errors.New("disk full")).Times(3)

	for i := 0; i < 3; i++ {
		_, err := svc.Place(ctx, welcomeOrder("USER013"))
		assert.ErrorContains(t, err, "disk full")
	}

	welcome, err := catalog.FindDiscountByCode(ctx, "WELCOME10")
	require.NoError(t, err)
	assert.Zero(t, welcome.UsedCount)
}

func TestOrderService_PlaceRemovesOrderWhenRedeemFails(t *testing.T) {
	ctx := context.Background()
	seed, err := provider.DefaultSeed()
	require.NoError(t, err)

	store := storage.NewMemoryStore(seed.OrderBook(clock))
	svc := service.NewOrderService(service.Dependencies{
		Repository: store,
		Catalog:    redeemFails{provider.NewMemory(seed, now)},
		Rules:      pricing.DefaultRules(),
		Now:        now,
	})

	_, err = svc.Place(ctx, welcomeOrder("USER014"))
	assert.ErrorIs(t, err, pricing.ErrDiscountExhausted)

	orders, err := store.List(ctx, domain.OrderFilter{CustomerID: "USER014"})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_StaffCompletesPickup(t *testing.T) {
	tests := []struct {
		name string
		path []lifecycle.Status
	}{
		{name: "through_picked_up", path: []lifecycle.Status{
			lifecycle.StatusConfirmed, lifecycle.StatusPreparing, lifecycle.StatusReady,
			lifecycle.StatusPickedUp, lifecycle.StatusDelivering, lifecycle.StatusDelivered,
		}},
		{name: "straight_out", path: []lifecycle.Status{
			lifecycle.StatusConfirmed, lifecycle.StatusPreparing, lifecycle.StatusReady,
			lifecycle.StatusDelivering, lifecycle.StatusDelivered,
		}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newFixture(t, nil)
			ctx := context.Background()
			staff := backend.Actor{Role: backend.RoleStaff, ID: "STAFF1"}

			order, err := f.svc.Place(ctx, domain.PlaceOrderRequest{
				CustomerID:   "USER015",
				RestaurantID: "burger-shot",
				Type:         lifecycle.TypePickup,
				Items:        []domain.OrderLine{{ItemID: "bs-heartstopper", Quantity: 1}},
			})
			require.NoError(t, err)

			for _, target := range testCase.path {
				available, err := f.svc.Transitions(ctx, order.ID, staff)
				require.NoError(t, err)
				assert.Contains(t, available, target)

				order, err = f.svc.Transition(ctx, order.ID, target, staff, "")
				require.NoError(t, err)
				assert.Equal(t, target, order.Status)
			}

			assert.Nil(t, order.DriverID)
			require.NotNil(t, order.ActualDeliveryAt)
			assert.Equal(t, clock, *order.ActualDeliveryAt)

			available, err := f.svc.Transitions(ctx, order.ID, staff)
			require.NoError(t, err)
			assert.Empty(t, available)
		})
	}
}

func TestOrderService_Quote(t *testing.T) {
	f := newFixture(t, nil)

	quote, err := f.svc.Quote(context.Background(), domain.QuoteRequest{
		RestaurantID: "uwu-cafe",
		DiscountCode: "SAVE5",
		Items:        []domain.OrderLine{{ItemID: "uwu-croissant", Quantity: 1}},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, quote.DiscountErr, pricing.ErrDiscountMinimumNotMet)
	assert.ErrorIs(t, quote.PlacementErr, pricing.ErrOrderBelowMinimum)
	assert.Equal(t, 6.24, quote.Rounded().TotalAmount)

	_, err = f.svc.Quote(context.Background(), domain.QuoteRequest{RestaurantID: ""})
	assert.ErrorIs(t, err, service.ErrInvalidOrder)
}

func TestOrderService_Transitions(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	staff := backend.Actor{Role: backend.RoleStaff, ID: "STAFF1"}
	got, err := f.svc.Transitions(ctx, "ORDER002", staff)
	require.NoError(t, err)
	assert.Equal(t, []lifecycle.Status{lifecycle.StatusConfirmed, lifecycle.StatusCancelled}, got)

	got, err = f.svc.Transitions(ctx, "ORDER004", staff)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = f.svc.Transitions(ctx, "ORDER999", staff)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderService_Transition(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		orderID       string
		target        lifecycle.Status
		actor         backend.Actor
		reason        string
		expectedError error
		check         func(t *testing.T, o lifecycle.Order)
	}{
		{
			name: "staff_confirms", orderID: "ORDER002", target: lifecycle.StatusConfirmed,
			actor: backend.Actor{Role: backend.RoleStaff},
			check: func(t *testing.T, o lifecycle.Order) {
				assert.Equal(t, lifecycle.StatusConfirmed, o.Status)
				assert.Equal(t, int64(2), o.Version)
				assert.Equal(t, clock, o.UpdatedAt)
			},
		},
		{
			name: "customer_cancels_own_pending", orderID: "ORDER002", target: lifecycle.StatusCancelled,
			actor: backend.Actor{Role: backend.RoleCustomer, ID: "USER002"}, reason: " changed my mind ",
			check: func(t *testing.T, o lifecycle.Order) {
				assert.Equal(t, lifecycle.StatusCancelled, o.Status)
				require.NotNil(t, o.CancellationReason)
				assert.Equal(t, "changed my mind", *o.CancellationReason)
			},
		},
		{
			name: "customer_cancels_other_order", orderID: "ORDER002", target: lifecycle.StatusCancelled,
			actor: backend.Actor{Role: backend.RoleCustomer, ID: "USER999"}, expectedError: backend.ErrForbidden,
		},
		{
			name: "staff_hands_delivery_to_nobody", orderID: "ORDER004", target: lifecycle.StatusDelivering,
			actor: backend.Actor{Role: backend.RoleStaff}, expectedError: backend.ErrForbidden,
		},
		{
			name: "staff_cancels_delivered", orderID: "ORDER001", target: lifecycle.StatusCancelled,
			actor: backend.Actor{Role: backend.RoleStaff}, expectedError: lifecycle.ErrInvalidTransition,
		},
		{
			name: "admin_skips_ahead", orderID: "ORDER003", target: lifecycle.StatusDelivering,
			actor: backend.Actor{Role: backend.RoleAdmin}, expectedError: lifecycle.ErrInvalidTransition,
		},
		{
			name: "admin_refunds_ready", orderID: "ORDER004", target: lifecycle.StatusRefunded,
			actor: backend.Actor{Role: backend.RoleAdmin}, reason: "cold food",
			check: func(t *testing.T, o lifecycle.Order) {
				assert.Equal(t, lifecycle.StatusRefunded, o.Status)
				assert.Equal(t, lifecycle.PaymentRefunded, o.PaymentStatus)
			},
		},
		{
			name: "unknown_order", orderID: "ORDER999", target: lifecycle.StatusConfirmed,
			actor: backend.Actor{Role: backend.RoleAdmin}, expectedError: domain.ErrOrderNotFound,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newFixture(t, nil)
			before, _ := f.store.Get(ctx, testCase.orderID)

			got, err := f.svc.Transition(ctx, testCase.orderID, testCase.target, testCase.actor, testCase.reason)
			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				after, _ := f.store.Get(ctx, testCase.orderID)
				assert.Equal(t, before, after)
				return
			}

			require.NoError(t, err)
			testCase.check(t, got)
			stored, err := f.store.Get(ctx, testCase.orderID)
			require.NoError(t, err)
			assert.Equal(t, got, stored)
		})
	}
}

func TestOrderService_DeliveryHandOff(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	available, err := f.svc.Available(ctx)
	require.NoError(t, err)
	require.Len(t, available, 2)

	accepted, err := f.svc.AcceptDelivery(ctx, "ORDER004", "DRIVER003", "")
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusPickedUp, accepted.Status)
	assert.Equal(t, "DRIVER003", *accepted.DriverID)

	available, err = f.svc.Available(ctx)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "ORDER005", available[0].ID)

	_, err = f.svc.CompleteDelivery(ctx, "ORDER004", "DRIVER004")
	assert.ErrorIs(t, err, backend.ErrForbidden)

	moving, err := f.svc.Transition(ctx, "ORDER004", lifecycle.StatusDelivering, backend.Actor{Role: backend.RoleDriver, ID: "DRIVER003"}, "")
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusDelivering, moving.Status)

	done, err := f.svc.CompleteDelivery(ctx, "ORDER004", "DRIVER003")
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusDelivered, done.Status)
	require.NotNil(t, done.ActualDeliveryAt)
	assert.Equal(t, clock, *done.ActualDeliveryAt)
	assert.Equal(t, int64(4), done.Version)

	mine, err := f.svc.List(ctx, domain.OrderFilter{DriverID: "DRIVER003"})
	require.NoError(t, err)
	require.Len(t, mine, 1)
}

func TestOrderService_DriverRace(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	drivers := []string{"DRIVER001", "DRIVER002", "DRIVER003", "DRIVER004"}
	errs := make([]error, len(drivers))

	var wg sync.WaitGroup
	for i, driver := range drivers {
		wg.Add(1)
		go func(i int, driver string) {
			defer wg.Done()
			_, errs[i] = f.svc.AcceptDelivery(ctx, "ORDER005", driver, lifecycle.StatusPickedUp)
		}(i, driver)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		assert.ErrorIs(t, err, lifecycle.ErrDriverAlreadyAssigned)
	}
	assert.Equal(t, 1, winners)

	stored, err := f.store.Get(ctx, "ORDER005")
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusPickedUp, stored.Status)
	assert.Equal(t, int64(2), stored.Version)
}

func TestOrderService_RetriesOnVersionConflict(t *testing.T) {
	ctx := context.Background()
	repository := mocks.NewOrderRepository(t)
	publisher := mocks.NewOrderPublisher(t)
	cache := mocks.NewOrderCache(t)

	seed, err := provider.DefaultSeed()
	require.NoError(t, err)
	svc := service.NewOrderService(service.Dependencies{
		Repository: repository,
		Cache:      cache,
		Publisher:  publisher,
		Catalog:    provider.NewMemory(seed, now),
		Rules:      pricing.DefaultRules(),
		Now:        now,
	})

	ready := lifecycle.Order{ID: "ORDER004", CustomerID: "USER004", Status: lifecycle.StatusReady, Type: lifecycle.TypeDelivery, Version: 4}
	other := "DRIVER001"
	taken := ready
	taken.Status = lifecycle.StatusPickedUp
	taken.DriverID = &other
	taken.Version = 5

	repository.On("Get", ctx, "ORDER004").Return(ready, nil).Once()
	repository.On("Update", ctx, mock.Anything, int64(4)).Return(domain.ErrVersionConflict).Once()
	repository.On("Get", ctx, "ORDER004").Return(taken, nil).Once()

	_, err = svc.AcceptDelivery(ctx, "ORDER004", "DRIVER002", lifecycle.StatusPickedUp)
	assert.ErrorIs(t, err, lifecycle.ErrDriverAlreadyAssigned)

	repository.On("Get", ctx, "ORDER004").Return(ready, nil).Times(3)
	repository.On("Update", ctx, mock.Anything, int64(4)).Return(domain.ErrVersionConflict).Times(3)

	_, err = svc.AcceptDelivery(ctx, "ORDER004", "DRIVER002", lifecycle.StatusPickedUp)
	assert.ErrorIs(t, err, service.ErrConflict)

	repository.On("Get", ctx, "ORDER004").Return(ready, nil).Once()
	repository.On("Update", ctx, mock.Anything, int64(4)).Return(nil).Once()
	cache.On("Set", ctx, mock.MatchedBy(func(o lifecycle.Order) bool { return o.Version == 5 })).Return(errors.New("redis down")).Once()
	publisher.On("Publish", ctx, mock.MatchedBy(func(e backend.OrderEvent) bool {
		return e.Type == backend.EventOrderUpdated && e.PreviousStatus == lifecycle.StatusReady && e.Actor.ID == "DRIVER002"
	})).Return(errors.New("broker down")).Once()

	got, err := svc.AcceptDelivery(ctx, "ORDER004", "DRIVER002", lifecycle.StatusPickedUp)
	require.NoError(t, err)
	assert.Equal(t, "DRIVER002", *got.DriverID)
}

func TestOrderService_GetReadsThroughCache(t *testing.T) {
	ctx := context.Background()
	repository := mocks.NewOrderRepository(t)
	cache := mocks.NewOrderCache(t)
	svc := service.NewOrderService(service.Dependencies{Repository: repository, Cache: cache, Now: now})

	cached := lifecycle.Order{ID: "ORDER001", Status: lifecycle.StatusDelivered, Version: 6}
	cache.On("Get", ctx, "ORDER001").Return(&cached, nil).Once()

	got, err := svc.Get(ctx, "ORDER001")
	require.NoError(t, err)
	assert.Equal(t, cached, got)

	stored := lifecycle.Order{ID: "ORDER002", Status: lifecycle.StatusPending, Version: 1}
	cache.On("Get", ctx, "ORDER002").Return(nil, nil).Once()
	repository.On("Get", ctx, "ORDER002").Return(stored, nil).Once()
	cache.On("Set", ctx, stored).Return(nil).Once()

	got, err = svc.Get(ctx, "ORDER002")
	require.NoError(t, err)
	assert.Equal(t, stored, got)

	cache.On("Get", ctx, "ORDER404").Return(nil, errors.New("timeout")).Once()
	repository.On("Get", ctx, "ORDER404").Return(lifecycle.Order{}, domain.ErrOrderNotFound).Once()

	_, err = svc.Get(ctx, "ORDER404")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderService_QRCodeRegeneratesWhenMissing(t *testing.T) {
	ctx := context.Background()
	repository := mocks.NewOrderRepository(t)
	qr := mocks.NewQRGenerator(t)
	svc := service.NewOrderService(service.Dependencies{Repository: repository, QR: qr, Now: now})

	repository.On("GetQRCode", ctx, "ORDER001").Return(nil, nil).Once()
	qr.On("Generate", "ORDER001").Return([]byte("fresh"), nil).Once()
	repository.On("SaveQRCode", ctx, "ORDER001", []byte("fresh")).Return(nil).Once()

	got, err := svc.QRCode(ctx, "ORDER001")
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), got)

	repository.On("GetQRCode", ctx, "ORDER404").Return(nil, domain.ErrOrderNotFound).Once()
	_, err = svc.QRCode(ctx, "ORDER404")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	assert.Equal(t, "/api/orders/ORDER001/qrcode", svc.QRLink("ORDER001"))
}

func TestDefaultQRGenerator(t *testing.T) {
	png, err := service.DefaultQRGenerator{BaseURL: "http://localhost:8080/"}.Generate("ORDER001")
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}
