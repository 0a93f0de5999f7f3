package tests

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"sergei-eats/backend"
	"sergei-eats/lifecycle"
	httpapi "sergei-eats/order-svc/internal/api/http"
	"sergei-eats/order-svc/internal/domain"
	"sergei-eats/order-svc/internal/mocks"
	"sergei-eats/order-svc/internal/service"
	"sergei-eats/pricing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(mockSvc *mocks.OrderServiceInterface) *mux.Router {
	handler := httpapi.NewHandler(mockSvc, nil)
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func TestHandler_createOrder(t *testing.T) {
	mockSvc := mocks.NewOrderServiceInterface(t)
	router := setupTestRouter(mockSvc)

	tests := []struct {
		name         string
		payload      string
		prepareMocks func()
		expectedCode int
		expectedBody string
	}{
		{
			name:    "success",
			payload: `{"user_id":"USER010","restaurant_id":"uwu-cafe","items":[{"item_id":"uwu-coffee","quantity":2}]}`,
			prepareMocks: func() {
				mockSvc.On("Place", mock.Anything, mock.MatchedBy(func(r domain.PlaceOrderRequest) bool {
					return r.RestaurantID == "uwu-cafe" && len(r.Items) == 1 && r.Items[0].Quantity == 2
				})).Return(lifecycle.Order{ID: "abc", OrderNumber: "SE-2024-007", Status: lifecycle.StatusPending}, nil).Once()
				mockSvc.On("QRLink", "abc").Return("/api/orders/abc/qrcode").Once()
			},
			expectedCode: http.StatusCreated,
			expectedBody: `"qr_code":"/api/orders/abc/qrcode"`,
		},
		{
			name:         "invalid_json",
			payload:      `bad json`,
			prepareMocks: func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:    "below_minimum",
			payload: `{"user_id":"USER010","restaurant_id":"uwu-cafe","items":[{"item_id":"uwu-croissant","quantity":1}]}`,
			prepareMocks: func() {
				mockSvc.On("Place", mock.Anything, mock.Anything).Return(lifecycle.Order{}, pricing.ErrOrderBelowMinimum).Once()
			},
			expectedCode: http.StatusUnprocessableEntity,
			expectedBody: "below the minimum",
		},
		{
			name:    "expired_discount",
			payload: `{"user_id":"USER010","restaurant_id":"uwu-cafe","discount_code":"SUMMER2023"}`,
			prepareMocks: func() {
				mockSvc.On("Place", mock.Anything, mock.Anything).
					Return(lifecycle.Order{}, fmt.Errorf("discount SUMMER2023: %w", pricing.ErrDiscountExpired)).Once()
			},
			expectedCode: http.StatusUnprocessableEntity,
		},
		{
			name:    "missing_fields",
			payload: `{}`,
			prepareMocks: func() {
				mockSvc.On("Place", mock.Anything, mock.Anything).Return(lifecycle.Order{}, service.ErrInvalidOrder).Once()
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:    "store_down",
			payload: `{}`,
			prepareMocks: func() {
				mockSvc.On("Place", mock.Anything, mock.Anything).Return(lifecycle.Order{}, errors.New("connection refused")).Once()
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			testCase.prepareMocks()
			req := httptest.NewRequest("POST", "/api/orders", bytes.NewBufferString(testCase.payload))
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)
			assert.Equal(t, testCase.expectedCode, recorder.Code)
			if testCase.expectedBody != "" {
				assert.Contains(t, recorder.Body.String(), testCase.expectedBody)
			}
		})
	}
}

func TestHandler_submitTransition(t *testing.T) {
	mockSvc := mocks.NewOrderServiceInterface(t)
	router := setupTestRouter(mockSvc)

	driver := backend.Actor{Role: backend.RoleDriver, ID: "DRIVER002"}

	tests := []struct {
		name         string
		payload      string
		prepareMocks func()
		expectedCode int
		expectedBody string
	}{
		{
			name:    "success",
			payload: `{"target":"confirmed","actor_role":"staff","actor_id":"STAFF1"}`,
			prepareMocks: func() {
				mockSvc.On("Transition", mock.Anything, "ORDER002", lifecycle.StatusConfirmed,
					backend.Actor{Role: backend.RoleStaff, ID: "STAFF1"}, "").
					Return(lifecycle.Order{ID: "ORDER002", Status: lifecycle.StatusConfirmed, Version: 2}, nil).Once()
			},
			expectedCode: http.StatusOK,
			expectedBody: `"status":"confirmed"`,
		},
		{
			name:         "unknown_status",
			payload:      `{"target":"teleported","actor_role":"staff"}`,
			prepareMocks: func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "unknown_role",
			payload:      `{"target":"confirmed","actor_role":"chef"}`,
			prepareMocks: func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:    "driver_race_lost",
			payload: `{"target":"picked_up","actor_role":"driver","actor_id":"DRIVER002"}`,
			prepareMocks: func() {
				mockSvc.On("Transition", mock.Anything, "ORDER002", lifecycle.StatusPickedUp, driver, "").
					Return(lifecycle.Order{}, &lifecycle.TransitionError{
						OrderID: "ORDER002", From: lifecycle.StatusPickedUp, To: lifecycle.StatusPickedUp,
						Err: lifecycle.ErrDriverAlreadyAssigned,
					}).Once()
			},
			expectedCode: http.StatusConflict,
			expectedBody: "order no longer available",
		},
		{
			name:    "forbidden",
			payload: `{"target":"delivering","actor_role":"driver","actor_id":"DRIVER002"}`,
			prepareMocks: func() {
				mockSvc.On("Transition", mock.Anything, "ORDER002", lifecycle.StatusDelivering, driver, "").
					Return(lifecycle.Order{}, backend.ErrForbidden).Once()
			},
			expectedCode: http.StatusForbidden,
		},
		{
			name:    "not_found",
			payload: `{"target":"confirmed","actor_role":"admin"}`,
			prepareMocks: func() {
				mockSvc.On("Transition", mock.Anything, "ORDER002", lifecycle.StatusConfirmed, backend.Actor{Role: backend.RoleAdmin}, "").
					Return(lifecycle.Order{}, domain.ErrOrderNotFound).Once()
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:    "busy",
			payload: `{"target":"confirmed","actor_role":"admin"}`,
			prepareMocks: func() {
				mockSvc.On("Transition", mock.Anything, "ORDER002", lifecycle.StatusConfirmed, backend.Actor{Role: backend.RoleAdmin}, "").
					Return(lifecycle.Order{}, service.ErrConflict).Once()
			},
			expectedCode: http.StatusServiceUnavailable,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			testCase.prepareMocks()
			req := httptest.NewRequest("POST", "/api/orders/ORDER002/transitions", bytes.NewBufferString(testCase.payload))
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)
			assert.Equal(t, testCase.expectedCode, recorder.Code)
			if testCase.expectedBody != "" {
				assert.Contains(t, recorder.Body.String(), testCase.expectedBody)
			}
		})
	}
}

func TestHandler_driverEndpoints(t *testing.T) {
	mockSvc := mocks.NewOrderServiceInterface(t)
	router := setupTestRouter(mockSvc)
	driverID := "DRIVER001"

	mockSvc.On("AcceptDelivery", mock.Anything, "ORDER004", "DRIVER001", lifecycle.Status("")).
		Return(lifecycle.Order{ID: "ORDER004", Status: lifecycle.StatusPickedUp, DriverID: &driverID}, nil).Once()
	mockSvc.On("CompleteDelivery", mock.Anything, "ORDER004", "DRIVER001").
		Return(lifecycle.Order{ID: "ORDER004", Status: lifecycle.StatusDelivered, DriverID: &driverID}, nil).Once()
	mockSvc.On("Available", mock.Anything).Return([]lifecycle.Order{{ID: "ORDER005"}}, nil).Once()

	tests := []struct {
		name         string
		method       string
		path         string
		payload      string
		expectedCode int
		expectedBody string
	}{
		{name: "accept", method: "POST", path: "/api/orders/ORDER004/accept", payload: `{"driver_id":"DRIVER001"}`,
			expectedCode: http.StatusOK, expectedBody: `"status":"picked_up"`},
		{name: "accept_without_driver", method: "POST", path: "/api/orders/ORDER004/accept", payload: `{}`,
			expectedCode: http.StatusBadRequest},
		{name: "complete", method: "POST", path: "/api/orders/ORDER004/complete", payload: `{"driver_id":"DRIVER001"}`,
			expectedCode: http.StatusOK, expectedBody: `"status":"delivered"`},
		{name: "available", method: "GET", path: "/api/orders/available",
			expectedCode: http.StatusOK, expectedBody: `"id":"ORDER005"`},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			req := httptest.NewRequest(testCase.method, testCase.path, bytes.NewBufferString(testCase.payload))
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)
			assert.Equal(t, testCase.expectedCode, recorder.Code)
			if testCase.expectedBody != "" {
				assert.Contains(t, recorder.Body.String(), testCase.expectedBody)
			}
		})
	}
}

func TestHandler_cancelAndRefund(t *testing.T) {
	mockSvc := mocks.NewOrderServiceInterface(t)
	router := setupTestRouter(mockSvc)

	mockSvc.On("Cancel", mock.Anything, "ORDER002", backend.Actor{Role: backend.RoleCustomer, ID: "USER002"}, "too slow").
		Return(lifecycle.Order{ID: "ORDER002", Status: lifecycle.StatusCancelled}, nil).Once()
	mockSvc.On("Refund", mock.Anything, "ORDER004", "cold").
		Return(lifecycle.Order{ID: "ORDER004", Status: lifecycle.StatusRefunded}, nil).Once()

	req := httptest.NewRequest("POST", "/api/orders/ORDER002/cancel",
		bytes.NewBufferString(`{"actor_role":"customer","actor_id":"USER002","reason":"too slow"}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)

	req = httptest.NewRequest("POST", "/api/orders/ORDER004/refund", bytes.NewBufferString(`{"actor_role":"admin","reason":"cold"}`))
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"refunded"`)

	refusals := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "staff", body: `{"actor_role":"staff"}`, wantCode: http.StatusForbidden},
		{name: "no_role", body: `{"reason":"cold"}`, wantCode: http.StatusBadRequest},
		{name: "unknown_role", body: `{"actor_role":"chef"}`, wantCode: http.StatusBadRequest},
	}
	for _, testCase := range refusals {
		t.Run(testCase.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/orders/ORDER004/refund", bytes.NewBufferString(testCase.body))
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)
			assert.Equal(t, testCase.wantCode, recorder.Code)
		})
	}
}

func TestHandler_quoteAndDiscounts(t *testing.T) {
	mockSvc := mocks.NewOrderServiceInterface(t)
	router := setupTestRouter(mockSvc)

	mockSvc.On("Quote", mock.Anything, mock.Anything).Return(pricing.Quote{
		Breakdown:    pricing.Breakdown{Subtotal: 3, DeliveryFee: 3, TaxAmount: 0.24, TotalAmount: 6.24},
		PlacementErr: pricing.ErrOrderBelowMinimum,
	}, nil).Once()

	req := httptest.NewRequest("POST", "/api/orders/quote", bytes.NewBufferString(`{"restaurant_id":"uwu-cafe"}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"total_amount":6.24`)
	assert.Contains(t, recorder.Body.String(), `"can_place":false`)

	welcome := &pricing.Discount{Code: "WELCOME10", Type: pricing.DiscountPercentage, Value: 10}
	mockSvc.On("ValidateDiscount", mock.Anything, "welcome10", 20.0).Return(welcome, nil).Once()
	mockSvc.On("ValidateDiscount", mock.Anything, "SAVE5", 10.0).Return(nil, pricing.ErrDiscountMinimumNotMet).Once()
	mockSvc.On("ValidateDiscount", mock.Anything, "X", 1.0).Return(nil, errors.New("catalog unreachable")).Once()

	tests := []struct {
		name         string
		payload      string
		expectedCode int
		expectedBody string
	}{
		{name: "valid", payload: `{"code":"welcome10","subtotal":20}`, expectedCode: http.StatusOK, expectedBody: `"valid":true`},
		{name: "rejected", payload: `{"code":"SAVE5","subtotal":10}`, expectedCode: http.StatusOK, expectedBody: `"valid":false`},
		{name: "provider_down", payload: `{"code":"X","subtotal":1}`, expectedCode: http.StatusInternalServerError},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/discounts/validate", bytes.NewBufferString(testCase.payload))
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)
			assert.Equal(t, testCase.expectedCode, recorder.Code)
			assert.Contains(t, recorder.Body.String(), testCase.expectedBody)
		})
	}
}

func TestHandler_getOrderAndQRCode(t *testing.T) {
	mockSvc := mocks.NewOrderServiceInterface(t)
	router := setupTestRouter(mockSvc)

	mockSvc.On("Get", mock.Anything, "ORDER001").Return(lifecycle.Order{ID: "ORDER001", OrderNumber: "SE-2024-001"}, nil).Once()
	mockSvc.On("QRCode", mock.Anything, "ORDER001").Return([]byte("\x89PNG"), nil).Once()
	mockSvc.On("QRCode", mock.Anything, "ORDER404").Return(nil, domain.ErrOrderNotFound).Once()
	mockSvc.On("Transitions", mock.Anything, "ORDER001", backend.Actor{Role: backend.RoleAdmin}).Return([]lifecycle.Status{}, nil).Once()
	mockSvc.On("List", mock.Anything, domain.OrderFilter{CustomerID: "USER001", Status: lifecycle.StatusDelivered}).
		Return([]lifecycle.Order{{ID: "ORDER001"}}, nil).Once()

	req := httptest.NewRequest("GET", "/api/orders/ORDER001", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"order_number":"SE-2024-001"`)

	req = httptest.NewRequest("GET", "/api/orders/ORDER001/qrcode", nil)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "image/png", recorder.Header().Get("Content-Type"))

	req = httptest.NewRequest("GET", "/api/orders/ORDER404/qrcode", nil)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	req = httptest.NewRequest("GET", "/api/orders/ORDER001/transitions?role=admin", nil)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"transitions":[]`)

	req = httptest.NewRequest("GET", "/api/orders/ORDER001/transitions?role=chef", nil)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	req = httptest.NewRequest("GET", "/api/orders?customer_id=USER001&status=delivered", nil)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)

	req = httptest.NewRequest("GET", "/api/orders?status=lost", nil)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

// The backend gateway client and the order service agree on the wire: errors
// produced by the handlers come back as the same sentinels.
func TestHandler_gatewayRoundTrip(t *testing.T) {
	mockSvc := mocks.NewOrderServiceInterface(t)
	server := httptest.NewServer(httpapi.NewRouter(httpapi.NewHandler(mockSvc, nil)))
	defer server.Close()

	gw := backend.NewHTTPGateway(server.URL, server.Client(), nil)
	ctx := context.Background()
	driver := backend.Actor{Role: backend.RoleDriver, ID: "DRIVER002"}

	mockSvc.On("Get", mock.Anything, "ORDER004").Return(lifecycle.Order{ID: "ORDER004", Status: lifecycle.StatusReady, Version: 4}, nil).Once()
	mockSvc.On("Get", mock.Anything, "ORDER404").Return(lifecycle.Order{}, domain.ErrOrderNotFound).Once()
	mockSvc.On("Transition", mock.Anything, "ORDER004", lifecycle.StatusPickedUp, driver, "").
		Return(lifecycle.Order{}, &lifecycle.TransitionError{OrderID: "ORDER004", From: lifecycle.StatusPickedUp, To: lifecycle.StatusPickedUp, Err: lifecycle.ErrDriverAlreadyAssigned}).Once()

	got, err := gw.FetchOrder(ctx, "ORDER004")
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.Version)

	_, err = gw.FetchOrder(ctx, "ORDER404")
	assert.ErrorIs(t, err, backend.ErrOrderNotFound)

	_, err = gw.SubmitTransition(ctx, "ORDER004", lifecycle.StatusPickedUp, driver)
	assert.ErrorIs(t, err, lifecycle.ErrDriverAlreadyAssigned)
}
