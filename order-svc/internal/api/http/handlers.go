package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"sergei-eats/backend"
	"sergei-eats/lifecycle"
	"sergei-eats/order-svc/internal/domain"
	"sergei-eats/order-svc/internal/service"
	"sergei-eats/pricing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Handler struct {
	Orders service.OrderServiceInterface
	Logger *zap.Logger
}

func NewHandler(orders service.OrderServiceInterface, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Orders: orders, Logger: logger}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/orders/quote", h.quoteOrder).Methods("POST")
	r.HandleFunc("/api/discounts/validate", h.validateDiscount).Methods("POST")

	r.HandleFunc("/api/orders", h.createOrder).Methods("POST")
	r.HandleFunc("/api/orders", h.getOrders).Methods("GET")
	r.HandleFunc("/api/orders/available", h.getAvailableOrders).Methods("GET")
	r.HandleFunc("/api/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id}/transitions", h.getTransitions).Methods("GET")
	r.HandleFunc("/api/orders/{id}/transitions", h.submitTransition).Methods("POST")
	r.HandleFunc("/api/orders/{id}/accept", h.acceptDelivery).Methods("POST")
	r.HandleFunc("/api/orders/{id}/complete", h.completeDelivery).Methods("POST")
	r.HandleFunc("/api/orders/{id}/cancel", h.cancelOrder).Methods("POST")
	r.HandleFunc("/api/orders/{id}/refund", h.refundOrder).Methods("POST")
	r.HandleFunc("/api/orders/{id}/qrcode", h.getOrderQRCode).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "order-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) quoteOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	quote, err := h.Orders.Quote(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.NewQuoteResponse(quote))
}

func (h *Handler) validateDiscount(w http.ResponseWriter, r *http.Request) {
	var req domain.ValidateDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	discount, err := h.Orders.ValidateDiscount(r.Context(), req.Code, req.Subtotal)
	if err != nil && !isDiscountRejection(err) {
		h.writeError(w, err)
		return
	}

	resp := domain.ValidateDiscountResponse{Valid: err == nil, Discount: discount}
	if err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

type placedOrder struct {
	lifecycle.Order
	QRCode string `json:"qr_code"`
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	order, err := h.Orders.Place(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, placedOrder{Order: order, QRCode: h.Orders.QRLink(order.ID)})
}

func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.OrderFilter{
		CustomerID:   q.Get("customer_id"),
		RestaurantID: q.Get("restaurant_id"),
		DriverID:     q.Get("driver_id"),
	}
	if raw := q.Get("status"); raw != "" {
		status, err := lifecycle.ParseStatus(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		filter.Status = status
	}

	orders, err := h.Orders.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getAvailableOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.Available(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getTransitions(w http.ResponseWriter, r *http.Request) {
	role, err := backend.ParseRole(r.URL.Query().Get("role"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	actor := backend.Actor{Role: role, ID: r.URL.Query().Get("actor_id")}

	statuses, err := h.Orders.Transitions(r.Context(), mux.Vars(r)["id"], actor)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"order_id":    mux.Vars(r)["id"],
		"transitions": statuses,
	})
}

func (h *Handler) submitTransition(w http.ResponseWriter, r *http.Request) {
	var req domain.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}
	target, err := lifecycle.ParseStatus(string(req.Target))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	role, err := backend.ParseRole(req.ActorRole)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	order, err := h.Orders.Transition(r.Context(), mux.Vars(r)["id"], target, backend.Actor{Role: role, ID: req.ActorID}, req.Reason)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) acceptDelivery(w http.ResponseWriter, r *http.Request) {
	var req domain.DriverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DriverID == "" {
		http.Error(w, "Missing driver_id", http.StatusBadRequest)
		return
	}

	order, err := h.Orders.AcceptDelivery(r.Context(), mux.Vars(r)["id"], req.DriverID, req.Target)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) completeDelivery(w http.ResponseWriter, r *http.Request) {
	var req domain.DriverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DriverID == "" {
		http.Error(w, "Missing driver_id", http.StatusBadRequest)
		return
	}

	order, err := h.Orders.CompleteDelivery(r.Context(), mux.Vars(r)["id"], req.DriverID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}
	role, err := backend.ParseRole(req.ActorRole)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	order, err := h.Orders.Cancel(r.Context(), mux.Vars(r)["id"], backend.Actor{Role: role, ID: req.ActorID}, req.Reason)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) refundOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}
	role, err := backend.ParseRole(req.ActorRole)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if role != backend.RoleAdmin {
		h.writeError(w, fmt.Errorf("%w: %s cannot refund orders", backend.ErrForbidden, role))
		return
	}

	order, err := h.Orders.Refund(r.Context(), mux.Vars(r)["id"], req.Reason)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	qrCode, err := h.Orders.QRCode(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(qrCode)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	code := statusCode(err)
	if code >= http.StatusInternalServerError {
		h.Logger.Error("request failed", zap.Error(err))
	}
	http.Error(w, err.Error(), code)
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, backend.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, lifecycle.ErrDriverAlreadyAssigned),
		errors.Is(err, lifecycle.ErrDriverRequired),
		errors.Is(err, lifecycle.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, service.ErrConflict):
		return http.StatusServiceUnavailable
	case errors.Is(err, pricing.ErrEmptyCart),
		errors.Is(err, pricing.ErrInvalidLineItem),
		errors.Is(err, pricing.ErrOrderBelowMinimum),
		errors.Is(err, pricing.ErrOrderAboveMaximum),
		errors.Is(err, service.ErrRestaurantClosed),
		errors.Is(err, service.ErrItemUnavailable),
		isDiscountRejection(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidOrder),
		errors.Is(err, backend.ErrUnknownRole),
		errors.Is(err, lifecycle.ErrUnknownStatus):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func isDiscountRejection(err error) bool {
	return errors.Is(err, pricing.ErrInvalidDiscount) ||
		errors.Is(err, pricing.ErrDiscountExpired) ||
		errors.Is(err, pricing.ErrDiscountExhausted) ||
		errors.Is(err, pricing.ErrDiscountMinimumNotMet)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
