package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"sergei-eats/tracker-svc/internal/domain"
	"sergei-eats/tracker-svc/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Handler struct {
	Tracker service.TrackerInterface
	Logger  *zap.Logger
}

func NewHandler(tracker service.TrackerInterface, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Tracker: tracker, Logger: logger}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")
	r.HandleFunc("/api/tracker/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/tracker/restaurants/{id}/summary", h.getRestaurantSummary).Methods("GET")
	r.HandleFunc("/api/tracker/top-restaurants", h.getTopRestaurants).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "tracker-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Tracker.Order(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getRestaurantSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Tracker.RestaurantSummary(r.Context(), mux.Vars(r)["id"], r.URL.Query().Get("date"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) getTopRestaurants(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	top, err := h.Tracker.TopRestaurants(r.Context(), r.URL.Query().Get("date"), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, top)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSnapshotNotFound):
		code = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidDate):
		code = http.StatusBadRequest
	default:
		h.Logger.Error("request failed", zap.Error(err))
	}
	http.Error(w, err.Error(), code)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
