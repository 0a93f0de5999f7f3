package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"sergei-eats/catalog-svc/internal/domain"
	"sergei-eats/catalog-svc/internal/service"
	"sergei-eats/pricing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Handler struct {
	Catalog service.CatalogServiceInterface
	Logger  *zap.Logger
}

func NewHandler(catalog service.CatalogServiceInterface, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Catalog: catalog, Logger: logger}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/restaurants", h.getRestaurants).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}", h.getRestaurant).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}/categories", h.getCategories).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}/menu", h.getMenu).Methods("GET")
	r.HandleFunc("/api/menu-items/{id}", h.getMenuItem).Methods("GET")

	r.HandleFunc("/api/discounts", h.getDiscounts).Methods("GET")
	r.HandleFunc("/api/discounts", h.issueDiscount).Methods("POST")
	r.HandleFunc("/api/discounts/{code}", h.getDiscount).Methods("GET")
	r.HandleFunc("/api/discounts/{code}/redeem", h.redeemDiscount).Methods("POST")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "catalog-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) getRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.Catalog.Restaurants(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurants)
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	rest, err := h.Catalog.Restaurant(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *Handler) getCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Catalog.Categories(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// getMenu serves the flat item list. ?view=full adds the restaurant and its
// categories.
func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.Catalog.Menu(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	if r.URL.Query().Get("view") == "full" {
		writeJSON(w, http.StatusOK, menu)
		return
	}
	writeJSON(w, http.StatusOK, menu.Items)
}

func (h *Handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.Catalog.MenuItem(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) getDiscounts(w http.ResponseWriter, r *http.Request) {
	discounts, err := h.Catalog.ActiveDiscounts(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, discounts)
}

func (h *Handler) getDiscount(w http.ResponseWriter, r *http.Request) {
	d, err := h.Catalog.Discount(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) issueDiscount(w http.ResponseWriter, r *http.Request) {
	var d pricing.Discount
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	issued, err := h.Catalog.IssueDiscount(r.Context(), d)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, issued)
}

func (h *Handler) redeemDiscount(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if err := h.Catalog.RedeemDiscount(r.Context(), code); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"code":     pricing.NormalizeCode(code),
		"redeemed": true,
	})
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
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateCode),
		errors.Is(err, pricing.ErrDiscountExhausted):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidIssue):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
