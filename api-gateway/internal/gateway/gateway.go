package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	OrderSvcURL   string
	CatalogSvcURL string
	TrackerSvcURL string
}

type route struct {
	prefix   string
	upstream func(Config) string
}

// Checked in order; the first matching prefix wins.
var routes = []route{
	{prefix: "/api/discounts/validate", upstream: func(c Config) string { return c.OrderSvcURL }},
	{prefix: "/api/orders", upstream: func(c Config) string { return c.OrderSvcURL }},
	{prefix: "/api/restaurants", upstream: func(c Config) string { return c.CatalogSvcURL }},
	{prefix: "/api/menu-items", upstream: func(c Config) string { return c.CatalogSvcURL }},
	{prefix: "/api/discounts", upstream: func(c Config) string { return c.CatalogSvcURL }},
	{prefix: "/api/tracker/", upstream: func(c Config) string { return c.TrackerSvcURL }},
}

type Gateway struct {
	config Config
	client HTTPClient
	logger *zap.Logger
}

func NewGateway(config Config, client HTTPClient, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		config: config,
		client: client,
		logger: logger,
	}
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":    "healthy",
		"service":   "api-gateway",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Upstream returns the base URL serving path, or "" when no service owns it.
func (g *Gateway) Upstream(path string) string {
	for _, rt := range routes {
		if matches(path, rt.prefix) {
			return rt.upstream(g.config)
		}
	}
	return ""
}

// matches keeps /api/ordersX from matching /api/orders.
func matches(path, prefix string) bool {
	base := strings.TrimSuffix(prefix, "/")
	return path == base || strings.HasPrefix(path, base+"/")
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	g.logger.Debug("proxy",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("upstream", targetURL),
	)

	url := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		g.logger.Error("failed to create upstream request", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	for k, v := range r.Header {
		req.Header[k] = v
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("upstream unreachable", zap.String("upstream", targetURL), zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		g.logger.Warn("failed to copy upstream response", zap.Error(err))
	}
}

func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	upstream := g.Upstream(r.URL.Path)
	if upstream == "" {
		g.logger.Debug("unmatched api route", zap.String("path", r.URL.Path))
		http.Error(w, "API route not found", http.StatusNotFound)
		return
	}
	g.ProxyRequest(w, r, upstream)
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.PathPrefix("/api/").HandlerFunc(g.RouteHandler)
	return r
}
