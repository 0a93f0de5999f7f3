package main

import (
	"log"
	"net/http"
	"time"

	"sergei-eats/api-gateway/internal/gateway"
	"sergei-eats/config"

	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := config.NewLogger("api-gateway", settings.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	gw := gateway.NewGateway(gateway.Config{
		OrderSvcURL:   settings.OrderSvcURL,
		CatalogSvcURL: settings.CatalogSvcURL,
		TrackerSvcURL: settings.TrackerSvcURL,
	}, &http.Client{Timeout: 30 * time.Second}, logger)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
	handler := c.Handler(gw.SetupRoutes())

	logger.Info("api gateway listening", zap.String("addr", settings.HTTPAddr))
	if err := http.ListenAndServe(settings.HTTPAddr, handler); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
