package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"sergei-eats/backend"
	"sergei-eats/config"
	httpapi "sergei-eats/order-svc/internal/api/http"
	"sergei-eats/order-svc/internal/service"
	"sergei-eats/order-svc/internal/storage"
	"sergei-eats/provider"

	"go.uber.org/zap"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := config.NewLogger("order-svc", settings.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	seed, err := loadSeed(settings)
	if err != nil {
		logger.Fatal("failed to load seed", zap.Error(err))
	}

	catalog, err := provider.New(settings.Mode(), provider.Options{
		BaseURL: settings.CatalogSvcURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
		Seed:    seed,
	})
	if err != nil {
		logger.Fatal("failed to build catalog provider", zap.Error(err))
	}

	deps := service.Dependencies{
		Catalog: catalog,
		QR:      service.DefaultQRGenerator{BaseURL: settings.PublicBaseURL},
		Rules:   settings.PricingRules(),
		Logger:  logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if settings.Live() {
		db := config.MustInitPostgres(settings, logger)
		defer db.Close()

		store := storage.NewPostgresStore(db)
		if err := store.EnsureSchema(); err != nil {
			logger.Fatal("failed to ensure schema", zap.Error(err))
		}
		if settings.SeedFile != "" {
			if err := store.Seed(ctx, seed.OrderBook(time.Now())); err != nil {
				logger.Fatal("failed to seed orders", zap.Error(err))
			}
		}

		rdb := config.MustInitRedis(settings, logger)
		defer rdb.Close()

		writer := config.NewKafkaWriter(settings)
		defer writer.Close()

		deps.Repository = store
		deps.Cache = storage.NewRedisCache(rdb, settings.CacheTTL)
		deps.Publisher = storage.NewKafkaPublisher(writer)
	} else {
		bus := storage.NewMemoryBus(0)
		deps.Repository = storage.NewMemoryStore(seed.OrderBook(time.Now()))
		deps.Publisher = bus
		go logUpdates(ctx, bus, logger)
	}

	orders := service.NewOrderService(deps)
	handler := httpapi.NewRouter(httpapi.NewHandler(orders, logger))

	if err := httpapi.StartServer(settings.HTTPAddr, handler, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// loadSeed returns the mock catalog and order book, from SEED_FILE when set.
func loadSeed(settings *config.Settings) (*provider.Seed, error) {
	if settings.SeedFile != "" {
		return provider.LoadSeedFile(settings.SeedFile)
	}
	return provider.DefaultSeed()
}

func logUpdates(ctx context.Context, updates backend.Subscriber, logger *zap.Logger) {
	err := updates.Subscribe(ctx, func(event backend.OrderEvent) {
		logger.Debug("order event",
			zap.String("type", string(event.Type)),
			zap.String("order_id", event.Order.ID),
			zap.String("status", string(event.Order.Status)),
		)
	})
	if err != nil {
		logger.Warn("update subscriber stopped", zap.Error(err))
	}
}
