package main

import (
	"context"
	"log"

	httpapi "sergei-eats/catalog-svc/internal/api/http"
	"sergei-eats/catalog-svc/internal/service"
	"sergei-eats/catalog-svc/internal/storage"
	"sergei-eats/config"
	"sergei-eats/provider"

	"go.uber.org/zap"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := config.NewLogger("catalog-svc", settings.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	seed, err := provider.DefaultSeed()
	if settings.SeedFile != "" {
		seed, err = provider.LoadSeedFile(settings.SeedFile)
	}
	if err != nil {
		logger.Fatal("failed to load seed", zap.Error(err))
	}

	var catalog *service.CatalogService
	if settings.Live() {
		db := config.MustInitPostgres(settings, logger)
		defer db.Close()

		repo := storage.NewPostgresRepository(db)
		if err := repo.EnsureSchema(); err != nil {
			logger.Fatal("failed to ensure schema", zap.Error(err))
		}
		if err := repo.Seed(context.Background(), seed); err != nil {
			logger.Fatal("failed to seed catalog", zap.Error(err))
		}

		rdb := config.MustInitRedis(settings, logger)
		defer rdb.Close()

		catalog = service.NewCatalogService(repo, storage.NewDiscountCache(rdb, settings.CacheTTL), logger)
	} else {
		catalog = service.NewCatalogService(provider.NewMemory(seed, nil), nil, logger)
	}

	handler := httpapi.NewRouter(httpapi.NewHandler(catalog, logger))
	if err := httpapi.StartServer(settings.HTTPAddr, handler, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
