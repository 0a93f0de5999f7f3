package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sergei-eats/backend"
	"sergei-eats/config"
	httpapi "sergei-eats/tracker-svc/internal/api/http"
	"sergei-eats/tracker-svc/internal/service"
	"sergei-eats/tracker-svc/internal/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const retention = 7 * 24 * time.Hour

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := config.NewLogger("tracker-svc", settings.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.MustInitRedis(settings, logger)
	defer rdb.Close()
	store := storage.NewStore(rdb, retention, retention)

	reader := config.NewKafkaReader(settings, "tracker-svc")
	defer reader.Close()
	consumer := service.NewConsumer(backend.NewKafkaSubscriber(reader, logger), store, logger)

	tracker := service.NewTrackerService(store, time.Now)
	server := httpapi.NewServer(settings.HTTPAddr, httpapi.NewRouter(httpapi.NewHandler(tracker, logger)))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("tracker-svc listening", zap.String("addr", settings.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("consuming order updates", zap.String("topic", settings.OrderUpdatesTopic))
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("tracker-svc stopped", zap.Error(err))
	}
}
