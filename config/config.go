package config

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the production JSON logger for service at level.
func NewLogger(service, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", service)), nil
}

func MustInitPostgres(s *Settings, logger *zap.Logger) *sql.DB {
	db, err := sql.Open("postgres", s.PostgresDSN())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err = db.Ping(); err != nil {
		logger.Fatal("failed to ping database", zap.String("host", s.DBHost), zap.Error(err))
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(s *Settings, logger *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: s.RedisAddr(),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("failed to connect to redis", zap.String("addr", s.RedisAddr()), zap.Error(err))
	}

	return client
}

func NewKafkaReader(s *Settings, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{s.KafkaBroker},
		Topic:   s.OrderUpdatesTopic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(s *Settings) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(s.KafkaBroker),
		Topic:                  s.OrderUpdatesTopic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}
