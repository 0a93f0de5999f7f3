package config

import (
	"errors"
	"fmt"
	"time"

	"sergei-eats/pricing"
	"sergei-eats/provider"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Settings struct {
	DataMode string `envconfig:"DATA_MODE" default:"mock"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBName     string `envconfig:"DB_NAME" default:"sergei_eats"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:""`

	RedisHost string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort string `envconfig:"REDIS_PORT" default:"6379"`

	KafkaBroker       string `envconfig:"KAFKA_BROKER" default:"localhost:9092"`
	OrderUpdatesTopic string `envconfig:"ORDER_UPDATES_TOPIC" default:"order-updates"`

	CatalogSvcURL string `envconfig:"CATALOG_SVC_URL" default:"http://localhost:8081"`
	OrderSvcURL   string `envconfig:"ORDER_SVC_URL" default:"http://localhost:8082"`
	TrackerSvcURL string `envconfig:"TRACKER_SVC_URL" default:"http://localhost:8083"`

	TaxRate               float64 `envconfig:"TAX_RATE" default:"0.08"`
	DeliveryFee           float64 `envconfig:"DELIVERY_FEE" default:"3.00"`
	FreeDeliveryThreshold float64 `envconfig:"FREE_DELIVERY_THRESHOLD" default:"30.00"`
	MinOrderAmount        float64 `envconfig:"MIN_ORDER_AMOUNT" default:"10.00"`
	MaxOrderValue         float64 `envconfig:"MAX_ORDER_VALUE" default:"500.00"`

	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"5m"`
	SeedFile      string        `envconfig:"SEED_FILE" default:""`
	PublicBaseURL string        `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Settings, error) {
	_ = godotenv.Load()

	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) Validate() error {
	if _, err := provider.ParseMode(s.DataMode); err != nil {
		return err
	}
	switch {
	case s.TaxRate < 0, s.DeliveryFee < 0, s.FreeDeliveryThreshold < 0, s.MinOrderAmount < 0:
		return errors.New("pricing rules must not be negative")
	case s.MaxOrderValue < s.MinOrderAmount:
		return errors.New("MAX_ORDER_VALUE must not be below MIN_ORDER_AMOUNT")
	case s.CacheTTL < 0:
		return errors.New("CACHE_TTL must not be negative")
	}
	return nil
}

func (s *Settings) Mode() provider.Mode {
	return provider.Mode(s.DataMode)
}

func (s *Settings) Live() bool {
	return s.Mode() == provider.ModeLive
}

func (s *Settings) PricingRules() pricing.Rules {
	return pricing.Rules{
		TaxRate:               s.TaxRate,
		DeliveryFee:           s.DeliveryFee,
		FreeDeliveryThreshold: s.FreeDeliveryThreshold,
		MinOrderAmount:        s.MinOrderAmount,
		MaxOrderValue:         s.MaxOrderValue,
	}
}

func (s *Settings) PostgresDSN() string {
	return "host=" + s.DBHost + " port=" + s.DBPort + " user=" + s.DBUser +
		" password=" + s.DBPassword + " dbname=" + s.DBName + " sslmode=disable"
}

func (s *Settings) RedisAddr() string {
	return s.RedisHost + ":" + s.RedisPort
}
