package config

import (
	"testing"
	"time"

	"sergei-eats/pricing"
	"sergei-eats/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, provider.ModeMock, s.Mode())
	assert.False(t, s.Live())
	assert.Equal(t, pricing.DefaultRules(), s.PricingRules())
	assert.Equal(t, 5*time.Minute, s.CacheTTL)
	assert.Equal(t, "order-updates", s.OrderUpdatesTopic)
	assert.Equal(t, "localhost:6379", s.RedisAddr())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DATA_MODE", "live")
	t.Setenv("TAX_RATE", "0.1")
	t.Setenv("FREE_DELIVERY_THRESHOLD", "0")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("CACHE_TTL", "30s")

	s, err := Load()
	require.NoError(t, err)

	assert.True(t, s.Live())
	assert.Equal(t, 0.1, s.PricingRules().TaxRate)
	assert.Zero(t, s.PricingRules().FreeDeliveryThreshold)
	assert.Equal(t, 30*time.Second, s.CacheTTL)
	assert.Contains(t, s.PostgresDSN(), "host=db")
	assert.Contains(t, s.PostgresDSN(), "password=secret")
}

func TestSettings_Validate(t *testing.T) {
	valid := func() Settings {
		return Settings{DataMode: "mock", TaxRate: 0.08, DeliveryFee: 3, FreeDeliveryThreshold: 30, MinOrderAmount: 10, MaxOrderValue: 500}
	}

	tests := []struct {
		name   string
		mutate func(*Settings)
		ok     bool
	}{
		{name: "valid", mutate: func(*Settings) {}, ok: true},
		{name: "unknown mode", mutate: func(s *Settings) { s.DataMode = "fivem" }},
		{name: "negative tax", mutate: func(s *Settings) { s.TaxRate = -0.01 }},
		{name: "negative fee", mutate: func(s *Settings) { s.DeliveryFee = -1 }},
		{name: "max below min", mutate: func(s *Settings) { s.MaxOrderValue = 5 }},
		{name: "negative ttl", mutate: func(s *Settings) { s.CacheTTL = -time.Second }},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			s := valid()
			testCase.mutate(&s)
			err := s.Validate()
			if testCase.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("order-svc", "debug")
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger("order-svc", "loud")
	assert.Error(t, err)
}
