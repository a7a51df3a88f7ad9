package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "https://api.hh.ru", cfg.HH.BaseURL)
	assert.Equal(t, 100, cfg.HH.PerPage)
	assert.Equal(t, 10, cfg.HH.MaxPages)
	assert.Equal(t, 30*time.Minute, cfg.HH.CacheTTL)
	assert.Equal(t, float64(90), cfg.Rates.USD)
	assert.Equal(t, float64(100), cfg.Rates.EUR)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Postgres.Enabled)
	assert.False(t, cfg.Elasticsearch.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HH_MAX_PAGES", "3")
	t.Setenv("RATE_USD_RUB", "95.5")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("POSTGRES_URL", "postgres://localhost/hh?sslmode=disable")

	cfg := Load()

	assert.Equal(t, 3, cfg.HH.MaxPages)
	assert.Equal(t, 95.5, cfg.Rates.USD)
	assert.True(t, cfg.Redis.Enabled)
	assert.True(t, cfg.Postgres.Enabled)
}

func TestLoad_IgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("HH_PER_PAGE", "many")
	t.Setenv("RATE_EUR_RUB", "сто")

	cfg := Load()

	assert.Equal(t, 100, cfg.HH.PerPage)
	assert.Equal(t, float64(100), cfg.Rates.EUR)
}
