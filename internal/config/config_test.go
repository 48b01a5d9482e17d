package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// required keys only; everything else falls back to env-default
const baseYAML = `
env: "test"
database:
  PG_HOST: "filehost"
  PG_PORT: "5000"
  PG_USER: "fileuser"
  PG_PASSWORD: "filepassword"
  PG_DBNAME: "filedb"
  PG_SSLMODE: "prefer"
redis:
  REDIS_HOST: "fileredishost"
  REDIS_PORT: "6000"
  REDIS_USER: "fileredisuser"
  REDIS_PASSWORD: "fileredispassword"
security: {JWT_KEY: "filekey"}
`

func writeConfig(t *testing.T, extra ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "storefront.yaml")
	content := baseYAML + strings.Join(extra, "\n")

	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfigFromPath(t *testing.T) {
	t.Run("Success - Defaults", func(t *testing.T) {
		// Arrange
		path := writeConfig(t)

		// Act
		cfg, err := LoadConfigFromPath(path)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.HTTPServer.Addr)
		assert.False(t, cfg.Database.AutoMigrate)
		assert.Equal(t, int64(5), cfg.RateConfig.MaxAttempts)
		assert.Equal(t, 15*time.Second, cfg.RateConfig.WindowSize)
		assert.Equal(t, 20, cfg.RateLimit.Burst)
		assert.Equal(t, 3*time.Minute, cfg.RateLimit.VisitorTTL)
		assert.Empty(t, cfg.SendGrid.APIKey)
		assert.Equal(t, "Storefront", cfg.SendGrid.FromName)
		assert.Equal(t, 24, cfg.Security.JWTExpiryHours)
		assert.False(t, cfg.OTel.Enabled)
		assert.Equal(t, 5*time.Minute, cfg.Cache.DefaultTTL)
		assert.Equal(t, 12, cfg.Catalog.PageSize)
		assert.Equal(t, "900", cfg.Catalog.DefaultMinPrice)
		assert.Equal(t, "75000", cfg.Catalog.DefaultMaxPrice)
		assert.Equal(t, 10*time.Second, cfg.Checkout.TxTimeout)
	})

	t.Run("Success - Storefront Sections", func(t *testing.T) {
		path := writeConfig(t,
			"rate_limit: {REQUESTS_PER_SECOND: 2.5, BURST: 4}",
			"otel: {ENABLED: true, SAMPLER_RATIO: 0.25}",
			"cache: {default_ttl: 90s}",
			"catalog: {page_size: 24}",
			`checkout: {shipping_charge: "15.50", tx_timeout: 3s}`,
		)

		cfg, err := LoadConfigFromPath(path)

		require.NoError(t, err)
		assert.InDelta(t, 2.5, cfg.RateLimit.RequestsPerSecond, 0.001)
		assert.Equal(t, 4, cfg.RateLimit.Burst)
		assert.True(t, cfg.OTel.Enabled)
		assert.InDelta(t, 0.25, cfg.OTel.SamplerRatio, 0.001)
		assert.Equal(t, 90*time.Second, cfg.Cache.DefaultTTL)
		assert.Equal(t, 24, cfg.Catalog.PageSize)
		assert.Equal(t, 3*time.Second, cfg.Checkout.TxTimeout)

		charge, err := cfg.Checkout.Charge()
		require.NoError(t, err)
		assert.Equal(t, "15.50", charge.StringFixed(2))
	})

	t.Run("Success - Environment Wins Over File", func(t *testing.T) {
		path := writeConfig(t)

		t.Setenv("ENV", "production")
		t.Setenv("PG_HOST", "prod-db")
		t.Setenv("REDIS_PORT", "16379")
		t.Setenv("SENDGRID_API_KEY", "SG.live")
		t.Setenv("CHECKOUT_SHIPPING_CHARGE", "0")

		cfg, err := LoadConfigFromPath(path)

		require.NoError(t, err)
		assert.Equal(t, "production", cfg.Env)
		assert.Equal(t, "prod-db", cfg.Database.Host)
		assert.Equal(t, "16379", cfg.RedisConnect.Port)
		assert.Equal(t, "SG.live", cfg.SendGrid.APIKey)
		assert.Equal(t, "0", cfg.Checkout.ShippingCharge)
	})

	failures := []struct {
		name  string
		extra string
		want  string
	}{
		{"Failure - Negative Shipping Charge", `checkout: {shipping_charge: "-1"}`, "must not be negative"},
		{"Failure - Unparsable Shipping Charge", `checkout: {shipping_charge: "ten"}`, "shipping_charge"},
		{"Failure - Negative Page Size", "catalog: {page_size: -1}", "page_size must be positive"},
		{"Failure - Bad Price Bound", `catalog: {default_max_price: "lots"}`, "catalog price bound"},
	}

	for _, tc := range failures {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadConfigFromPath(writeConfig(t, tc.extra))

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tc.want)
		})
	}

	t.Run("Failure - Missing File", func(t *testing.T) {
		cfg, err := LoadConfigFromPath(filepath.Join(t.TempDir(), "missing.yaml"))

		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "config file does not exist")
	})

	t.Run("Failure - Malformed YAML", func(t *testing.T) {
		cfg, err := LoadConfigFromPath(writeConfig(t, "env: [unterminated"))

		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "can not read config file")
	})
}

func TestGetDSN(t *testing.T) {
	db := Database{Host: "db", Port: "5432", User: "shop", Password: "secret", Name: "storefront", SSLMode: "disable"}
	assert.Equal(t, "postgresql://shop:secret@db:5432/storefront?sslmode=disable", db.GetDSN())

	rdb := RedisConnect{Host: "cache", Password: "secret", Port: "6379"}
	assert.Equal(t, "redis://:secret@cache:6379", rdb.GetDSN())
}
