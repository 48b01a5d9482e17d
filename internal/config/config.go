package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/shopspring/decimal"
)

const defaultConfigPath = "config/local.yaml"

type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
}

type Database struct {
	Host            string        `yaml:"PG_HOST" env:"PG_HOST" env-default:"localhost"`
	Port            string        `yaml:"PG_PORT" env:"PG_PORT" env-default:"5432"`
	User            string        `yaml:"PG_USER" env:"PG_USER" env-required:"true"`
	Password        string        `yaml:"PG_PASSWORD" env:"PG_PASSWORD" env-required:"true"`
	Name            string        `yaml:"PG_DBNAME" env:"PG_DBNAME" env-required:"true"`
	SSLMode         string        `yaml:"PG_SSLMODE" env:"PG_SSLMODE" env-default:"require"`
	MaxOpenConns    int           `yaml:"MAX_OPEN_CONNS" env:"PG_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `yaml:"MAX_IDLE_CONNS" env:"PG_MAX_IDLE_CONNS" env-default:"25"`
	ConnMaxLifetime time.Duration `yaml:"CONN_MAX_LIFETIME" env:"PG_CONN_MAX_LIFETIME" env-default:"5m"`
	ConnMaxIdleTime time.Duration `yaml:"CONN_MAX_IDLE_TIME" env:"PG_CONN_MAX_IDLE_TIME" env-default:"1m"`
	AutoMigrate     bool          `yaml:"AUTO_MIGRATE" env:"PG_AUTO_MIGRATE" env-default:"false"`
}

type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"REDIS_PORT" env:"REDIS_PORT" env-default:"6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER" env-required:"true"`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD" env-required:"true"`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

// login attempts per user, backed by redis
type RateConfig struct {
	MaxAttempts int64         `yaml:"MAX_ATTEMPTS" env:"MAX_ATTEMPTS" env-default:"5"`
	WindowSize  time.Duration `yaml:"WINDOW_SIZE" env:"WINDOW_SIZE" env-default:"15s"`
}

// per-client token bucket for the whole API
type RateLimit struct {
	RequestsPerSecond float64       `yaml:"REQUESTS_PER_SECOND" env:"RATE_LIMIT_RPS" env-default:"10"`
	Burst             int           `yaml:"BURST" env:"RATE_LIMIT_BURST" env-default:"20"`
	VisitorTTL        time.Duration `yaml:"VISITOR_TTL" env:"RATE_LIMIT_VISITOR_TTL" env-default:"3m"`
}

type SendGrid struct {
	APIKey    string `yaml:"API_KEY" env:"SENDGRID_API_KEY"`
	FromEmail string `yaml:"FROM_EMAIL" env:"SENDGRID_FROM_EMAIL" env-default:"orders@storefront.local"`
	FromName  string `yaml:"FROM_NAME" env:"SENDGRID_FROM_NAME" env-default:"Storefront"`
}

type Security struct {
	JWTKey         string `yaml:"JWT_KEY" env:"JWT_KEY" env-required:"true"`
	JWTExpiryHours int    `yaml:"JWT_EXPIRY_HOURS" env:"JWT_EXPIRY_HOURS" env-default:"24"`
}

type OTel struct {
	Enabled          bool    `yaml:"ENABLED" env:"OTEL_ENABLED" env-default:"false"`
	ServiceName      string  `yaml:"SERVICE_NAME" env:"OTEL_SERVICE_NAME" env-default:"storefront"`
	ExporterEndpoint string  `yaml:"EXPORTER_ENDPOINT" env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:"localhost:4318"`
	SamplerRatio     float64 `yaml:"SAMPLER_RATIO" env:"OTEL_SAMPLER_RATIO" env-default:"1.0"`
}

type CacheConfig struct {
	DefaultTTL time.Duration `yaml:"default_ttl" env:"CACHE_DEFAULT_TTL" env-default:"5m"`
}

type Catalog struct {
	PageSize        int    `yaml:"page_size" env:"CATALOG_PAGE_SIZE" env-default:"12"`
	DefaultMinPrice string `yaml:"default_min_price" env:"CATALOG_DEFAULT_MIN_PRICE" env-default:"900"`
	DefaultMaxPrice string `yaml:"default_max_price" env:"CATALOG_DEFAULT_MAX_PRICE" env-default:"75000"`
}

type Checkout struct {
	ShippingCharge string        `yaml:"shipping_charge" env:"CHECKOUT_SHIPPING_CHARGE" env-default:"10"`
	TxTimeout      time.Duration `yaml:"tx_timeout" env:"CHECKOUT_TX_TIMEOUT" env-default:"10s"`
}

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-required:"true"`
	HTTPServer   `yaml:"http_server"`
	Database     Database     `yaml:"database"`
	RedisConnect RedisConnect `yaml:"redis"`
	RateConfig   RateConfig   `yaml:"rateConfig"`
	RateLimit    RateLimit    `yaml:"rate_limit"`
	SendGrid     SendGrid     `yaml:"sendgrid"`
	Security     Security     `yaml:"security"`
	OTel         OTel         `yaml:"otel"`
	Cache        CacheConfig  `yaml:"cache"`
	Catalog      Catalog      `yaml:"catalog"`
	Checkout     Checkout     `yaml:"checkout"`
}

// MustLoad resolves the config path from CONFIG_PATH, then -config, then
// config/local.yaml, and exits the process on failure.
func MustLoad() *Config {

	flags := flag.String("config", "", "path to the yaml config file")

	// commands register their own flags before calling MustLoad
	if !flag.Parsed() {
		flag.Parse()
	}

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		configPath = *flags
	}

	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := LoadConfigFromPath(configPath)
	if err != nil {
		log.Fatalf("can not load config: %s", err.Error())
	}

	return cfg
}

func LoadConfigFromPath(configPath string) (*Config, error) {

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("can not read config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {

	if _, err := c.Checkout.Charge(); err != nil {
		return err
	}

	if c.Catalog.PageSize < 1 {
		return fmt.Errorf("catalog page_size must be positive, got %d", c.Catalog.PageSize)
	}

	for _, bound := range []string{c.Catalog.DefaultMinPrice, c.Catalog.DefaultMaxPrice} {
		if _, err := decimal.NewFromString(bound); err != nil {
			return fmt.Errorf("catalog price bound %q: %w", bound, err)
		}
	}

	return nil
}

// Charge is the flat shipping charge added to every order.
func (c *Checkout) Charge() (decimal.Decimal, error) {

	charge, err := decimal.NewFromString(c.ShippingCharge)
	if err != nil {
		return decimal.Zero, fmt.Errorf("shipping_charge %q: %w", c.ShippingCharge, err)
	}

	if charge.IsNegative() {
		return decimal.Zero, fmt.Errorf("shipping_charge must not be negative, got %s", c.ShippingCharge)
	}

	return charge, nil
}

func (d *Database) GetDSN() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

func (r *RedisConnect) GetDSN() string {
	return fmt.Sprintf("redis://%s:%s@%s:%s", r.Username, r.Password, r.Host, r.Port)
}
