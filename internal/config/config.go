package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config aggregates runtime settings. Everything is injected through
// environment variables so the same binary runs in dev and prod.
type Config struct {
	HTTPAddr    string
	DatabaseURL string
	JWTSecret   string

	// Redis backs the checkout rate limiter. Optional: an empty addr
	// disables rate limiting entirely.
	RedisAddr string
	RedisDB   int

	// Kafka brokers for order lifecycle events. Optional: empty brokers
	// switch the publisher to a no-op.
	KafkaBrokers []string
	KafkaTopic   string

	// Pricing constants. These used to be duplicated across the cart,
	// order and checkout code; they live here now and only here.
	Currency              string
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal

	CheckoutRateLimit  int
	CheckoutRateWindow time.Duration

	LogJSON bool
}

// Load reads and validates configuration, falling back to defaults
// where a variable is unset.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:          strings.TrimSpace(os.Getenv("JWT_SECRET")),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		KafkaBrokers:       splitCSV(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "cleanshop-order-events"),
		Currency:           getEnv("STORE_CURRENCY", "MAD"),
		CheckoutRateLimit:  10,
		CheckoutRateWindow: time.Minute,
		LogJSON:            getEnv("LOG_FORMAT", "") == "json",
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is not set")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is not set")
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return Config{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	cfg.TaxRate, err = getEnvDecimal("TAX_RATE", "0.20")
	if err != nil {
		return Config{}, fmt.Errorf("invalid TAX_RATE: %w", err)
	}
	cfg.FreeShippingThreshold, err = getEnvDecimal("SHIPPING_FREE_THRESHOLD", "200")
	if err != nil {
		return Config{}, fmt.Errorf("invalid SHIPPING_FREE_THRESHOLD: %w", err)
	}
	cfg.FlatShippingFee, err = getEnvDecimal("SHIPPING_FLAT_FEE", "30")
	if err != nil {
		return Config{}, fmt.Errorf("invalid SHIPPING_FLAT_FEE: %w", err)
	}
	if cfg.TaxRate.IsNegative() || cfg.FlatShippingFee.IsNegative() || cfg.FreeShippingThreshold.IsNegative() {
		return Config{}, fmt.Errorf("pricing values must not be negative")
	}

	limit, err := getEnvInt("CHECKOUT_RATE_LIMIT", cfg.CheckoutRateLimit)
	if err != nil {
		return Config{}, fmt.Errorf("invalid CHECKOUT_RATE_LIMIT: %w", err)
	}
	if limit <= 0 {
		return Config{}, fmt.Errorf("CHECKOUT_RATE_LIMIT must be > 0")
	}
	cfg.CheckoutRateLimit = limit

	windowSec, err := getEnvInt("CHECKOUT_RATE_WINDOW_SEC", int(cfg.CheckoutRateWindow.Seconds()))
	if err != nil {
		return Config{}, fmt.Errorf("invalid CHECKOUT_RATE_WINDOW_SEC: %w", err)
	}
	if windowSec <= 0 {
		return Config{}, fmt.Errorf("CHECKOUT_RATE_WINDOW_SEC must be > 0")
	}
	cfg.CheckoutRateWindow = time.Duration(windowSec) * time.Second

	return cfg, nil
}

func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvDecimal(key, fallback string) (decimal.Decimal, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		v = fallback
	}
	return decimal.NewFromString(v)
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
