package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress       string
	DatabaseURI      string
	GatewayAddress   string
	GatewayKeyID     string
	GatewayKeySecret string
	GatewayTimeout   time.Duration
	TokenSecret      string
	RedisAddress     string
	KafkaBrokers     []string
	KafkaTopic       string
	Currency         string
	PaymentDeadline  time.Duration
	ExpiryInterval   time.Duration
	ExpiryBatchSize  int
	WorkerPoolSize   int
	ShutdownTimeout  time.Duration
	RateLimitPerMin  int
}

const (
	defaultRunAddress      = ":8080"
	defaultTokenSecret     = "change-me-in-production"
	defaultGatewayTimeout  = 10 * time.Second
	defaultCurrency        = "INR"
	defaultPaymentDeadline = 30 * time.Minute
	defaultExpiryInterval  = time.Minute
	defaultExpiryBatch     = 32
	defaultWorkerPoolSize  = 4
	defaultShutdownTimeout = 10 * time.Second
	defaultKafkaTopic      = "order.status_changed"
	defaultRateLimit       = 30
)

// Load parses configuration from .env, environment variables, and flags.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:       getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:      getString(lookup, "DATABASE_URI", ""),
		GatewayAddress:   getString(lookup, "GATEWAY_ADDRESS", ""),
		GatewayKeyID:     getString(lookup, "GATEWAY_KEY_ID", ""),
		GatewayKeySecret: getString(lookup, "GATEWAY_KEY_SECRET", ""),
		GatewayTimeout:   getDuration(lookup, "GATEWAY_TIMEOUT", defaultGatewayTimeout),
		TokenSecret:      getString(lookup, "TOKEN_SECRET", defaultTokenSecret),
		RedisAddress:     getString(lookup, "REDIS_ADDRESS", ""),
		KafkaTopic:       getString(lookup, "KAFKA_TOPIC", defaultKafkaTopic),
		Currency:         getString(lookup, "CURRENCY", defaultCurrency),
		PaymentDeadline:  getDuration(lookup, "PAYMENT_DEADLINE", defaultPaymentDeadline),
		ExpiryInterval:   getDuration(lookup, "EXPIRY_POLL_INTERVAL", defaultExpiryInterval),
		ExpiryBatchSize:  getInt(lookup, "EXPIRY_BATCH_SIZE", defaultExpiryBatch),
		WorkerPoolSize:   getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:  getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		RateLimitPerMin:  getInt(lookup, "RATE_LIMIT_PER_MIN", defaultRateLimit),
	}

	if brokers := getString(lookup, "KAFKA_BROKERS", ""); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	fs := flag.NewFlagSet("ordercore", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		gatewayTimeoutStr  = cfg.GatewayTimeout.String()
		paymentDeadlineStr = cfg.PaymentDeadline.String()
		expiryIntervalStr  = cfg.ExpiryInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.GatewayAddress, "g", cfg.GatewayAddress, "Payment gateway base URL")
	fs.StringVar(&cfg.GatewayKeyID, "gateway-key-id", cfg.GatewayKeyID, "Payment gateway API key id")
	fs.StringVar(&cfg.GatewayKeySecret, "gateway-key-secret", cfg.GatewayKeySecret, "Payment gateway API key secret")
	fs.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "Secret for signing auth tokens")
	fs.StringVar(&cfg.RedisAddress, "redis", cfg.RedisAddress, "Redis address for rate limiting (optional)")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent expiry workers")
	fs.IntVar(&cfg.ExpiryBatchSize, "expiry-batch", cfg.ExpiryBatchSize, "Maximum orders per expiry batch")
	fs.StringVar(&gatewayTimeoutStr, "gateway-timeout", gatewayTimeoutStr, "Payment gateway call timeout")
	fs.StringVar(&paymentDeadlineStr, "payment-deadline", paymentDeadlineStr, "How long an online order may await payment")
	fs.StringVar(&expiryIntervalStr, "expiry-interval", expiryIntervalStr, "Interval between expiry sweeps")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.GatewayTimeout, err = time.ParseDuration(gatewayTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid gateway timeout: %w", err)
	}
	if cfg.PaymentDeadline, err = time.ParseDuration(paymentDeadlineStr); err != nil {
		return nil, fmt.Errorf("invalid payment deadline: %w", err)
	}
	if cfg.ExpiryInterval, err = time.ParseDuration(expiryIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid expiry interval: %w", err)
	}
	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("TOKEN_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read token secret file: %w", err)
		}
		cfg.TokenSecret = strings.TrimSpace(string(content))
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}
	if cfg.ExpiryBatchSize <= 0 {
		cfg.ExpiryBatchSize = defaultExpiryBatch
	}
	if cfg.ExpiryInterval <= 0 {
		cfg.ExpiryInterval = defaultExpiryInterval
	}
	if cfg.PaymentDeadline <= 0 {
		cfg.PaymentDeadline = defaultPaymentDeadline
	}
	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = defaultGatewayTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.RateLimitPerMin <= 0 {
		cfg.RateLimitPerMin = defaultRateLimit
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}
	if cfg.GatewayAddress == "" {
		return nil, fmt.Errorf("payment gateway address must be provided")
	}
	if cfg.GatewayKeySecret == "" {
		return nil, fmt.Errorf("payment gateway key secret must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
