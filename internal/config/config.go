package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName        = "Lumenvault"
	defaultAppEnv         = "development"
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultHorizonURL     = "https://horizon-testnet.stellar.org"
	defaultFriendbotURL   = "https://friendbot.stellar.org"
	defaultPassphrase     = "Test SDF Network ; September 2015"
	defaultDataDir        = "data"
	defaultHistoryLimit   = 10
	defaultBaseFee        = 100000
	defaultShutdownDelay  = 10 * time.Second
	defaultIdempotencyTTL = 24 * time.Hour
)

const (
	// NativeAssetCode is how the native asset is labelled in balance listings.
	NativeAssetCode = "XLM"
	// TestnetUSDCIssuer is the well-known USDC issuer on the test network.
	TestnetUSDCIssuer = "GBBD47IF6LWK7P7MDEVSCWR7DPUWV3NY3DTQEVFL4NAT4AQH3ZLLFLA5"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName           string
	AppEnv            string
	Port              string
	LogLevel          string
	HorizonURL        string
	FriendbotURL      string
	NetworkPassphrase string
	DataDir           string
	DatabaseURL       string
	RedisURL          string
	WalletPassphrase  string
	HistoryLimit      int
	BaseFee           int64
	ShutdownPeriod    time.Duration
	IdempotencyTTL    time.Duration
}

// Load reads configuration values from the environment and populates a Config
// instance. Postgres, Redis and the wallet passphrase are optional; everything
// else falls back to public testnet defaults.
func Load() (Config, error) {
	cfg := Config{
		AppName:           getEnv("APP_NAME", defaultAppName),
		AppEnv:            getEnv("APP_ENV", defaultAppEnv),
		Port:              getEnv("PORT", defaultPort),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		HorizonURL:        getEnv("HORIZON_URL", defaultHorizonURL),
		FriendbotURL:      getEnv("FRIENDBOT_URL", defaultFriendbotURL),
		NetworkPassphrase: getEnv("NETWORK_PASSPHRASE", defaultPassphrase),
		DataDir:           getEnv("DATA_DIR", defaultDataDir),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		WalletPassphrase:  os.Getenv("WALLET_PASSPHRASE"),
		HistoryLimit:      defaultHistoryLimit,
		BaseFee:           defaultBaseFee,
		ShutdownPeriod:    defaultShutdownDelay,
		IdempotencyTTL:    defaultIdempotencyTTL,
	}

	if v := os.Getenv("HISTORY_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid HISTORY_LIMIT: %q", v)
		}
		cfg.HistoryLimit = n
	}

	if v := os.Getenv("BASE_FEE"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid BASE_FEE: %q", v)
		}
		cfg.BaseFee = n
	}

	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownPeriod = d
	}

	if v := os.Getenv("IDEMPOTENCY_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid IDEMPOTENCY_TTL: %w", err)
		}
		cfg.IdempotencyTTL = d
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
