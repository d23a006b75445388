// Package config loads the account and application settings from the
// environment, optionally seeded from a .env file.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// EasternTime is the exchange time zone used for default execution times.
// A fixed offset keeps behavior deterministic on hosts without tzdata.
var EasternTime = time.FixedZone("ET", -5*3600)

// Config holds everything the application reads from the environment.
type Config struct {
	// State / persistence
	StateFile string

	// Account settings
	StartingCash      decimal.Decimal
	DefaultCommission decimal.Decimal

	// Benchmark co-tracking reference instruments, in report order.
	BenchmarkSymbols []string

	// Stop policy overrides (zero means: use the built-in default)
	ATRMultiple    float64
	PriceTick      float64
	BaseVolatility float64

	// Logging
	LogLevel      string
	LogFile       string
	MaxLogSizeMB  int
	MaxLogBackups int
}

// Load reads the .env file if present and resolves all settings. Missing
// optional variables fall back to defaults; nothing here is fatal because the
// market-data credentials are only checked by the commands that need them.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return Config{
		StateFile:         getEnv("TRADINGGAME_STATE_FILE", "portfolio_state.json"),
		StartingCash:      getEnvAsDecimal("TRADINGGAME_STARTING_CASH", decimal.NewFromInt(1000)),
		DefaultCommission: getEnvAsDecimal("TRADINGGAME_COMMISSION", decimal.NewFromFloat(6.95)),
		BenchmarkSymbols:  getEnvAsList("TRADINGGAME_BENCHMARKS", []string{"IWM", "SPY"}),
		ATRMultiple:       getEnvAsFloat64("TRADINGGAME_ATR_MULTIPLE", 1.5),
		PriceTick:         getEnvAsFloat64("TRADINGGAME_PRICE_TICK", 0.01),
		BaseVolatility:    getEnvAsFloat64("TRADINGGAME_BASE_VOLATILITY", 0.05),
		LogLevel:          getEnv("TRADINGGAME_LOG_LEVEL", "info"),
		LogFile:           getEnv("TRADINGGAME_LOG_FILE", "tradinggame.log"),
		MaxLogSizeMB:      getEnvAsInt("TRADINGGAME_LOG_MAX_SIZE_MB", 10),
		MaxLogBackups:     getEnvAsInt("TRADINGGAME_LOG_MAX_BACKUPS", 3),
	}
}

// RequireMarketCredentials checks the Alpaca variables that quote-fetching
// commands depend on. Returns the missing names instead of exiting so the
// caller can decide how loud to be.
func RequireMarketCredentials() []string {
	required := []string{"APCA_API_KEY_ID", "APCA_API_SECRET_KEY"}

	var missing []string
	for _, key := range required {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	val, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid int for config %s=%q, using default %d", key, valueStr, fallback)
		return fallback
	}
	return val
}

func getEnvAsFloat64(key string, fallback float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	val, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float64 for config %s=%q, using default %f", key, valueStr, fallback)
		return fallback
	}
	return val
}

func getEnvAsDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	val, err := decimal.NewFromString(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid decimal for config %s=%q, using default %s", key, valueStr, fallback)
		return fallback
	}
	return val
}

func getEnvAsList(key string, fallback []string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(valueStr) == "" {
		return fallback
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.ToUpper(strings.TrimSpace(p)); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
