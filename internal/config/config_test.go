package config

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.StateFile != "portfolio_state.json" {
		t.Errorf("Expected default state file, got %s", cfg.StateFile)
	}
	if !cfg.StartingCash.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected starting cash 1000, got %s", cfg.StartingCash)
	}
	if !cfg.DefaultCommission.Equal(decimal.NewFromFloat(6.95)) {
		t.Errorf("Expected commission 6.95, got %s", cfg.DefaultCommission)
	}
	if len(cfg.BenchmarkSymbols) != 2 || cfg.BenchmarkSymbols[0] != "IWM" || cfg.BenchmarkSymbols[1] != "SPY" {
		t.Errorf("Expected benchmarks [IWM SPY], got %v", cfg.BenchmarkSymbols)
	}
	if cfg.ATRMultiple != 1.5 {
		t.Errorf("Expected ATR multiple 1.5, got %f", cfg.ATRMultiple)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected log level info, got %s", cfg.LogLevel)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TRADINGGAME_STATE_FILE", "alt_state.json")
	t.Setenv("TRADINGGAME_STARTING_CASH", "2500.50")
	t.Setenv("TRADINGGAME_COMMISSION", "0")
	t.Setenv("TRADINGGAME_BENCHMARKS", "qqq, dia")
	t.Setenv("TRADINGGAME_LOG_MAX_BACKUPS", "7")

	cfg := Load()

	if cfg.StateFile != "alt_state.json" {
		t.Errorf("Expected alt_state.json, got %s", cfg.StateFile)
	}
	if !cfg.StartingCash.Equal(decimal.RequireFromString("2500.50")) {
		t.Errorf("Expected starting cash 2500.50, got %s", cfg.StartingCash)
	}
	if !cfg.DefaultCommission.IsZero() {
		t.Errorf("Expected zero commission, got %s", cfg.DefaultCommission)
	}
	// List entries are trimmed and uppercased.
	if len(cfg.BenchmarkSymbols) != 2 || cfg.BenchmarkSymbols[0] != "QQQ" || cfg.BenchmarkSymbols[1] != "DIA" {
		t.Errorf("Expected benchmarks [QQQ DIA], got %v", cfg.BenchmarkSymbols)
	}
	if cfg.MaxLogBackups != 7 {
		t.Errorf("Expected 7 backups, got %d", cfg.MaxLogBackups)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("TRADINGGAME_STARTING_CASH", "a-thousand")
	t.Setenv("TRADINGGAME_ATR_MULTIPLE", "wide")
	t.Setenv("TRADINGGAME_LOG_MAX_SIZE_MB", "huge")

	cfg := Load()

	if !cfg.StartingCash.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected fallback starting cash 1000, got %s", cfg.StartingCash)
	}
	if cfg.ATRMultiple != 1.5 {
		t.Errorf("Expected fallback ATR multiple 1.5, got %f", cfg.ATRMultiple)
	}
	if cfg.MaxLogSizeMB != 10 {
		t.Errorf("Expected fallback log size 10, got %d", cfg.MaxLogSizeMB)
	}
}

func TestRequireMarketCredentials(t *testing.T) {
	t.Setenv("APCA_API_KEY_ID", "")
	t.Setenv("APCA_API_SECRET_KEY", "")

	missing := RequireMarketCredentials()
	if len(missing) != 2 {
		t.Fatalf("Expected 2 missing credentials, got %v", missing)
	}

	t.Setenv("APCA_API_KEY_ID", "key")
	t.Setenv("APCA_API_SECRET_KEY", "secret")

	if missing := RequireMarketCredentials(); len(missing) != 0 {
		t.Errorf("Expected no missing credentials, got %v", missing)
	}
}
