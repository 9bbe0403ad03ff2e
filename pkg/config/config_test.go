package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
environment: development
backend:
  type: clickhouse
marketdata:
  symbols:
    - CL=F
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Log.Level != "info" || cfg.Log.Output != "stdout" {
		t.Fatalf("log defaults: %+v", cfg.Log)
	}
	if cfg.Risk.Confidence != 0.05 {
		t.Fatalf("confidence default = %v", cfg.Risk.Confidence)
	}
	if cfg.Risk.GarchP != 1 || cfg.Risk.GarchQ != 1 {
		t.Fatalf("garch order defaults: p=%d q=%d", cfg.Risk.GarchP, cfg.Risk.GarchQ)
	}
	if cfg.Risk.TrainFraction != 0.8 {
		t.Fatalf("train fraction default = %v", cfg.Risk.TrainFraction)
	}
}

func TestLoadRejectsBadBackend(t *testing.T) {
	bad := `
environment: development
backend:
  type: postgres
marketdata:
  symbols:
    - CL=F
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatalf("expected validation error for backend type")
	}
}

func TestLoadRejectsMissingSymbols(t *testing.T) {
	bad := `
environment: development
backend:
  type: kafka
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatalf("expected validation error for empty symbols")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("SYMBOLS", "NG=F,GC=F")
	t.Setenv("BACKEND", "kafka")

	cfg, err := LoadWithEnv(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.MarketData.Symbols) != 2 || cfg.MarketData.Symbols[0] != "NG=F" {
		t.Fatalf("symbols override: %v", cfg.MarketData.Symbols)
	}
	if cfg.Backend.Type != "kafka" {
		t.Fatalf("backend override: %v", cfg.Backend.Type)
	}
}
