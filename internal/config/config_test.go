package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ConfigYAML(t *testing.T) {
	path := filepath.Join("..", "..", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Database.Host == "" {
		t.Fatalf("expected database.host to be set")
	}
	if cfg.RabbitMQ.Port == 0 {
		t.Fatalf("expected rabbitmq.port to be set")
	}
	if cfg.HTTP.Port == 0 {
		t.Fatalf("expected http.port to be set")
	}
	if !cfg.Pricing.TaxRate.IsPositive() {
		t.Fatalf("expected pricing.tax_rate to be positive, got %s", cfg.Pricing.TaxRate)
	}
}

func TestLoad_PricingDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "database:\n  host: localhost\n  port: 5432\n  user: u\n  password: p\n  database: d\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := cfg.Pricing.TaxRate.String(); got != "0.08" {
		t.Errorf("default tax_rate = %s, want 0.08", got)
	}
	if got := cfg.Pricing.TipRate.String(); got != "0.18" {
		t.Errorf("default tip_rate = %s, want 0.18", got)
	}
}

func TestLoad_UnknownSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "bogus:\n  key: value\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown section")
	}
}
