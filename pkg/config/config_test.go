package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:5236/api" {
		t.Fatalf("unexpected default base url: %q", cfg.API.BaseURL)
	}
	if cfg.Shipping.FreeThreshold != "500" || cfg.Shipping.FlatFee != "50" {
		t.Fatalf("unexpected shipping defaults: %q / %q", cfg.Shipping.FreeThreshold, cfg.Shipping.FlatFee)
	}
	if cfg.State.NormalizedBackend() != StateBackendSQLite {
		t.Fatalf("expected sqlite default backend, got %q", cfg.State.Backend)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FRESHKART_API_BASE_URL", "https://shop.example.com/api")
	t.Setenv("FRESHKART_STATE_BACKEND", "redis")
	t.Setenv("FRESHKART_REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://shop.example.com/api" {
		t.Fatalf("override not applied: %q", cfg.API.BaseURL)
	}
	if cfg.State.NormalizedBackend() != StateBackendRedis {
		t.Fatalf("expected redis backend, got %q", cfg.State.Backend)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("FRESHKART_STATE_BACKEND", "dynamo")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unsupported state backend")
	}
}
