package config

import (
	"net"
	"path/filepath"
	"testing"
)

func TestLoadFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_DIR", dir)
	t.Setenv("TMDB_API_KEY", "test-key")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.TMDBAPIKey != "test-key" {
		t.Errorf("Expected TMDB key 'test-key', got '%s'", cfg.TMDBAPIKey)
	}
	if cfg.ServerPort != "9090" {
		t.Errorf("Expected port 9090, got '%s'", cfg.ServerPort)
	}
	if cfg.DatabaseFile != filepath.Join(dir, "moviemate.db") {
		t.Errorf("Unexpected database path: %s", cfg.DatabaseFile)
	}
	if cfg.TMDBRateLimit != 20 {
		t.Errorf("Expected default rate limit 20, got %d", cfg.TMDBRateLimit)
	}
	if cfg.APIRateLimit != 20 {
		t.Errorf("Expected default API rate limit 20, got %d", cfg.APIRateLimit)
	}
	if len(cfg.TrustedProxies) != 0 {
		t.Errorf("Expected no trusted proxies by default, got %v", cfg.TrustedProxies)
	}
}

func TestParseProxies(t *testing.T) {
	nets, err := parseProxies(" 10.0.0.0/8, 192.168.1.5 ,,::1")
	if err != nil {
		t.Fatalf("parseProxies failed: %v", err)
	}
	if len(nets) != 3 {
		t.Fatalf("Expected 3 networks, got %d", len(nets))
	}
	if !nets[0].Contains(net.ParseIP("10.1.2.3")) {
		t.Error("Expected 10.0.0.0/8 to contain 10.1.2.3")
	}
	if !nets[1].Contains(net.ParseIP("192.168.1.5")) || nets[1].Contains(net.ParseIP("192.168.1.6")) {
		t.Errorf("Expected a single-address network, got %v", nets[1])
	}
	if !nets[2].Contains(net.ParseIP("::1")) {
		t.Errorf("Expected ::1 to be trusted, got %v", nets[2])
	}

	if _, err := parseProxies("not-an-ip"); err == nil {
		t.Error("Expected error for an invalid address")
	}
	if _, err := parseProxies("10.0.0.0/99"); err == nil {
		t.Error("Expected error for an invalid CIDR")
	}
}

func TestValidateRequiresAPIKey(t *testing.T) {
	cfg := &Config{TMDBRateLimit: 1, APIRateLimit: 1, ProgressCacheMinutes: 1}
	if err := cfg.Validate(); err == nil {
		t.Fatal("Expected error for missing TMDB_API_KEY")
	}

	cfg.TMDBAPIKey = "key"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	cfg.TMDBRateLimit = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for zero rate limit")
	}
}
