package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// TMDB
	TMDBAPIKey    string
	TMDBBaseURL   string
	TMDBLanguage  string
	TMDBRateLimit int // Requests per second allowed against TMDB (default: 20)

	// Progress
	ProgressRefreshSchedule string // Cron spec for warming show progress (default: every 30 minutes)
	ProgressCacheMinutes    int    // How long episode lists stay cached (default: 60)

	// Server
	ServerPort     string
	APIRateLimit   int          // Requests per second allowed per client IP (default: 20)
	TrustedProxies []*net.IPNet // Peers whose X-Forwarded-For is believed (default: none)

	// Paths
	DatabaseFile string // $CONFIG_DIR/moviemate.db

	// Logging
	LogLevel  string
	LogFormat string // text or json (default: text)
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	viper.SetDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3")
	viper.SetDefault("TMDB_LANGUAGE", "en-US")
	viper.SetDefault("TMDB_RATE_LIMIT", 20)
	viper.SetDefault("PROGRESS_REFRESH_SCHEDULE", "*/30 * * * *")
	viper.SetDefault("PROGRESS_CACHE_MINUTES", 60)
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("API_RATE_LIMIT", 20)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")

	configDir, err := resolveConfigDir(viper.GetString("CONFIG_DIR"))
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	trustedProxies, err := parseProxies(viper.GetString("TRUSTED_PROXIES"))
	if err != nil {
		return nil, err
	}

	config := &Config{
		TMDBAPIKey:    viper.GetString("TMDB_API_KEY"),
		TMDBBaseURL:   viper.GetString("TMDB_BASE_URL"),
		TMDBLanguage:  viper.GetString("TMDB_LANGUAGE"),
		TMDBRateLimit: viper.GetInt("TMDB_RATE_LIMIT"),

		ProgressRefreshSchedule: viper.GetString("PROGRESS_REFRESH_SCHEDULE"),
		ProgressCacheMinutes:    viper.GetInt("PROGRESS_CACHE_MINUTES"),

		ServerPort:     viper.GetString("SERVER_PORT"),
		APIRateLimit:   viper.GetInt("API_RATE_LIMIT"),
		TrustedProxies: trustedProxies,

		DatabaseFile: filepath.Join(configDir, "moviemate.db"),

		LogLevel:  viper.GetString("LOG_LEVEL"),
		LogFormat: viper.GetString("LOG_FORMAT"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks required fields and value ranges
func (c *Config) Validate() error {
	if c.TMDBAPIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required")
	}
	if c.TMDBRateLimit <= 0 {
		return fmt.Errorf("TMDB_RATE_LIMIT must be positive, got %d", c.TMDBRateLimit)
	}
	if c.APIRateLimit <= 0 {
		return fmt.Errorf("API_RATE_LIMIT must be positive, got %d", c.APIRateLimit)
	}
	if c.ProgressCacheMinutes <= 0 {
		return fmt.Errorf("PROGRESS_CACHE_MINUTES must be positive, got %d", c.ProgressCacheMinutes)
	}
	return nil
}

// parseProxies reads a comma separated list of CIDRs or bare IPs
func parseProxies(raw string) ([]*net.IPNet, error) {
	var nets []*net.IPNet
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("TRUSTED_PROXIES: invalid address %q", entry)
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
		}
		nets = append(nets, ipNet)
	}
	return nets, nil
}

// resolveConfigDir returns an absolute config directory, defaulting to ~/.config/moviemate
func resolveConfigDir(dir string) (string, error) {
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", "moviemate"), nil
	}

	absPath, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
	}
	return absPath, nil
}
