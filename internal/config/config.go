package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"overwatch-tracker/internal/constants"
	"overwatch-tracker/internal/overwatch"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	CareerBaseURL    string
	DBPath           string
	ServerPort       string
	LogLevel         string
	RefreshTTL       time.Duration
	PlatformPriority []overwatch.Platform
	RegionPriority   []overwatch.Region
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		CareerBaseURL: getEnv("CAREER_BASE_URL", overwatch.DefaultBaseURL),
		DBPath:        getEnv("DB_PATH", "overwatch.db"),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		RefreshTTL:    constants.ProfileRefreshTTL,
	}

	if raw := os.Getenv("REFRESH_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid REFRESH_TTL %q: %w", raw, err)
		}
		cfg.RefreshTTL = ttl
	}

	platforms, err := parsePlatforms(os.Getenv("PLATFORM_PRIORITY"))
	if err != nil {
		return nil, err
	}
	cfg.PlatformPriority = platforms

	regions, err := parseRegions(os.Getenv("REGION_PRIORITY"))
	if err != nil {
		return nil, err
	}
	cfg.RegionPriority = regions

	logger.Info().
		Str("career_base_url", cfg.CareerBaseURL).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("refresh_ttl", cfg.RefreshTTL).
		Msg("configuration loaded")

	return cfg, nil
}

// Priorities is the probe order handed to resolution for axes the caller
// left unpinned. Unset axes fall back to the built-in order.
func (c *Config) Priorities() overwatch.Priorities {
	return overwatch.Priorities{Platforms: c.PlatformPriority, Regions: c.RegionPriority}
}

func parsePlatforms(raw string) ([]overwatch.Platform, error) {
	if raw == "" {
		return nil, nil
	}
	var out []overwatch.Platform
	for _, part := range strings.Split(raw, ",") {
		p, ok := overwatch.ParsePlatform(strings.TrimSpace(part))
		if !ok || p == overwatch.PlatformUnknown {
			return nil, fmt.Errorf("unknown platform %q in PLATFORM_PRIORITY", part)
		}
		out = append(out, p)
	}
	return out, nil
}

func parseRegions(raw string) ([]overwatch.Region, error) {
	if raw == "" {
		return nil, nil
	}
	var out []overwatch.Region
	for _, part := range strings.Split(raw, ",") {
		r, ok := overwatch.ParseRegion(strings.TrimSpace(part))
		if !ok || r == overwatch.RegionUnknown {
			return nil, fmt.Errorf("unknown region %q in REGION_PRIORITY", part)
		}
		out = append(out, r)
	}
	return out, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
