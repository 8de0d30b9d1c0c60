package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/Veraticus/the-stars-must-align/internal/common"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Ephemeris providers.
const (
	ProviderApproximate = "approximate"
	ProviderHTTP        = "http"
)

// Settings is the typed application configuration.
type Settings struct {
	Logging   LoggingSettings   `mapstructure:"logging"`
	Database  DatabaseSettings  `mapstructure:"database"`
	Ephemeris EphemerisSettings `mapstructure:"ephemeris"`
	Server    ServerSettings    `mapstructure:"server"`
	Location  LocationSettings  `mapstructure:"location"`
	Scan      ScanSettings      `mapstructure:"scan"`
}

// LoggingSettings configures slog.
type LoggingSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseSettings locates the scan history database.
type DatabaseSettings struct {
	Path string `mapstructure:"path"`
}

// LocationSettings is the default observer location.
type LocationSettings struct {
	Timezone  string  `mapstructure:"timezone"`
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
}

// ScanSettings tunes the scanner.
type ScanSettings struct {
	Workers  int           `mapstructure:"workers"`
	Throttle time.Duration `mapstructure:"throttle"`
}

// EphemerisSettings selects and tunes the position oracle.
type EphemerisSettings struct {
	Provider    string        `mapstructure:"provider"`
	URL         string        `mapstructure:"url"`
	Rate        float64       `mapstructure:"rate"`
	Burst       int           `mapstructure:"burst"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	Timeout     time.Duration `mapstructure:"timeout"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Addr    string `mapstructure:"addr"`
	CertDir string `mapstructure:"cert_dir"`
	TLS     bool   `mapstructure:"tls"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("database.path", DataDir+"/stars.db")
	v.SetDefault("location.timezone", "UTC")
	v.SetDefault("location.latitude", 0.0)
	v.SetDefault("location.longitude", 0.0)
	v.SetDefault("scan.workers", 4)
	v.SetDefault("scan.throttle", time.Duration(0))
	v.SetDefault("ephemeris.provider", ProviderApproximate)
	v.SetDefault("ephemeris.url", "")
	v.SetDefault("ephemeris.rate", 10.0)
	v.SetDefault("ephemeris.burst", 1)
	v.SetDefault("ephemeris.max_attempts", 3)
	v.SetDefault("ephemeris.timeout", 10*time.Second)
	v.SetDefault("ephemeris.cache_ttl", 6*time.Hour)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.tls", false)
	v.SetDefault("server.cert_dir", DataDir+"/certs")
}

// Load decodes settings from v after applying defaults.
func Load(v *viper.Viper) (*Settings, error) {
	SetDefaults(v)

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	s.Database.Path = ExpandPath(s.Database.Path)
	s.Server.CertDir = ExpandPath(s.Server.CertDir)

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks settings for consistency.
func (s *Settings) Validate() error {
	switch s.Ephemeris.Provider {
	case ProviderApproximate:
	case ProviderHTTP:
		if s.Ephemeris.URL == "" {
			return fmt.Errorf("%w: ephemeris.url is required for the http provider", common.ErrMissingConfig)
		}
	default:
		return fmt.Errorf("%w: unknown ephemeris provider %q", common.ErrInvalidConfig, s.Ephemeris.Provider)
	}
	if s.Scan.Workers < 1 {
		return fmt.Errorf("%w: scan.workers must be positive", common.ErrInvalidConfig)
	}
	if s.Location.Latitude < -90 || s.Location.Latitude > 90 {
		return fmt.Errorf("%w: location.latitude %.4f", common.ErrInvalidConfig, s.Location.Latitude)
	}
	if s.Location.Longitude < -180 || s.Location.Longitude > 180 {
		return fmt.Errorf("%w: location.longitude %.4f", common.ErrInvalidConfig, s.Location.Longitude)
	}
	if _, err := s.TimeLocation(); err != nil {
		return err
	}
	return nil
}

// TimeLocation resolves the configured time zone.
func (s *Settings) TimeLocation() (*time.Location, error) {
	if s.Location.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(s.Location.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: location.timezone %q: %w", common.ErrInvalidConfig, s.Location.Timezone, err)
	}
	return loc, nil
}

// LoadDotEnv loads environment variables from .env files. Missing files are
// ignored; variables already set are not overridden.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(ExpandPath(p)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}
