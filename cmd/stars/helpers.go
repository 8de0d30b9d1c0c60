package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/the-stars-must-align/internal/config"
	"github.com/Veraticus/the-stars-must-align/internal/engine"
	"github.com/Veraticus/the-stars-must-align/internal/ephemeris"
	"github.com/Veraticus/the-stars-must-align/internal/rules"
	"github.com/Veraticus/the-stars-must-align/internal/service"
	"github.com/Veraticus/the-stars-must-align/internal/storage"
	"github.com/spf13/viper"
)

func loadSettings() (*config.Settings, error) {
	return config.Load(viper.GetViper())
}

// initStorage opens and migrates the history database.
func initStorage(ctx context.Context, settings *config.Settings) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(settings.Database.Path)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// buildEphemeris selects the configured oracle and wraps it in a cache. The
// returned func releases the cache.
func buildEphemeris(settings *config.Settings) (service.Ephemeris, func(), error) {
	var base service.Ephemeris
	switch settings.Ephemeris.Provider {
	case config.ProviderHTTP:
		client, err := ephemeris.NewHTTPClient(ephemeris.HTTPOptions{
			BaseURL:        settings.Ephemeris.URL,
			Timeout:        settings.Ephemeris.Timeout,
			RequestsPerSec: settings.Ephemeris.Rate,
			Burst:          settings.Ephemeris.Burst,
			Retry: service.RetryOptions{
				MaxAttempts: settings.Ephemeris.MaxAttempts,
			},
		})
		if err != nil {
			return nil, nil, err
		}
		base = client
	default:
		base = ephemeris.NewApproximate()
	}

	cached := ephemeris.NewCached(base, settings.Ephemeris.CacheTTL)
	slog.Debug("Ephemeris ready", "provider", settings.Ephemeris.Provider, "cache_ttl", settings.Ephemeris.CacheTTL)
	return cached, cached.Close, nil
}

// buildPipeline wires an oracle into a scan pipeline with the default rules.
func buildPipeline(settings *config.Settings) (*engine.Pipeline, func(), error) {
	eph, closeEph, err := buildEphemeris(settings)
	if err != nil {
		return nil, nil, err
	}

	loc, err := settings.TimeLocation()
	if err != nil {
		closeEph()
		return nil, nil, err
	}

	pipeline, err := engine.NewPipeline(eph, rules.Default(), engine.Config{
		Location: loc,
		Workers:  settings.Scan.Workers,
		Throttle: settings.Scan.Throttle,
	})
	if err != nil {
		closeEph()
		return nil, nil, err
	}
	return pipeline, closeEph, nil
}
