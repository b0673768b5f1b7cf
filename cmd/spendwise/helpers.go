package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/config"
	"github.com/Veraticus/spendwise/internal/matcher"
	"github.com/Veraticus/spendwise/internal/service"
	"github.com/Veraticus/spendwise/internal/storage"
	"github.com/spf13/viper"
)

const dateLayout = "2006-01-02"

// initStorage opens the database, runs migrations and seeds the default
// categories on first use.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	slog.Debug("Opened database", "path", store.Path())

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	seeded, err := store.SeedCategories(ctx, matcher.DefaultCategories())
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to seed categories: %w", err)
	}
	if seeded > 0 {
		slog.Info("Created default categories", "count", seeded)
	}

	return store, nil
}

func closeStorage(store service.Storage) {
	if err := store.Close(); err != nil {
		common.LogError(err, "Failed to close database", nil)
	}
}

// parseDateFlag parses an optional YYYY-MM-DD value. endOfDay moves the time
// to the last instant of the day so ranges include it.
func parseDateFlag(value string, endOfDay bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", value, err)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

// monthRange returns the first and last instant of the month containing t.
func monthRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0).Add(-time.Nanosecond)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
