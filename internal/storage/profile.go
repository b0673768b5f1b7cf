package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/spendwise/internal/model"
)

// GetProfile loads the user profile. A missing profile yields an empty one.
func (s *SQLiteStorage) GetProfile(ctx context.Context) (*model.Profile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, KeyUserData).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return &model.Profile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	var profile model.Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &profile, nil
}

// SaveProfile replaces the stored user profile.
func (s *SQLiteStorage) SaveProfile(ctx context.Context, profile *model.Profile) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("%w: profile", ErrNilParameter)
	}

	encoded, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		KeyUserData, string(encoded), time.Now())
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
