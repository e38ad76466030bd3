package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/idavillc/prompt-builder/internal/domain"
	"github.com/idavillc/prompt-builder/internal/domain/settings"
)

const (
	settingsKey     = "app"
	activePromptKey = "active_prompt_id"
)

// GetSettings returns the stored app settings, or domain.ErrNotFound when
// nothing has been saved yet.
func (s *Store) GetSettings(ctx context.Context) (*settings.Settings, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, settingsKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get settings: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	var st settings.Settings
	if err := json.Unmarshal([]byte(value), &st); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &st, nil
}

// SaveSettings upserts the app settings row.
func (s *Store) SaveSettings(ctx context.Context, st settings.Settings) error {
	value, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return s.upsertSetting(ctx, settingsKey, string(value))
}

// GetActivePromptID returns the persisted active prompt pointer, or "" when
// none is set.
func (s *Store) GetActivePromptID(ctx context.Context) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, activePromptKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get active prompt id: %w", err)
	}
	return value, nil
}

// SetActivePromptID persists the active prompt pointer under its own key.
func (s *Store) SetActivePromptID(ctx context.Context, id string) error {
	return s.upsertSetting(ctx, activePromptKey, id)
}

func (s *Store) upsertSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, datetime('now'))
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = datetime('now')`,
		key, value)
	if err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}
