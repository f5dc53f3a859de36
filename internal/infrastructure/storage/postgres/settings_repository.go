package postgres

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"

	"surveydesk/internal/domain/settings"
	"surveydesk/internal/infrastructure/storage/query"
)

type SettingsRepository struct {
	db  DB
	log *slog.Logger
}

var _ settings.Repository = (*SettingsRepository)(nil)

func NewSettingsRepository(db DB, log *slog.Logger) *SettingsRepository {
	return &SettingsRepository{
		db:  db,
		log: log.With("component", "settings_repository"),
	}
}

func (r *SettingsRepository) Settings(ctx context.Context, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx, `SELECT name, value FROM settings WHERE name = ANY($1)`, keys)
	if err != nil {
		r.log.Error("failed to read settings", "keys", keys, "error", err)
		return nil, fmt.Errorf("read settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

func (r *SettingsRepository) SetSetting(ctx context.Context, key, value string) error {
	if _, err := r.db.Exec(ctx, query.Postgres.Upsert("settings", "name", "value"), key, value); err != nil {
		r.log.Error("failed to write setting", "key", key, "error", err)
		return fmt.Errorf("write setting %s: %w", key, err)
	}
	return nil
}
