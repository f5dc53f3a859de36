// Package storage selects the storage engine at startup. Every engine keeps
// the same tables and honors the same query semantics.
package storage

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"

	"surveydesk/internal/app/server/config"
	"surveydesk/internal/domain/settings"
	"surveydesk/internal/domain/survey"
	"surveydesk/internal/infrastructure/storage/postgres"
	"surveydesk/internal/infrastructure/storage/sqlstore"
)

type Storage interface {
	survey.Repository
	settings.Repository

	// BackupPath returns the database file when the engine keeps one.
	BackupPath() (string, bool)
	Close() error
}

var (
	_ Storage = (*sqlstore.Store)(nil)
	_ Storage = (*postgres.Storage)(nil)
)

// Open connects the configured engine and applies its migrations.
func Open(ctx context.Context, cfg config.DB, log *slog.Logger) (Storage, error) {
	log = log.With("engine", cfg.Engine)

	var (
		s   Storage
		err error
	)
	switch cfg.Engine {
	case config.EngineMySQL:
		s, err = sqlstore.OpenMySQL(ctx, sqlstore.MySQLConfig{
			Host:     cfg.Host,
			Port:     cfg.Port,
			User:     cfg.User,
			Password: cfg.Password,
			Name:     cfg.Name,
		}, log)
	case config.EnginePostgres:
		s, err = postgres.New(ctx, cfg, log)
	case config.EngineSQLite, "":
		s, err = sqlstore.OpenSQLite(ctx, cfg.SQLitePath, log)
	default:
		return nil, fmt.Errorf("unknown storage engine %q", cfg.Engine)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Engine, err)
	}

	log.Info("storage ready")
	return s, nil
}
