package postgres

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"surveydesk/internal/app/server/config"
	"surveydesk/internal/infrastructure/migration"
)

const maxConns = 10

type Storage struct {
	*SurveyRepository
	*SettingsRepository

	pool *pgxpool.Pool
}

func New(ctx context.Context, cfg config.DB, log *slog.Logger) (*Storage, error) {
	uri := DatabaseURL(cfg)

	poolCfg, err := pgxpool.ParseConfig(uri)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolCfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	mg := migration.NewMigration("postgres", uri, nil)
	if err := mg.Up(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &Storage{
		SurveyRepository:   NewSurveyRepository(pool, log),
		SettingsRepository: NewSettingsRepository(pool, log),
		pool:               pool,
	}, nil
}

// DatabaseURL prefers DATABASE_URI and otherwise assembles one from DB_* values.
func DatabaseURL(cfg config.DB) string {
	if cfg.DatabaseURI != "" {
		return cfg.DatabaseURI
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		Path:     "/" + cfg.Name,
		RawQuery: "sslmode=disable",
	}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	return u.String()
}

func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// BackupPath: у сетевого движка нет файла для выгрузки.
func (s *Storage) BackupPath() (string, bool) {
	return "", false
}

func (s *Storage) Pool() *pgxpool.Pool {
	return s.pool
}
