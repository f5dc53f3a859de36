// Package sqlstore implements survey and settings storage on database/sql.
// It serves the embedded SQLite engine and the networked MySQL engine; the
// differences between them live in query.Dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"golang.org/x/exp/slog"
	// Pure Go SQLite driver, registers "sqlite"
	_ "modernc.org/sqlite"

	"surveydesk/internal/domain/settings"
	"surveydesk/internal/domain/survey"
	"surveydesk/internal/infrastructure/migration"
	"surveydesk/internal/infrastructure/storage/query"
)

type Store struct {
	db      *sql.DB
	dialect query.Dialect
	path    string
	log     *slog.Logger
	now     func() time.Time
}

var (
	_ survey.Repository   = (*Store)(nil)
	_ settings.Repository = (*Store)(nil)
)

// New wraps an open database. Schema is expected to exist.
func New(db *sql.DB, dialect query.Dialect, log *slog.Logger) *Store {
	return &Store{
		db:      db,
		dialect: dialect,
		log:     log.With("component", "sqlstore", "engine", dialect.Name()),
		now:     time.Now,
	}
}

// OpenSQLite opens (creating if needed) the database file at path and
// applies migrations. A single connection is kept, so writes are serialized.
func OpenSQLite(ctx context.Context, path string, log *slog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	if err := migration.NewMigration("sqlite", "sqlite://"+path, nil).Up(); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := New(db, query.SQLite, log)
	s.path = path
	return s, nil
}

type MySQLConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// DSN renders the go-sql-driver DSN.
func (c MySQLConfig) DSN(multiStatements bool) string {
	port := c.Port
	if port == 0 {
		port = 3306
	}
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(port))
	cfg.DBName = c.Name
	cfg.MultiStatements = multiStatements
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// OpenMySQL connects a bounded pool and applies migrations.
func OpenMySQL(ctx context.Context, c MySQLConfig, log *slog.Logger) (*Store, error) {
	db, err := sql.Open("mysql", c.DSN(false))
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	if err := migration.NewMigration("mysql", "mysql://"+c.DSN(true), nil).Up(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return New(db, query.MySQL, log), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// BackupPath returns the database file of the embedded engine.
func (s *Store) BackupPath() (string, bool) {
	return s.path, s.path != ""
}

const selectRecord = "SELECT id, received_at, payload FROM "

func (s *Store) List(ctx context.Context, kind survey.Kind, q survey.Query) ([]survey.Record, error) {
	c, err := query.Build(s.dialect, q.Search, q.Filters, 1)
	if err != nil {
		return nil, err
	}
	page, pageArgs := query.Page(s.dialect, q.Limit, q.Offset, c.Next)

	stmt := selectRecord + kind.Table() + c.Where() + " ORDER BY received_at DESC, id DESC" + page
	rows, err := s.db.QueryContext(ctx, stmt, append(c.Args, pageArgs...)...)
	if err != nil {
		s.log.Error("failed to list records", "type", kind, "error", err)
		return nil, fmt.Errorf("list %s: %w", kind.Table(), err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (s *Store) Count(ctx context.Context, kind survey.Kind, search string, filters survey.Filters) (int, error) {
	c, err := query.Build(s.dialect, search, filters, 1)
	if err != nil {
		return 0, err
	}

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+kind.Table()+c.Where(), c.Args...).Scan(&n); err != nil {
		s.log.Error("failed to count records", "type", kind, "error", err)
		return 0, fmt.Errorf("count %s: %w", kind.Table(), err)
	}
	return n, nil
}

func (s *Store) Add(ctx context.Context, kind survey.Kind, rec survey.Record) (string, error) {
	rec, err := rec.WithDefaults(s.now())
	if err != nil {
		return "", err
	}
	payload, err := survey.EncodePayload(rec.Payload)
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO "+kind.Table()+" (id, received_at, payload) VALUES (?, ?, ?)",
		rec.ID, rec.ReceivedAt, payload)
	if err != nil {
		s.log.Error("failed to add record", "type", kind, "id", rec.ID, "error", err)
		return "", fmt.Errorf("add %s: %w", kind, err)
	}
	return rec.ID, nil
}

func (s *Store) Delete(ctx context.Context, kind survey.Kind, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+kind.Table()+" WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", kind, err)
	}
	return n > 0, nil
}

func (s *Store) Get(ctx context.Context, kind survey.Kind, id string) (*survey.Record, error) {
	row := s.db.QueryRowContext(ctx, selectRecord+kind.Table()+" WHERE id = ?", id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, survey.ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", kind, err)
	}
	return rec, nil
}

func (s *Store) UniqueValues(ctx context.Context, kind survey.Kind, field string, filters survey.Filters) ([]string, error) {
	expr, err := query.FieldExpr(s.dialect, field)
	if err != nil {
		return nil, err
	}
	c, err := query.Build(s.dialect, "", filters, 1)
	if err != nil {
		return nil, err
	}
	c = c.And(expr+" IS NOT NULL", expr+" <> ''")

	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT "+expr+" AS value FROM "+kind.Table()+c.Where()+" ORDER BY value", c.Args...)
	if err != nil {
		return nil, fmt.Errorf("unique values: %w", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan value: %w", err)
		}
		if v.Valid && v.String != "" {
			values = append(values, v.String)
		}
	}
	return values, rows.Err()
}

func (s *Store) UpdatePayload(ctx context.Context, kind survey.Kind, id string, p survey.Payload) error {
	payload, err := survey.EncodePayload(p)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, "UPDATE "+kind.Table()+" SET payload = ? WHERE id = ?", payload, id)
	if err != nil {
		return fmt.Errorf("update %s: %w", kind, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return survey.ErrNotFound
	}
	return nil
}

func (s *Store) Settings(ctx context.Context, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	marks := make([]byte, 0, len(keys)*3)
	args := make([]any, len(keys))
	for i, k := range keys {
		if i > 0 {
			marks = append(marks, ", "...)
		}
		marks = append(marks, '?')
		args[i] = k
	}

	rows, err := s.db.QueryContext(ctx, "SELECT name, value FROM settings WHERE name IN ("+string(marks)+")", args...)
	if err != nil {
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

func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.Upsert("settings", "name", "value"), key, value); err != nil {
		return fmt.Errorf("write setting %s: %w", key, err)
	}
	return nil
}

// Вспомогательные методы
func scanRecords(rows *sql.Rows) ([]survey.Record, error) {
	records := []survey.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func scanRecord(row interface {
	Scan(dest ...any) error
}) (*survey.Record, error) {
	var (
		rec     survey.Record
		payload string
	)
	if err := row.Scan(&rec.ID, &rec.ReceivedAt, &payload); err != nil {
		return nil, err
	}
	p, err := survey.DecodePayload(payload)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", rec.ID, err)
	}
	rec.Payload = p
	return &rec, nil
}
