package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/exp/slog"

	"surveydesk/internal/domain/survey"
	"surveydesk/internal/infrastructure/storage/query"
)

// DB is the subset of pgxpool.Pool the repositories use.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type SurveyRepository struct {
	db  DB
	log *slog.Logger
	now func() time.Time
}

var _ survey.Repository = (*SurveyRepository)(nil)

func NewSurveyRepository(db DB, log *slog.Logger) *SurveyRepository {
	return &SurveyRepository{
		db:  db,
		log: log.With("component", "survey_repository"),
		now: time.Now,
	}
}

func (r *SurveyRepository) List(ctx context.Context, kind survey.Kind, q survey.Query) ([]survey.Record, error) {
	c, err := query.Build(query.Postgres, q.Search, q.Filters, 1)
	if err != nil {
		return nil, err
	}
	page, pageArgs := query.Page(query.Postgres, q.Limit, q.Offset, c.Next)

	stmt := `SELECT id, received_at, payload FROM ` + kind.Table() + c.Where() +
		` ORDER BY received_at DESC, id DESC` + page

	rows, err := r.db.Query(ctx, stmt, append(c.Args, pageArgs...)...)
	if err != nil {
		r.log.Error("failed to list records", "type", kind, "error", err)
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	return r.scanRecords(rows)
}

func (r *SurveyRepository) Count(ctx context.Context, kind survey.Kind, search string, filters survey.Filters) (int, error) {
	c, err := query.Build(query.Postgres, search, filters, 1)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM `+kind.Table()+c.Where(), c.Args...).Scan(&n); err != nil {
		r.log.Error("failed to count records", "type", kind, "error", err)
		return 0, fmt.Errorf("count records: %w", err)
	}
	return int(n), nil
}

func (r *SurveyRepository) Add(ctx context.Context, kind survey.Kind, rec survey.Record) (string, error) {
	rec, err := rec.WithDefaults(r.now())
	if err != nil {
		return "", err
	}
	payload, err := survey.EncodePayload(rec.Payload)
	if err != nil {
		return "", err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO `+kind.Table()+` (id, received_at, payload) VALUES ($1, $2, $3)`,
		rec.ID, rec.ReceivedAt, payload)
	if err != nil {
		r.log.Error("failed to create record", "type", kind, "id", rec.ID, "error", err)
		return "", fmt.Errorf("create record: %w", err)
	}
	return rec.ID, nil
}

func (r *SurveyRepository) Delete(ctx context.Context, kind survey.Kind, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM `+kind.Table()+` WHERE id = $1`, id)
	if err != nil {
		r.log.Error("failed to delete record", "type", kind, "id", id, "error", err)
		return false, fmt.Errorf("delete record: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *SurveyRepository) Get(ctx context.Context, kind survey.Kind, id string) (*survey.Record, error) {
	row := r.db.QueryRow(ctx, `SELECT id, received_at, payload FROM `+kind.Table()+` WHERE id = $1`, id)

	rec, err := r.scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, survey.ErrNotFound
		}
		r.log.Error("failed to get record", "type", kind, "id", id, "error", err)
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

func (r *SurveyRepository) UniqueValues(ctx context.Context, kind survey.Kind, field string, filters survey.Filters) ([]string, error) {
	expr, err := query.FieldExpr(query.Postgres, field)
	if err != nil {
		return nil, err
	}
	c, err := query.Build(query.Postgres, "", filters, 1)
	if err != nil {
		return nil, err
	}
	c = c.And(expr+" IS NOT NULL", expr+" <> ''")

	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT `+expr+` AS value FROM `+kind.Table()+c.Where()+` ORDER BY value`, c.Args...)
	if err != nil {
		return nil, fmt.Errorf("unique values: %w", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v *string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan value: %w", err)
		}
		if v != nil && *v != "" {
			values = append(values, *v)
		}
	}
	return values, rows.Err()
}

func (r *SurveyRepository) UpdatePayload(ctx context.Context, kind survey.Kind, id string, p survey.Payload) error {
	payload, err := survey.EncodePayload(p)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `UPDATE `+kind.Table()+` SET payload = $1 WHERE id = $2`, payload, id)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return survey.ErrNotFound
	}
	return nil
}

// Вспомогательные методы
func (r *SurveyRepository) scanRecords(rows pgx.Rows) ([]survey.Record, error) {
	records := []survey.Record{}
	for rows.Next() {
		rec, err := r.scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (r *SurveyRepository) scanRecord(row pgx.Row) (*survey.Record, error) {
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
