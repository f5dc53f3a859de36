package survey

import "context"

// Repository хранит записи обеих коллекций. Реализации: sqlstore (SQLite, MySQL) и postgres.
type Repository interface {
	// List returns records newest first. Offset is ignored when q.Limit is All.
	List(ctx context.Context, kind Kind, q Query) ([]Record, error)
	// Count honors the same predicate as List.
	Count(ctx context.Context, kind Kind, search string, filters Filters) (int, error)
	// Add stores rec, filling a missing id and receivedAt, and returns the id.
	Add(ctx context.Context, kind Kind, rec Record) (string, error)
	// Delete reports whether a row existed and was removed.
	Delete(ctx context.Context, kind Kind, id string) (bool, error)
	// Get returns ErrNotFound when no such record exists.
	Get(ctx context.Context, kind Kind, id string) (*Record, error)
	UniqueValues(ctx context.Context, kind Kind, field string, filters Filters) ([]string, error)
	UpdatePayload(ctx context.Context, kind Kind, id string, payload Payload) error
}
