package query

import (
	"strconv"
)

// Dialect описывает различия SQL между движками.
type Dialect interface {
	Name() string
	// Placeholder returns the n-th (1-based) bind marker.
	Placeholder(n int) string
	// JSONField extracts a top-level payload field as text. field must be validated.
	JSONField(field string) string
	// Contains is a case-insensitive substring match of column against a bound pattern.
	Contains(column, placeholder string) string
	// Upsert inserts or replaces a settings row.
	Upsert(table, keyColumn, valueColumn string) string
}

// SQLiteLower is a Unicode-aware LOWER registered on the SQLite driver by
// sqlstore; the built-in LOWER folds ASCII only.
const SQLiteLower = "unicode_lower"

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "sqlite" }
func (sqliteDialect) Placeholder(int) string { return "?" }
// JSONField casts to TEXT: json_extract returns INTEGER/REAL for numbers,
// and filter values are always bound as text.
func (sqliteDialect) JSONField(f string) string {
	return `CAST(json_extract(payload, '$."` + f + `"') AS TEXT)`
}
func (sqliteDialect) Contains(col, ph string) string {
	return SQLiteLower + "(" + col + ") LIKE " + ph
}
func (sqliteDialect) Upsert(table, k, v string) string {
	return "INSERT INTO " + table + " (" + k + ", " + v + ") VALUES (?, ?) " +
		"ON CONFLICT(" + k + ") DO UPDATE SET " + v + " = excluded." + v
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string { return "mysql" }
func (mysqlDialect) Placeholder(int) string { return "?" }
func (mysqlDialect) JSONField(f string) string {
	return `JSON_UNQUOTE(JSON_EXTRACT(payload, '$."` + f + `"'))`
}
func (mysqlDialect) Contains(col, ph string) string {
	return "LOWER(" + col + ") LIKE " + ph
}
func (mysqlDialect) Upsert(table, k, v string) string {
	return "INSERT INTO " + table + " (" + k + ", " + v + ") VALUES (?, ?) " +
		"ON DUPLICATE KEY UPDATE " + v + " = VALUES(" + v + ")"
}

type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }
func (postgresDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }
func (postgresDialect) JSONField(f string) string { return "(payload::jsonb ->> '" + f + "')" }
func (postgresDialect) Contains(col, ph string) string {
	return col + " ILIKE " + ph
}
func (postgresDialect) Upsert(table, k, v string) string {
	return "INSERT INTO " + table + " (" + k + ", " + v + ") VALUES ($1, $2) " +
		"ON CONFLICT (" + k + ") DO UPDATE SET " + v + " = EXCLUDED." + v
}

var (
	SQLite   Dialect = sqliteDialect{}
	MySQL    Dialect = mysqlDialect{}
	Postgres Dialect = postgresDialect{}
)
