// Package query builds the WHERE fragments shared by the list, count and
// unique-values queries of every storage engine.
package query

import (
	"fmt"
	"strings"

	"surveydesk/internal/domain/survey"
)

const (
	ColumnPayload    = "payload"
	ColumnReceivedAt = "received_at"
)

// Clause is a condition with its bound arguments. Next is the number of the
// first placeholder still free after this clause.
type Clause struct {
	SQL  string
	Args []any
	Next int
}

// Where renders the clause with a leading WHERE, or nothing when empty.
func (c Clause) Where() string {
	if c.SQL == "" {
		return ""
	}
	return " WHERE " + c.SQL
}

// And appends extra conditions to the clause.
func (c Clause) And(conds ...string) Clause {
	parts := make([]string, 0, len(conds)+1)
	if c.SQL != "" {
		parts = append(parts, c.SQL)
	}
	parts = append(parts, conds...)
	c.SQL = strings.Join(parts, " AND ")
	return c
}

// FieldExpr maps a field name to the SQL expression holding its value.
func FieldExpr(d Dialect, field string) (string, error) {
	if field == survey.FieldReceivedAt {
		return ColumnReceivedAt, nil
	}
	if err := survey.ValidateField(field); err != nil {
		return "", err
	}
	return d.JSONField(field), nil
}

// Build turns a free-text search and field filters into a condition.
// Placeholders are numbered from first.
func Build(d Dialect, search string, filters survey.Filters, first int) (Clause, error) {
	c := Clause{Next: first}
	var conds []string

	if s := strings.TrimSpace(search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		conds = append(conds, fmt.Sprintf("(%s OR %s)",
			d.Contains(ColumnPayload, d.Placeholder(c.Next)),
			d.Contains(ColumnReceivedAt, d.Placeholder(c.Next+1)),
		))
		c.Args = append(c.Args, pattern, pattern)
		c.Next += 2
	}

	for _, field := range filters.Fields() {
		expr, err := FieldExpr(d, field)
		if err != nil {
			return Clause{}, err
		}
		values := filters[field]
		marks := make([]string, len(values))
		for i, v := range values {
			marks[i] = d.Placeholder(c.Next)
			c.Args = append(c.Args, v)
			c.Next++
		}
		conds = append(conds, fmt.Sprintf("%s IN (%s)", expr, strings.Join(marks, ", ")))
	}

	c.SQL = strings.Join(conds, " AND ")
	return c, nil
}

// Page renders LIMIT/OFFSET for a bounded limit; nothing for All.
func Page(d Dialect, limit survey.Limit, offset, next int) (string, []any) {
	if limit.IsAll() {
		return "", nil
	}
	if offset < 0 {
		offset = 0
	}
	return fmt.Sprintf(" LIMIT %s OFFSET %s", d.Placeholder(next), d.Placeholder(next+1)),
		[]any{limit.N(), offset}
}
