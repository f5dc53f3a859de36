package sqlstore

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"modernc.org/sqlite"

	"surveydesk/internal/infrastructure/storage/query"
)

func init() {
	if err := sqlite.RegisterDeterministicScalarFunction(query.SQLiteLower, 1, unicodeLower); err != nil {
		panic(fmt.Sprintf("register %s: %v", query.SQLiteLower, err))
	}
}

// unicodeLower folds case with Unicode rules, so search is case-insensitive
// for Cyrillic, accented Latin and the like.
func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return strings.ToLower(fmt.Sprint(v)), nil
	}
}
