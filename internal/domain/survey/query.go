package survey

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	DefaultLimit  = 10
	maxFieldRunes = 128
	limitAll      = "all"
)

// Limit is either a positive page size or All.
type Limit struct {
	n   int
	all bool
}

// All disables pagination.
var All = Limit{all: true}

func LimitOf(n int) Limit {
	return Limit{n: n}
}

// ParseLimit accepts "all", a positive integer, or an empty string (default).
func ParseLimit(s string) (Limit, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LimitOf(DefaultLimit), nil
	}
	if strings.EqualFold(s, limitAll) {
		return All, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return Limit{}, fmt.Errorf("%w: %q", ErrInvalidLimit, s)
	}
	return LimitOf(n), nil
}

func (l Limit) IsAll() bool { return l.all }

// N returns the page size; zero for All.
func (l Limit) N() int {
	if l.all {
		return 0
	}
	return l.n
}

func (l Limit) String() string {
	if l.all {
		return limitAll
	}
	return strconv.Itoa(l.n)
}

func (l Limit) MarshalJSON() ([]byte, error) {
	if l.all {
		return json.Marshal(limitAll)
	}
	return json.Marshal(l.n)
}

// Filters maps a field name to the values it may take.
type Filters map[string][]string

// ParseFilters decodes the URL "filters" parameter: a JSON object whose
// values are a scalar or a list of scalars.
func ParseFilters(raw string) (Filters, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return Filters{}, nil
	}

	var decoded map[string]any
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: filters: %v", ErrInvalidData, err)
	}

	out := make(Filters, len(decoded))
	for field, v := range decoded {
		var values []string
		switch t := v.(type) {
		case []any:
			for _, item := range t {
				if s := stringValue(item); s != "" {
					values = append(values, s)
				}
			}
		default:
			if s := stringValue(t); s != "" {
				values = append(values, s)
			}
		}
		if len(values) == 0 {
			continue
		}
		if err := ValidateField(field); err != nil {
			return nil, err
		}
		out[field] = values
	}
	return out, nil
}

// Fields returns the non-empty filter keys in sorted order.
func (f Filters) Fields() []string {
	keys := make([]string, 0, len(f))
	for k, v := range f {
		if len(v) > 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func (f Filters) Validate() error {
	for _, k := range f.Fields() {
		if err := ValidateField(k); err != nil {
			return err
		}
	}
	return nil
}

// ValidateField guards field names that end up inside SQL JSON paths.
// Letters and digits of any script, spaces and a few punctuation marks
// used in question texts are allowed. Quotes, backslashes and control
// characters are not.
func ValidateField(name string) error {
	if name == "" || !utf8.ValidString(name) || utf8.RuneCountInString(name) > maxFieldRunes {
		return fmt.Errorf("%w: %q", ErrInvalidField, name)
	}
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r):
		case r == ' ', r == '_', r == '-', r == '(', r == ')', r == '.', r == '?', r == '؟', r == '/', r == 'ـ', r == '،':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidField, name)
		}
	}
	return nil
}

// Query selects a page of records.
type Query struct {
	Limit   Limit
	Offset  int
	Search  string
	Filters Filters
}
