package survey

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"surveydesk/internal/utils/idgen"
)

// TimeLayout is the ISO-8601 form every receivedAt value is stored in.
// Fixed width, so lexical order equals chronological order.
const TimeLayout = "2006-01-02T15:04:05.000Z"

const (
	FieldID         = "id"
	FieldReceivedAt = "receivedAt"
)

type Kind string

const (
	KindManager Kind = "manager"
	KindWorker  Kind = "worker"
)

// Kinds lists every collection in a stable order.
var Kinds = []Kind{KindManager, KindWorker}

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindManager, "managers":
		return KindManager, nil
	case KindWorker, "workers":
		return KindWorker, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// Table returns the table that stores records of this kind.
func (k Kind) Table() string {
	if k == KindManager {
		return "managers"
	}
	return "workers"
}

// Payload is the open set of question/answer fields of one submission.
type Payload map[string]any

// Record is one stored submission. Its JSON form is flat: payload fields
// side by side with id and receivedAt.
type Record struct {
	ID         string
	ReceivedAt string
	Payload    Payload
}

// NewRecord hoists id and receivedAt out of a raw submission.
func NewRecord(data map[string]any) Record {
	rec := Record{Payload: make(Payload, len(data))}
	for k, v := range data {
		switch k {
		case FieldID:
			rec.ID = stringValue(v)
		case FieldReceivedAt:
			rec.ReceivedAt = stringValue(v)
		default:
			rec.Payload[k] = v
		}
	}
	return rec
}

// WithDefaults fills a missing id and receivedAt.
func (r Record) WithDefaults(now time.Time) (Record, error) {
	if r.ID == "" {
		id, err := idgen.Generate(now)
		if err != nil {
			return r, err
		}
		r.ID = id
	}
	if r.ReceivedAt == "" {
		r.ReceivedAt = FormatTime(now)
	}
	if r.Payload == nil {
		r.Payload = Payload{}
	}
	delete(r.Payload, FieldID)
	delete(r.Payload, FieldReceivedAt)
	return r, nil
}

// Expanded returns the flat field map of the record.
func (r Record) Expanded() map[string]any {
	out := make(map[string]any, len(r.Payload)+2)
	for k, v := range r.Payload {
		out[k] = v
	}
	out[FieldID] = r.ID
	out[FieldReceivedAt] = r.ReceivedAt
	return out
}

func (r Record) MarshalJSON() ([]byte, error) {
	return EncodeJSON(r.Expanded())
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = NewRecord(raw)
	return nil
}

// EncodePayload serializes a payload for the payload column.
func EncodePayload(p Payload) (string, error) {
	if p == nil {
		p = Payload{}
	}
	data, err := EncodeJSON(p)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return string(data), nil
}

// DecodePayload parses the payload column. Stray id/receivedAt keys are dropped.
func DecodePayload(s string) (Payload, error) {
	p := Payload{}
	if strings.TrimSpace(s) == "" {
		return p, nil
	}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	delete(p, FieldID)
	delete(p, FieldReceivedAt)
	return p, nil
}

// EncodeJSON marshals without HTML escaping so stored text stays searchable.
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// StringValue renders a payload value the way it is compared in filters.
func StringValue(v any) string {
	return stringValue(v)
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, stringValue(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(t)
	}
}
