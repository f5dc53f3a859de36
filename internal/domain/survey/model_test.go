package survey

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "manager", want: KindManager},
		{in: "Workers", want: KindWorker},
		{in: " worker ", want: KindWorker},
		{in: "admin", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecord_WithDefaults(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 6_000_000, time.FixedZone("AST", 3*3600))

	rec, err := Record{Payload: Payload{"a": "b", FieldID: "x"}}.WithDefaults(now)
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "2024-01-02T00:04:05.006Z", rec.ReceivedAt)
	assert.Equal(t, Payload{"a": "b"}, rec.Payload)

	kept, err := Record{ID: "keep", ReceivedAt: "2020-01-01T00:00:00.000Z"}.WithDefaults(now)
	require.NoError(t, err)
	assert.Equal(t, "keep", kept.ID)
	assert.Equal(t, "2020-01-01T00:00:00.000Z", kept.ReceivedAt)
	assert.NotNil(t, kept.Payload)
}

func TestRecord_JSONIsFlat(t *testing.T) {
	rec := Record{
		ID:         "w1",
		ReceivedAt: "2024-05-01T10:00:00.000Z",
		Payload:    Payload{"اسم الفرع": "حلب", "note": "<b>&</b>"},
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"note":"<b>&</b>"`)
	assert.Contains(t, string(data), `"اسم الفرع":"حلب"`)

	var back Record
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, rec, back)
}

func TestPayload_EncodeDecode(t *testing.T) {
	encoded, err := EncodePayload(Payload{"q": "نعم", "n": 3, "list": []string{"a", "b"}})
	require.NoError(t, err)

	decoded, err := DecodePayload(encoded)
	require.NoError(t, err)
	assert.Equal(t, "نعم", decoded["q"])
	assert.Equal(t, json.Number("3"), decoded["n"])
	assert.Equal(t, []any{"a", "b"}, decoded["list"])

	empty, err := DecodePayload("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	stray, err := DecodePayload(`{"id":"x","receivedAt":"y","k":"v"}`)
	require.NoError(t, err)
	assert.Equal(t, Payload{"k": "v"}, stray)

	_, err = DecodePayload("{broken")
	assert.Error(t, err)
}

func TestStringValue(t *testing.T) {
	assert.Equal(t, "", StringValue(nil))
	assert.Equal(t, "x", StringValue("x"))
	assert.Equal(t, "12", StringValue(json.Number("12")))
	assert.Equal(t, "1.5", StringValue(1.5))
	assert.Equal(t, "a, b", StringValue([]any{"a", "b"}))
	assert.Equal(t, "true", StringValue(true))
}
