package sqlstore

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"surveydesk/internal/domain/branch"
	"surveydesk/internal/domain/survey"
)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "surveys.db")
	s, err := OpenSQLite(context.Background(), path, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func addRecord(t *testing.T, s *Store, kind survey.Kind, id, at string, p survey.Payload) {
	t.Helper()
	got, err := s.Add(context.Background(), kind, survey.Record{ID: id, ReceivedAt: at, Payload: p})
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestOpenSQLite_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "surveys.db")
	ctx := context.Background()

	s, err := OpenSQLite(ctx, path, slog.Default())
	require.NoError(t, err)
	addRecord(t, s, survey.KindWorker, "w1", "2024-05-01T10:00:00.000Z", survey.Payload{"q": "a"})
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path, slog.Default())
	require.NoError(t, err)
	defer s.Close()

	n, err := s.Count(ctx, survey.KindWorker, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	backup, ok := s.BackupPath()
	assert.True(t, ok)
	assert.Equal(t, path, backup)
}

func TestStore_AddGetRoundTrip(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	payload := survey.Payload{
		"اسم الفرع":       "جسر الشغور",
		"الرقابة عادلة؟":  "نعم",
		"أسباب المخالفات": []any{"تأخير", "غياب"},
		"العمر":           json.Number("34"),
	}
	addRecord(t, s, survey.KindWorker, "w1", "2024-05-01T10:00:00.000Z", payload)

	got, err := s.Get(ctx, survey.KindWorker, "w1")
	require.NoError(t, err)
	assert.Equal(t, "w1", got.ID)
	assert.Equal(t, "2024-05-01T10:00:00.000Z", got.ReceivedAt)
	assert.Equal(t, "جسر الشغور", got.Payload["اسم الفرع"])
	assert.Equal(t, json.Number("34"), got.Payload["العمر"])
	assert.Equal(t, []any{"تأخير", "غياب"}, got.Payload["أسباب المخالفات"])

	_, err = s.Get(ctx, survey.KindManager, "w1")
	assert.ErrorIs(t, err, survey.ErrNotFound)
}

func TestStore_AddFillsDefaults(t *testing.T) {
	s := newSQLiteStore(t)
	s.now = func() time.Time { return time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC) }

	id, err := s.Add(context.Background(), survey.KindManager, survey.Record{Payload: survey.Payload{"q": "a"}})
	require.NoError(t, err)
	assert.Regexp(t, `^1717315200000-[0-9a-z]{9}$`, id)

	got, err := s.Get(context.Background(), survey.KindManager, id)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-02T08:00:00.000Z", got.ReceivedAt)
}

func TestStore_DeleteTwice(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	addRecord(t, s, survey.KindWorker, "w1", "2024-05-01T10:00:00.000Z", survey.Payload{})

	removed, err := s.Delete(ctx, survey.KindWorker, "w1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.Delete(ctx, survey.KindWorker, "w1")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestStore_ListOrderPaginationAndCount(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	addRecord(t, s, survey.KindWorker, "w1", "2024-05-01T10:00:00.000Z", survey.Payload{"اسم الفرع": "إدلب", "note": "Alpha"})
	addRecord(t, s, survey.KindWorker, "w2", "2024-05-02T10:00:00.000Z", survey.Payload{"اسم الفرع": "حلب", "note": "beta"})
	addRecord(t, s, survey.KindWorker, "w3", "2024-05-03T10:00:00.000Z", survey.Payload{"اسم الفرع": "إدلب", "note": "gamma"})

	all, err := s.List(ctx, survey.KindWorker, survey.Query{Limit: survey.All, Offset: 2})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"w3", "w2", "w1"}, ids(all))

	n, err := s.Count(ctx, survey.KindWorker, "", nil)
	require.NoError(t, err)
	assert.Equal(t, len(all), n)

	page, err := s.List(ctx, survey.KindWorker, survey.Query{Limit: survey.LimitOf(2), Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"w1"}, ids(page))

	filters := survey.Filters{"اسم الفرع": {"إدلب"}}
	filtered, err := s.List(ctx, survey.KindWorker, survey.Query{Limit: survey.All, Filters: filters})
	require.NoError(t, err)
	assert.Equal(t, []string{"w3", "w1"}, ids(filtered))

	n, err = s.Count(ctx, survey.KindWorker, "", filters)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	found, err := s.List(ctx, survey.KindWorker, survey.Query{Limit: survey.All, Search: "ALPHA"})
	require.NoError(t, err)
	assert.Equal(t, []string{"w1"}, ids(found))

	byDate, err := s.List(ctx, survey.KindWorker, survey.Query{Limit: survey.All, Search: "2024-05-02"})
	require.NoError(t, err)
	assert.Equal(t, []string{"w2"}, ids(byDate))

	empty, err := s.List(ctx, survey.KindManager, survey.Query{Limit: survey.LimitOf(10)})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestStore_UniqueValues(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	addRecord(t, s, survey.KindManager, "m1", "2024-05-01T10:00:00.000Z", survey.Payload{"اسم الفرع": "حلب", "q": "نعم"})
	addRecord(t, s, survey.KindManager, "m2", "2024-05-02T10:00:00.000Z", survey.Payload{"اسم الفرع": "إدلب", "q": "لا"})
	addRecord(t, s, survey.KindManager, "m3", "2024-05-03T10:00:00.000Z", survey.Payload{"اسم الفرع": "حلب", "q": "نعم"})
	addRecord(t, s, survey.KindManager, "m4", "2024-05-04T10:00:00.000Z", survey.Payload{"اسم الفرع": ""})
	addRecord(t, s, survey.KindManager, "m5", "2024-05-05T10:00:00.000Z", survey.Payload{"other": "x"})

	values, err := s.UniqueValues(ctx, survey.KindManager, "اسم الفرع", nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"حلب", "إدلب"}, values)

	values, err = s.UniqueValues(ctx, survey.KindManager, "اسم الفرع", survey.Filters{"q": {"نعم"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"حلب"}, values)

	values, err = s.UniqueValues(ctx, survey.KindManager, survey.FieldReceivedAt, survey.Filters{"q": {"لا"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-05-02T10:00:00.000Z"}, values)

	values, err = s.UniqueValues(ctx, survey.KindWorker, "اسم الفرع", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{}, values)

	_, err = s.UniqueValues(ctx, survey.KindManager, `a"b`, nil)
	assert.ErrorIs(t, err, survey.ErrInvalidField)
}

func TestStore_FilterOnNumericUniqueValue(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	addRecord(t, s, survey.KindWorker, "w1", "2024-05-01T10:00:00.000Z", survey.Payload{"العمر": json.Number("34")})
	addRecord(t, s, survey.KindWorker, "w2", "2024-05-02T10:00:00.000Z", survey.Payload{"العمر": 2.5})
	addRecord(t, s, survey.KindWorker, "w3", "2024-05-03T10:00:00.000Z", survey.Payload{"العمر": "40"})

	values, err := s.UniqueValues(ctx, survey.KindWorker, "العمر", nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"34", "2.5", "40"}, values)

	for _, v := range values {
		filters := survey.Filters{"العمر": {v}}

		n, err := s.Count(ctx, survey.KindWorker, "", filters)
		require.NoError(t, err)
		assert.Equal(t, 1, n, v)

		list, err := s.List(ctx, survey.KindWorker, survey.Query{Limit: survey.All, Filters: filters})
		require.NoError(t, err)
		assert.Len(t, list, 1, v)
	}
}

func TestStore_SearchFoldsUnicodeCase(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	addRecord(t, s, survey.KindManager, "m1", "2024-05-01T10:00:00.000Z", survey.Payload{"name": "Émile"})
	addRecord(t, s, survey.KindManager, "m2", "2024-05-02T10:00:00.000Z", survey.Payload{"name": "Дмитрий"})

	tests := []struct {
		search string
		want   []string
	}{
		{search: "Émile", want: []string{"m1"}},
		{search: "émile", want: []string{"m1"}},
		{search: "ÉMILE", want: []string{"m1"}},
		{search: "дмитрий", want: []string{"m2"}},
		{search: "ДМИТ", want: []string{"m2"}},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			got, err := s.List(ctx, survey.KindManager, survey.Query{Limit: survey.All, Search: tt.search})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))

			n, err := s.Count(ctx, survey.KindManager, tt.search, nil)
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), n)
		})
	}
}

func TestStore_UpdatePayload(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	addRecord(t, s, survey.KindWorker, "w1", "2024-05-01T10:00:00.000Z", survey.Payload{"اسم الفرع": "جسر الشغور"})

	require.NoError(t, s.UpdatePayload(ctx, survey.KindWorker, "w1", survey.Payload{"اسم الفرع": "إدلب"}))

	got, err := s.Get(ctx, survey.KindWorker, "w1")
	require.NoError(t, err)
	assert.Equal(t, "إدلب", got.Payload["اسم الفرع"])
	assert.Equal(t, "2024-05-01T10:00:00.000Z", got.ReceivedAt)

	values, err := s.UniqueValues(ctx, survey.KindWorker, "اسم الفرع", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"إدلب"}, values)

	err = s.UpdatePayload(ctx, survey.KindWorker, "missing", survey.Payload{})
	assert.ErrorIs(t, err, survey.ErrNotFound)
}

func TestStore_Settings(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	values, err := s.Settings(ctx, "lock_worker", "lock_manager")
	require.NoError(t, err)
	assert.Empty(t, values)

	require.NoError(t, s.SetSetting(ctx, "lock_worker", "1"))
	require.NoError(t, s.SetSetting(ctx, "lock_worker", "0"))
	require.NoError(t, s.SetSetting(ctx, "lock_manager", "1"))

	values, err = s.Settings(ctx, "lock_worker", "lock_manager")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"lock_worker": "0", "lock_manager": "1"}, values)

	values, err = s.Settings(ctx)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestStore_BranchNormalizationScenario(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	id, err := s.Add(ctx, survey.KindWorker, survey.Record{Payload: survey.Payload{
		"الرقابة عادلة؟": "نعم",
		"اسم الفرع":      "جسر الشغور",
	}})
	require.NoError(t, err)

	normalizer := branch.NewService(s, slog.Default())
	res, err := normalizer.Run(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total())

	got, err := s.Get(ctx, survey.KindWorker, id)
	require.NoError(t, err)
	assert.Equal(t, "إدلب", got.Payload["اسم الفرع"])
	assert.Equal(t, "نعم", got.Payload["الرقابة عادلة؟"])

	res, err = normalizer.Run(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total())
}

func ids(records []survey.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
