package branch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"surveydesk/internal/domain/survey"
)

// memoryRepository keeps records per kind in insertion order.
type memoryRepository struct {
	records   map[survey.Kind][]survey.Record
	updates   int
	updateErr error
}

func (r *memoryRepository) List(_ context.Context, kind survey.Kind, _ survey.Query) ([]survey.Record, error) {
	out := make([]survey.Record, len(r.records[kind]))
	copy(out, r.records[kind])
	return out, nil
}

func (r *memoryRepository) UpdatePayload(_ context.Context, kind survey.Kind, id string, p survey.Payload) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	for i, rec := range r.records[kind] {
		if rec.ID == id {
			r.records[kind][i].Payload = p
			r.updates++
			return nil
		}
	}
	return survey.ErrNotFound
}

func newRepository() *memoryRepository {
	return &memoryRepository{records: map[survey.Kind][]survey.Record{
		survey.KindWorker: {
			{ID: "w1", Payload: survey.Payload{"الرقابة عادلة؟": "نعم", Field: "جسر الشغور"}},
			{ID: "w2", Payload: survey.Payload{Field: "حلب"}},
			{ID: "w3", Payload: survey.Payload{Field: "القامشلي"}},
			{ID: "w4", Payload: survey.Payload{"q": "no branch"}},
		},
		survey.KindManager: {
			{ID: "m1", Payload: survey.Payload{"رقم المحطة": "17"}},
			{ID: "m2", Payload: survey.Payload{Field: "حماه "}},
		},
	}}
}

func TestService_Run(t *testing.T) {
	repo := newRepository()
	service := NewService(repo, slog.Default())

	res, err := service.Run(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Changed[survey.KindWorker])
	assert.Equal(t, 2, res.Changed[survey.KindManager])
	assert.Equal(t, 3, res.Total())
	assert.Equal(t, 4, res.Scanned[survey.KindWorker])
	assert.Equal(t, 1, res.Unmatched[survey.KindWorker])
	assert.Equal(t, 3, repo.updates)

	w1 := repo.records[survey.KindWorker][0].Payload
	assert.Equal(t, Idlib, w1[Field])
	assert.Equal(t, "نعم", w1["الرقابة عادلة؟"])

	assert.Equal(t, "القامشلي", repo.records[survey.KindWorker][2].Payload[Field])
	assert.Equal(t, Idlib, repo.records[survey.KindManager][0].Payload["رقم المحطة"])
	assert.Equal(t, Hama, repo.records[survey.KindManager][1].Payload[Field])
}

func TestService_Run_Idempotent(t *testing.T) {
	repo := newRepository()
	service := NewService(repo, slog.Default())

	_, err := service.Run(context.Background(), false)
	require.NoError(t, err)

	res, err := service.Run(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total())
	assert.Empty(t, res.Changes)
}

func TestService_Run_DryRun(t *testing.T) {
	repo := newRepository()
	service := NewService(repo, slog.Default())

	res, err := service.Run(context.Background(), true)
	require.NoError(t, err)

	assert.True(t, res.DryRun)
	assert.Equal(t, 3, res.Total())
	assert.Equal(t, 0, repo.updates)
	assert.Equal(t, "جسر الشغور", repo.records[survey.KindWorker][0].Payload[Field])

	require.NotEmpty(t, res.Changes)
	assert.Equal(t, Change{Kind: survey.KindManager, ID: "m1", Field: "رقم المحطة", From: "17", To: Idlib}, res.Changes[0])
}

func TestService_Run_UpdateError(t *testing.T) {
	repo := newRepository()
	repo.updateErr = errors.New("database is locked")
	service := NewService(repo, slog.Default())

	_, err := service.Run(context.Background(), false)
	assert.ErrorContains(t, err, "database is locked")
}

func TestService_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewService(newRepository(), slog.Default()).Run(ctx, false)
	assert.ErrorIs(t, err, context.Canceled)
}
