package backup

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"surveydesk/internal/app/server/api/http/httperr"
)

type fileSource struct {
	path string
	ok   bool
}

func (s fileSource) BackupPath() (string, bool) {
	return s.path, s.ok
}

func TestHandler_Download(t *testing.T) {
	httperr.Install(false)

	t.Run("streams sqlite file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "surveys.db")
		require.NoError(t, os.WriteFile(path, []byte("SQLite format 3\x00payload"), 0o600))

		_, api := humatest.New(t)
		h := NewHandler(fileSource{path: path, ok: true}, slog.Default(), nil)
		h.now = func() time.Time { return time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC) }
		h.SetupRoutes(api)

		resp := api.Get("/api/backup")

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "application/octet-stream", resp.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="surveys-backup-2024-06-02.db"`, resp.Header().Get("Content-Disposition"))
		assert.Equal(t, "SQLite format 3\x00payload", resp.Body.String())
	})

	t.Run("networked engine", func(t *testing.T) {
		_, api := humatest.New(t)
		NewHandler(fileSource{}, slog.Default(), nil).SetupRoutes(api)

		resp := api.Get("/api/backup")

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Contains(t, resp.Body.String(), "only available for SQLite")
	})

	t.Run("missing file", func(t *testing.T) {
		_, api := humatest.New(t)
		NewHandler(fileSource{path: filepath.Join(t.TempDir(), "gone.db"), ok: true}, slog.Default(), nil).SetupRoutes(api)

		resp := api.Get("/api/backup")

		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}
