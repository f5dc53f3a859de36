// Package backup streams the embedded database file to an administrator.
package backup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"surveydesk/internal/app/server/api/http/httperr"
	"surveydesk/internal/app/server/api/http/middleware/auth"
)

// Source reports the on-disk database file, if there is one.
type Source interface {
	BackupPath() (string, bool)
}

type Handler struct {
	source     Source
	log        *slog.Logger
	middleware huma.Middlewares
	now        func() time.Time
}

func NewHandler(source Source, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		source:     source,
		log:        log.With("component", "backup_handler"),
		middleware: middleware,
		now:        time.Now,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.downloadOp(), h.download)
}

func (h *Handler) download(ctx context.Context, _ *struct{}) (*huma.StreamResponse, error) {
	path, ok := h.source.BackupPath()
	if !ok {
		return nil, huma.Error400BadRequest("Backup is only available for SQLite storage")
	}

	// Открываем до отправки заголовков, чтобы ещё можно было ответить ошибкой.
	f, err := os.Open(path)
	if err != nil {
		return nil, httperr.From(ctx, h.log, fmt.Errorf("open backup: %w", err))
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, httperr.From(ctx, h.log, fmt.Errorf("stat backup: %w", err))
	}

	admin, _ := auth.GetUser(ctx)
	filename := fmt.Sprintf("surveys-backup-%s.db", h.now().UTC().Format("2006-01-02"))

	return &huma.StreamResponse{
		Body: func(ctx huma.Context) {
			defer f.Close()

			ctx.SetHeader("Content-Type", "application/octet-stream")
			ctx.SetHeader("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
			ctx.SetHeader("Content-Length", strconv.FormatInt(info.Size(), 10))
			ctx.SetStatus(http.StatusOK)

			n, err := io.Copy(ctx.BodyWriter(), f)
			if err != nil {
				// заголовки уже ушли, остаётся только лог
				h.log.Error("backup stream interrupted", "written", n, "error", err)
				return
			}
			h.log.Info("backup downloaded", "admin", admin, "bytes", n)
		},
	}, nil
}
