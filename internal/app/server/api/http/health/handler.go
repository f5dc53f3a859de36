package health

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Handler struct {
	engine     string
	log        *slog.Logger
	middleware huma.Middlewares
	now        func() time.Time
}

func NewHandler(engine string, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		engine:     engine,
		log:        log,
		middleware: middleware,
		now:        time.Now,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.healthCheckOp(), h.healthCheck)
}

func (h *Handler) healthCheck(_ context.Context, _ *Input) (*Output, error) {
	h.log.Debug("health check request received")

	return &Output{
		Body: Response{
			Status:    "OK",
			Engine:    h.engine,
			Timestamp: h.now().UTC(),
		},
	}, nil
}
