package locks

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"surveydesk/internal/app/server/api/http/httperr"
	"surveydesk/internal/app/server/api/http/middleware/auth"
	"surveydesk/internal/domain/settings"
	"surveydesk/internal/domain/survey"
)

type Handler struct {
	service          settings.Servicer
	log              *slog.Logger
	middleware       huma.Middlewares
	publicMiddleware huma.Middlewares
}

func NewHandler(service settings.Servicer, log *slog.Logger, mws, public huma.Middlewares) *Handler {
	return &Handler{
		service:          service,
		log:              log,
		middleware:       mws,
		publicMiddleware: public,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.getStatusOp(), h.getStatus)
	huma.Register(api, h.setLockOp(), h.setLock)
}

func (h *Handler) getStatus(ctx context.Context, _ *struct{}) (*statusOutput, error) {
	status, err := h.service.LockStatus(ctx)
	if err != nil {
		return nil, httperr.From(ctx, h.log, err)
	}
	return &statusOutput{Body: status}, nil
}

func (h *Handler) setLock(ctx context.Context, input *setInput) (*setOutput, error) {
	kind, err := survey.ParseKind(input.Body.Type)
	if err != nil {
		return nil, httperr.From(ctx, h.log, err)
	}

	if err := h.service.SetLock(ctx, kind, input.Body.Locked); err != nil {
		return nil, httperr.From(ctx, h.log, err)
	}
	admin, _ := auth.GetUser(ctx)
	h.log.Info("lock changed", "admin", admin, "type", kind, "locked", input.Body.Locked)

	status, err := h.service.LockStatus(ctx)
	if err != nil {
		return nil, httperr.From(ctx, h.log, err)
	}
	return &setOutput{Body: setResponse{Status: "success", Locks: status}}, nil
}
