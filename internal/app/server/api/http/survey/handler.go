package survey

import (
	"context"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"surveydesk/internal/app/server/api/http/httperr"
	"surveydesk/internal/app/server/api/http/middleware/auth"
	"surveydesk/internal/domain/stats"
	"surveydesk/internal/domain/survey"
)

type Handler struct {
	service          survey.Servicer
	stats            stats.Servicer
	log              *slog.Logger
	middleware       huma.Middlewares
	publicMiddleware huma.Middlewares
}

// NewHandler: mws защищают админские операции, public навешивается на приём анкет.
func NewHandler(service survey.Servicer, statsService stats.Servicer, log *slog.Logger, mws, public huma.Middlewares) *Handler {
	return &Handler{
		service:          service,
		stats:            statsService,
		log:              log,
		middleware:       mws,
		publicMiddleware: public,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.uniqueValuesOp(), h.uniqueValues)
	huma.Register(api, h.statsOp(), h.statsReport)
	huma.Register(api, h.findOp(), h.find)
	huma.Register(api, h.deleteOp(), h.delete)

	// публичный
	huma.Register(api, h.saveOp(), h.save)
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	page, err := parsePage(input.Page)
	if err != nil {
		return nil, httperr.From(ctx, h.log, err)
	}
	limit, err := survey.ParseLimit(input.Limit)
	if err != nil {
		return nil, httperr.From(ctx, h.log, err)
	}
	filters, err := survey.ParseFilters(input.Filters)
	if err != nil {
		return nil, httperr.From(ctx, h.log, err)
	}

	result, err := h.service.Page(ctx, survey.PageRequest{
		Page:    page,
		Limit:   limit,
		Search:  strings.TrimSpace(input.Search),
		Filters: filters,
	})
	if err != nil {
		return nil, httperr.From(ctx, h.log, err)
	}

	return &listOutput{Body: result}, nil
}

func (h *Handler) uniqueValues(ctx context.Context, input *uniqueValuesInput) (*uniqueValuesOutput, error) {
	kind, err := survey.ParseKind(input.Type)
	if err != nil {
		return nil, httperr.From(ctx, h.log, err)
	}
	if input.Field == "" {
		return nil, huma.Error400BadRequest("Field is required")
	}
	filters, err := survey.ParseFilters(input.Filters)
	if err != nil {
		return nil, httperr.From(ctx, h.log, err)
	}

	values, err := h.service.UniqueValues(ctx, kind, input.Field, filters)
	if err != nil {
		return nil, httperr.From(ctx, h.log, err)
	}
	return &uniqueValuesOutput{Body: values}, nil
}

func (h *Handler) statsReport(ctx context.Context, input *statsInput) (*statsOutput, error) {
	kind := survey.KindWorker
	if input.Type != "" {
		var err error
		if kind, err = survey.ParseKind(input.Type); err != nil {
			return nil, httperr.From(ctx, h.log, err)
		}
	}

	report, err := h.stats.Report(ctx, kind, strings.TrimSpace(input.Branch))
	if err != nil {
		return nil, httperr.From(ctx, h.log, err)
	}
	return &statsOutput{Body: report}, nil
}

func (h *Handler) find(ctx context.Context, input *recordInput) (*findOutput, error) {
	kind, err := survey.ParseKind(input.Type)
	if err != nil {
		return nil, httperr.From(ctx, h.log, err)
	}

	rec, err := h.service.Find(ctx, kind, input.ID)
	if err != nil {
		return nil, httperr.From(ctx, h.log, err)
	}
	return &findOutput{Body: rec.Expanded()}, nil
}

func (h *Handler) delete(ctx context.Context, input *recordInput) (*output, error) {
	kind, err := survey.ParseKind(input.Type)
	if err != nil {
		return nil, httperr.From(ctx, h.log, err)
	}

	if err := h.service.Delete(ctx, kind, input.ID); err != nil {
		return nil, httperr.From(ctx, h.log, err)
	}
	admin, _ := auth.GetUser(ctx)
	h.log.Info("survey deleted", "admin", admin, "type", kind, "id", input.ID)
	return &output{
		Body: response{Status: "success", ID: input.ID, Message: "Survey deleted"},
	}, nil
}

func (h *Handler) save(ctx context.Context, input *saveInput) (*output, error) {
	kind, err := survey.ParseKind(input.Body.Type)
	if err != nil {
		return nil, httperr.From(ctx, h.log, err)
	}
	if len(input.Body.Data) == 0 {
		return nil, huma.Error400BadRequest("Survey data is required")
	}

	id, err := h.service.Save(ctx, kind, input.Body.Data)
	if err != nil {
		return nil, httperr.From(ctx, h.log, err)
	}
	return &output{
		Body: response{Status: "success", ID: id, Message: "Survey saved"},
	}, nil
}

func parsePage(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, huma.Error400BadRequest("Invalid page: " + strconv.Quote(s))
	}
	return n, nil
}
