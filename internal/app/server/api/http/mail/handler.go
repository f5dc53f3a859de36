package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"mime"
	"mime/multipart"
	"net/url"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"surveydesk/internal/app/server/api/http/httperr"
	mailDomain "surveydesk/internal/domain/mail"
)

const maxFormMemory = 1 << 20

type Handler struct {
	service    mailDomain.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service mailDomain.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.sendOp(), h.send)
}

func (h *Handler) send(ctx context.Context, input *sendInput) (*sendOutput, error) {
	fields, err := parseForm(input.ContentType, input.RawBody)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid form body", err)
	}
	if len(fields) == 0 {
		return nil, httperr.From(ctx, h.log, mailDomain.ErrEmptyForm)
	}

	if err := h.service.Send(ctx, fields); err != nil {
		return nil, httperr.From(ctx, h.log, err)
	}
	return &sendOutput{
		Body: sendResponse{Status: "success", Message: "Email sent successfully"},
	}, nil
}

// parseForm decodes the body by content type; JSON is the default.
func parseForm(contentType string, body []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = "application/json"
	}

	switch {
	case mediaType == "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, err
		}
		return fromValues(values), nil
	case mediaType == "multipart/form-data":
		form, err := multipart.NewReader(bytes.NewReader(body), params["boundary"]).ReadForm(maxFormMemory)
		if err != nil {
			return nil, err
		}
		defer form.RemoveAll()
		return fromValues(form.Value), nil
	default:
		fields := map[string]any{}
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&fields); err != nil {
			return nil, err
		}
		return fields, nil
	}
}

func fromValues(values map[string][]string) map[string]any {
	fields := make(map[string]any, len(values))
	for k, v := range values {
		switch len(v) {
		case 0:
		case 1:
			fields[k] = v[0]
		default:
			list := make([]any, len(v))
			for i, s := range v {
				list[i] = s
			}
			fields[k] = list
		}
	}
	return fields
}
