// Package httperr renders every API error as {status:"error", message, detail}.
package httperr

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"surveydesk/internal/app/server/api/http/middleware/logger"
	"surveydesk/internal/domain/auth"
	"surveydesk/internal/domain/mail"
	"surveydesk/internal/domain/survey"
)

const statusError = "error"

// Error is the JSON error envelope.
type Error struct {
	Code    int    `json:"-"`
	Status  string `json:"status" example:"error"`
	Message string `json:"message" example:"Survey not found"`
	Detail  string `json:"detail,omitempty"`
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

func (e *Error) GetStatus() int {
	return e.Code
}

var exposeDetail atomic.Bool

// Install replaces huma's error constructor. Validation failures become 400;
// error details are echoed only when expose is set.
func Install(expose bool) {
	exposeDetail.Store(expose)
	huma.NewError = New
}

// New implements huma.NewError.
func New(status int, msg string, errs ...error) huma.StatusError {
	if status == http.StatusUnprocessableEntity {
		status = http.StatusBadRequest
	}

	e := &Error{Code: status, Status: statusError, Message: msg}

	details := make([]string, 0, len(errs))
	for _, err := range errs {
		if err == nil {
			continue
		}
		// Ошибки валидации huma клиенту показываем всегда.
		var d huma.ErrorDetailer
		if errors.As(err, &d) || status < http.StatusInternalServerError || exposeDetail.Load() {
			details = append(details, err.Error())
		}
	}
	e.Detail = strings.Join(details, "; ")
	return e
}

// From maps a domain error to an HTTP error; unknown errors are logged with
// the request id and become 500.
func From(ctx context.Context, log *slog.Logger, err error) error {
	var se huma.StatusError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &se):
		return err
	case errors.Is(err, survey.ErrNotFound):
		return huma.Error404NotFound("Survey not found")
	case errors.Is(err, survey.ErrInvalidKind),
		errors.Is(err, survey.ErrInvalidData),
		errors.Is(err, survey.ErrInvalidLimit),
		errors.Is(err, survey.ErrInvalidPage),
		errors.Is(err, survey.ErrInvalidField),
		errors.Is(err, mail.ErrEmptyForm):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		return huma.Error401Unauthorized("Invalid credentials")
	case errors.Is(err, auth.ErrInvalidToken):
		return huma.Error401Unauthorized("Unauthorized")
	case errors.Is(err, mail.ErrNotConfigured):
		return huma.Error500InternalServerError("Email service is not configured")
	}

	if log != nil {
		log.ErrorContext(ctx, "request failed",
			slog.String("request_id", logger.RequestID(ctx)),
			slog.Any("error", err),
		)
	}
	return huma.Error500InternalServerError("Internal server error", err)
}
