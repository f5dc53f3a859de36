package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"surveydesk/internal/app/server/api/http/httperr"
	"surveydesk/internal/domain/auth"
)

// CookieName holds the signed session token.
const CookieName = "survey_auth"

type Auth struct {
	auth auth.Servicer
	log  *slog.Logger
}

func New(service auth.Servicer, log *slog.Logger) *Auth {
	return &Auth{
		auth: service,
		log:  log.With("component", "auth_middleware"),
	}
}

type contextKey string

const UserKey contextKey = "user"

// Middleware возвращает middleware для Huma с сигнатурой func(ctx Context, next func(Context))
func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		cookie, err := huma.ReadCookie(ctx, CookieName)
		if err != nil {
			a.unauthorized(ctx)
			return
		}

		// Валидируем токен
		user, err := a.auth.Validate(ctx.Context(), cookie.Value)
		if err != nil {
			a.log.Debug("session rejected", "path", ctx.URL().Path, "error", err)
			a.unauthorized(ctx)
			return
		}

		next(huma.WithContext(ctx, WithUser(ctx.Context(), user)))
	}
}

func (a *Auth) unauthorized(ctx huma.Context) {
	ctx.SetHeader("Content-Type", "application/json")
	ctx.SetStatus(http.StatusUnauthorized)

	body := httperr.New(http.StatusUnauthorized, "Unauthorized")
	if err := json.NewEncoder(ctx.BodyWriter()).Encode(body); err != nil {
		a.log.Error("json encode", "error", err)
	}
}

func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

func GetUser(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(UserKey).(string)
	return user, ok
}
