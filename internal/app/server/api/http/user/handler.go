package user

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"surveydesk/internal/app/server/api/http/httperr"
	"surveydesk/internal/app/server/api/http/middleware/auth"
	authDomain "surveydesk/internal/domain/auth"
)

// LogoutRedirect is where the browser lands after logout.
const LogoutRedirect = "/"

type Handler struct {
	service      authDomain.Servicer
	secureCookie bool
	log          *slog.Logger
	middleware   huma.Middlewares
}

func NewHandler(service authDomain.Servicer, secureCookie bool, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:      service,
		secureCookie: secureCookie,
		log:          log,
		middleware:   middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.loginOp(), h.login)
	huma.Register(api, h.logoutOp(), h.logout)
}

func (h *Handler) login(ctx context.Context, input *loginInput) (*loginOutput, error) {
	username := strings.TrimSpace(input.Body.Username)
	if username == "" || input.Body.Password == "" {
		return nil, huma.Error400BadRequest("Username and password are required")
	}

	token, expiresAt, err := h.service.Login(ctx, username, input.Body.Password)
	if err != nil {
		h.log.Warn("login failed", "username", username)
		return nil, httperr.From(ctx, h.log, err)
	}

	h.log.Info("admin logged in", "username", username)
	return &loginOutput{
		SetCookie: h.cookie(token, expiresAt, int(h.service.TTL().Seconds())),
		Body:      Response{Status: "success", Message: "Logged in"},
	}, nil
}

func (h *Handler) logout(_ context.Context, _ *struct{}) (*logoutOutput, error) {
	return &logoutOutput{
		Status:    http.StatusFound,
		Location:  LogoutRedirect,
		SetCookie: h.cookie("", time.Unix(0, 0), -1),
	}, nil
}

func (h *Handler) cookie(value string, expires time.Time, maxAge int) http.Cookie {
	return http.Cookie{
		Name:     auth.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
