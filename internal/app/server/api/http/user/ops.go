package user

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) loginOp() huma.Operation {
	return huma.Operation{
		OperationID: "user-login",
		Method:      http.MethodPost,
		Path:        "/api/login",
		Summary:     "Авторизация администратора",
		Description: "Ставит cookie сессии при точном совпадении логина и пароля.",
		Tags:        []string{"auth"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) logoutOp() huma.Operation {
	return huma.Operation{
		OperationID:   "user-logout",
		Method:        http.MethodGet,
		Path:          "/api/logout",
		Summary:       "Выход",
		Description:   "Удаляет cookie сессии и перенаправляет на главную страницу.",
		Tags:          []string{"auth"},
		DefaultStatus: http.StatusFound,
		Middlewares:   h.middleware,
	}
}
