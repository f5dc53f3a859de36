package locks

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) getStatusOp() huma.Operation {
	return huma.Operation{
		OperationID: "locks-status",
		Method:      http.MethodGet,
		Path:        "/api/survey-locks",
		Summary:     "Состояние блокировки форм",
		Description: "Публичный: формы проверяют, принимаются ли анкеты",
		Tags:        []string{"locks"},
		Middlewares: h.publicMiddleware,
	}
}

func (h *Handler) setLockOp() huma.Operation {
	return huma.Operation{
		OperationID: "locks-set",
		Method:      http.MethodPost,
		Path:        "/api/survey-locks",
		Summary:     "Закрыть или открыть приём анкет",
		Tags:        []string{"locks"},
		Security:    []map[string][]string{{"cookie": {}}},
		Middlewares: h.middleware,
	}
}
