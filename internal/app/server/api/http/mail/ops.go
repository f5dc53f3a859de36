package mail

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) sendOp() huma.Operation {
	return huma.Operation{
		OperationID: "mail-send",
		Method:      http.MethodPost,
		Path:        "/send-email",
		Summary:     "Отправить форму на почту",
		Description: "Принимает JSON, application/x-www-form-urlencoded или multipart/form-data.",
		Tags:        []string{"mail"},
		Middlewares: h.middleware,
	}
}
