package backup

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) downloadOp() huma.Operation {
	return huma.Operation{
		OperationID: "backup-download",
		Method:      http.MethodGet,
		Path:        "/api/backup",
		Summary:     "Скачать файл базы",
		Description: "Доступно только для SQLite; для сетевых СУБД возвращает 400.",
		Tags:        []string{"backup"},
		Security:    []map[string][]string{{"cookie": {}}},
		Middlewares: h.middleware,
		Responses: map[string]*huma.Response{
			"200": {
				Description: "Файл базы данных",
				Content: map[string]*huma.MediaType{
					"application/octet-stream": {},
				},
			},
		},
	}
}
