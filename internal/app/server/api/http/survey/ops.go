package survey

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

var cookieSecurity = []map[string][]string{{"cookie": {}}}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "surveys-list",
		Method:      http.MethodGet,
		Path:        "/api/surveys",
		Summary:     "Страница анкет обоих типов",
		Description: "Поиск и фильтры применяются к обеим коллекциям, пагинация общая.",
		Tags:        []string{"surveys"},
		Security:    cookieSecurity,
		Middlewares: h.middleware,
	}
}

func (h *Handler) uniqueValuesOp() huma.Operation {
	return huma.Operation{
		OperationID: "surveys-unique-values",
		Method:      http.MethodGet,
		Path:        "/api/surveys/unique-values",
		Summary:     "Уникальные значения поля",
		Tags:        []string{"surveys"},
		Security:    cookieSecurity,
		Middlewares: h.middleware,
	}
}

func (h *Handler) statsOp() huma.Operation {
	return huma.Operation{
		OperationID: "surveys-stats",
		Method:      http.MethodGet,
		Path:        "/api/surveys/stats",
		Summary:     "Данные для графиков",
		Tags:        []string{"surveys"},
		Security:    cookieSecurity,
		Middlewares: h.middleware,
	}
}

func (h *Handler) findOp() huma.Operation {
	return huma.Operation{
		OperationID: "surveys-find",
		Method:      http.MethodGet,
		Path:        "/api/survey/{type}/{id}",
		Summary:     "Получить анкету",
		Tags:        []string{"surveys"},
		Security:    cookieSecurity,
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "surveys-delete",
		Method:      http.MethodDelete,
		Path:        "/api/survey/{type}/{id}",
		Summary:     "Удалить анкету",
		Tags:        []string{"surveys"},
		Security:    cookieSecurity,
		Middlewares: h.middleware,
	}
}

func (h *Handler) saveOp() huma.Operation {
	return huma.Operation{
		OperationID: "surveys-save",
		Method:      http.MethodPost,
		Path:        "/api/save-survey",
		Summary:     "Сохранить анкету",
		Description: "Публичный эндпоинт для форм сотрудников и руководителей.",
		Tags:        []string{"surveys"},
		Middlewares: h.publicMiddleware,
	}
}
