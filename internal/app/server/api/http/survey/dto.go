package survey

import (
	"surveydesk/internal/domain/stats"
	"surveydesk/internal/domain/survey"
)

type listInput struct {
	Page    string `query:"page" example:"1" doc:"Номер страницы, с 1"`
	Limit   string `query:"limit" example:"10" doc:"Размер страницы или all"`
	Search  string `query:"search" doc:"Подстрока для поиска по ответам и дате"`
	Filters string `query:"filters" doc:"JSON-объект поле → значение или список значений"`
}

type listOutput struct {
	Body survey.Page
}

type uniqueValuesInput struct {
	Type    string `query:"type" example:"worker" doc:"worker или manager"`
	Field   string `query:"field" doc:"Имя поля анкеты или receivedAt"`
	Filters string `query:"filters" doc:"JSON-объект поле → значение или список значений"`
}

type uniqueValuesOutput struct {
	Body []string
}

type statsInput struct {
	Type   string `query:"type" example:"worker" doc:"worker или manager, по умолчанию worker"`
	Branch string `query:"branch" doc:"Фильтр по филиалу"`
}

type statsOutput struct {
	Body stats.Report
}

type recordInput struct {
	Type string `path:"type" example:"worker" doc:"worker или manager"`
	ID   string `path:"id" example:"1717315200000-k3j9x0a1b" doc:"ID анкеты"`
}

type findOutput struct {
	Body map[string]any
}

type saveInput struct {
	Body saveRequest
}

type saveRequest struct {
	Type string         `json:"type,omitempty" example:"worker" doc:"worker или manager"`
	Data map[string]any `json:"data,omitempty" doc:"Ответы анкеты"`
}

type output struct {
	Body response
}

type response struct {
	Status  string `json:"status" example:"success"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}
