package locks

import "surveydesk/internal/domain/settings"

type statusOutput struct {
	Body settings.LockStatus
}

type setInput struct {
	Body setRequest
}

type setRequest struct {
	Type   string `json:"type" example:"worker" doc:"worker или manager"`
	Locked bool   `json:"locked" doc:"true закрывает приём анкет"`
}

type setOutput struct {
	Body setResponse
}

type setResponse struct {
	Status string              `json:"status" example:"success"`
	Locks  settings.LockStatus `json:"locks"`
}
