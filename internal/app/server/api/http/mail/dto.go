package mail

type sendInput struct {
	ContentType string `header:"Content-Type"`
	RawBody     []byte
}

type sendOutput struct {
	Body sendResponse
}

type sendResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message"`
}
