package user

import "net/http"

type loginInput struct {
	Body loginRequest
}

type loginRequest struct {
	Username string `json:"username,omitempty" example:"admin" doc:"Имя администратора"`
	Password string `json:"password,omitempty" doc:"Пароль администратора"`
}

type loginOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      Response
}

type logoutOutput struct {
	Status    int
	Location  string      `header:"Location"`
	SetCookie http.Cookie `header:"Set-Cookie"`
}

type Response struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message,omitempty"`
}
