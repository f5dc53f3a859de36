package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired session")
	ErrEmptyPassword      = errors.New("password is empty")
	ErrWeakPassword       = errors.New("password is too weak")
)
