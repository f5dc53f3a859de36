package survey

import "errors"

var (
	ErrNotFound     = errors.New("survey not found")
	ErrInvalidKind  = errors.New("invalid survey type")
	ErrInvalidData  = errors.New("invalid survey data")
	ErrInvalidLimit = errors.New("invalid limit")
	ErrInvalidPage  = errors.New("invalid page")
	ErrInvalidField = errors.New("invalid field name")
)
