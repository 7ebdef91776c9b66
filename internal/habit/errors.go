package habit

import "errors"

var (
	ErrNotFound      = errors.New("habit not found")
	ErrAlreadyExists = errors.New("habit already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidState  = errors.New("invalid habit state")
	ErrMalformedDate = errors.New("malformed date")
)
