package impl

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrEmptyPassword  = errors.New("password must not be empty")
)
