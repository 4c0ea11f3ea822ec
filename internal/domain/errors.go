package domain

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrLoad      = errors.New("load failed")
	ErrOperation = errors.New("operation failed")
	ErrInvalid   = errors.New("invalid input")
)
