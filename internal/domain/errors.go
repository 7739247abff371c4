package domain

import "errors"

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrMalformedResponse = errors.New("malformed response")
	ErrBudgetExceeded    = errors.New("budget exceeded")
)
