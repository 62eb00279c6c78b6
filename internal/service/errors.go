package service

import "errors"

var (
	ErrInvalidRequest = errors.New("service: invalid request")
	ErrThreadNotFound = errors.New("service: thread not found")
	ErrUnknownTheme   = errors.New("service: unknown theme")
)
