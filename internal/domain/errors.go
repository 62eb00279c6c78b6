package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrHandleTaken        = errors.New("handle already registered")
	ErrAlreadyRequested   = errors.New("friend request already exists")
	ErrRequestNotFound    = errors.New("friend request not found")
	ErrAlreadyFriends     = errors.New("already friends")
	ErrForbidden          = errors.New("forbidden")
	ErrThresholdNotMet    = errors.New("not enough messages exchanged")
)
