package session

import "errors"

var (
	ErrEmailRequired     = errors.New("email is required")
	ErrClientNotFound    = errors.New("no client registered with that email")
	ErrFailedLoadSession = errors.New("failed to load session")
	ErrFailedSaveSession = errors.New("failed to save session")
)
