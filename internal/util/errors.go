package util

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailRegistered  = errors.New("email already registered")
	ErrPermissionDenied = errors.New("permission denied")
	ErrEmptyQuestion    = errors.New("question must not be empty")
	ErrAINotConfigured  = errors.New("AI endpoint not configured")
)
