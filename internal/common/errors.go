package common

import "errors"

var (
	// Credential errors. Both login failures map to ErrInvalidCredentials so
	// callers cannot tell which field was wrong.
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Task errors.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidTask      = errors.New("invalid task")

	// Backup errors.
	ErrUnsupportedBackup = errors.New("unsupported backup format")
	ErrBadPassphrase     = errors.New("wrong passphrase or corrupted backup")
)
