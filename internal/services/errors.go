package services

import "errors"

// Sentinel errors used by the service layer. Handlers map these onto HTTP
// status codes with errors.Is; anything else is an internal failure.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
