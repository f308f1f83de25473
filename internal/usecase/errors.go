package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrProviderUnavailable   = errors.New("stats provider unavailable")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
