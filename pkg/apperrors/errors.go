package apperrors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidKeywordType = errors.New("invalid keyword type")
	ErrMissingBearerToken = errors.New("X API bearer token is required")
)
