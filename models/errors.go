package models

import "errors"

var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("concurrent write conflict")
	ErrStoreUnavailable = errors.New("store unavailable")
)
