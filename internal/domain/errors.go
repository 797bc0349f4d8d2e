package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidIdentifier  = errors.New("invalid visitor identifier")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
