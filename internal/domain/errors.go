package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidProduct is returned for products with an empty id or a negative price.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrStorageUnavailable wraps serialization and backend write/read failures.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrMalformedState indicates a persisted record that could not be decoded.
	ErrMalformedState = errors.New("malformed persisted state")
)
