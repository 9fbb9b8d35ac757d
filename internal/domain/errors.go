package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrFavoriteNotFound indicates no favorite matched the request
	ErrFavoriteNotFound = errors.New("favorite not found")

	// ErrStoreClosed indicates the backing database has been closed
	ErrStoreClosed = errors.New("store is closed")

	// ErrAmbiguousMatch indicates a lookup matched more than one favorite
	ErrAmbiguousMatch = errors.New("query matches more than one favorite")
)
