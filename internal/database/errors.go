package database

import "errors"

var (
	// ErrShortCodeExists is returned when an attempt is made to create
	// a link with a short code that is already taken.
	ErrShortCodeExists = errors.New("short code exists")
	// ErrLinkNotFound is returned when no link is stored under the
	// requested short code.
	ErrLinkNotFound = errors.New("link not found")
	// ErrUnavailable is returned when the underlying store could not
	// complete the operation (connection, transaction or driver failure).
	ErrUnavailable = errors.New("store unavailable")
)
