package service

import "errors"

var (
	// ErrInvalidURL is returned when the target URL is empty, malformed or
	// does not use an accepted scheme.
	ErrInvalidURL = errors.New("invalid url")
	// ErrGenerationExhausted is returned when no free short code was found
	// within the configured number of attempts.
	ErrGenerationExhausted = errors.New("maximum retries exceeded for generating short code")
)
