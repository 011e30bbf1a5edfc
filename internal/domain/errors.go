package domain

import "errors"

var (
	// ErrInvalidInput signals a request that fails validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEntryNotFound signals a missing index record.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrResponderError signals a response generation failure.
	ErrResponderError = errors.New("responder error")
)
