package service

import (
	"errors"
	"fmt"
)

var (
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrPaymentRequired  = errors.New("payment required")
	ErrGatewayTimeout   = errors.New("ai gateway timed out")
	ErrMissingAPIKey    = errors.New("AI gateway API key not configured")
	ErrMalformedRequest = errors.New("malformed request")

	ErrNotFound      = errors.New("not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrBadCredential = errors.New("invalid email or password")
	ErrWeakPassword  = errors.New("password must be at least 6 characters")
	ErrFileTooLarge  = errors.New("file exceeds upload limit")
	ErrFileType      = errors.New("unsupported file type")
)

// GatewayError is any gateway failure that is not rate limiting, payment or
// timeout: a non-2xx status, a transport error or an unexpected body shape.
// Status is 0 when no HTTP response was received.
type GatewayError struct {
	Status int
	Err    error
}

func (e *GatewayError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("AI Gateway error: %d", e.Status)
	}
	return fmt.Sprintf("AI Gateway error: %v", e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedRequest, fmt.Sprintf(format, args...))
}
