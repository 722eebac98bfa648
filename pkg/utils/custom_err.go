package utils

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrUnauthenticated       = errors.New("authentication required")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrEmailAlreadyExists    = errors.New("email already registered")
	ErrDreamNotFound         = errors.New("dream not found")
	ErrQuotaExceeded         = errors.New("quota exceeded")
	ErrProviderFailure       = errors.New("content provider failed")
	ErrProviderNotConfigured = errors.New("content provider not configured")
	ErrRateLimited           = errors.New("too many requests")
	ErrReservationClosed     = errors.New("reservation already settled")
	ErrDatabaseError         = errors.New("database error")
)

// InvalidInput wraps ErrInvalidInput with a field-level reason.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// QuotaExceededError carries the counters that caused the refusal.
type QuotaExceededError struct {
	Kind  string
	Used  int
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%s quota exceeded: used %d of %d", e.Kind, e.Used, e.Limit)
}

func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}
