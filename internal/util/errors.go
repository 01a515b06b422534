// internal/util/errors.go
package util

import (
	"errors"
	"fmt"
)

// Common application-specific errors.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input provided")

	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
	ErrGoalNotFound        = fmt.Errorf("goal %w", ErrNotFound)

	ErrDeadlineNotInFuture = fmt.Errorf("%w: deadline must be in the future", ErrInvalidInput)
	ErrNegativeAmount      = fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	ErrInvalidDirection    = fmt.Errorf("%w: operation must be 1 or -1", ErrInvalidInput)
)

// IsError reports whether any error in err's chain matches target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}

// Invalid builds a validation error carrying a field-specific message.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
