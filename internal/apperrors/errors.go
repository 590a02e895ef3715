package apperrors

import (
	"errors"
	"fmt"
)

// Code identifies a posting failure category. Every failure the engine can
// produce is deterministic and input-derived; there are no transient codes.
type Code string

const (
	CodeEmptyJournal            Code = "EMPTY_JOURNAL"
	CodeTooManyLines            Code = "TOO_MANY_LINES"
	CodeInvalidLineAmounts      Code = "INVALID_LINE_AMOUNTS"
	CodeUnbalancedJournal       Code = "UNBALANCED_JOURNAL"
	CodeAccountsNotFound        Code = "ACCOUNTS_NOT_FOUND"
	CodeInactiveAccount         Code = "INACTIVE_ACCOUNT"
	CodeCurrencyMismatch        Code = "CURRENCY_MISMATCH"
	CodeControlAccountViolation Code = "CONTROL_ACCOUNT_VIOLATION"
	CodeSoDViolation            Code = "SOD_VIOLATION"
	CodeInvalidCurrencyCode     Code = "INVALID_CURRENCY_CODE"
)

// ErrNotFound indicates that a requested resource could not be found.
// Used by repository adapters; the posting pipeline maps it to ACCOUNTS_NOT_FOUND.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks before
// reaching the posting pipeline (DTO shape errors).
var ErrValidation = errors.New("validation error")

// PostingError is the single error shape produced by the posting engine.
// Details carries structured context (offending ids, totals, currencies)
// suitable for logging or for translation into an external error response.
type PostingError struct {
	Code    Code
	Message string
	Details map[string]any
}

func (e *PostingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports code equality so callers can match with errors.Is against a
// bare &PostingError{Code: ...} target.
func (e *PostingError) Is(target error) bool {
	var pe *PostingError
	if !errors.As(target, &pe) {
		return false
	}
	return e.Code == pe.Code
}

// NewPostingError builds a PostingError. Details may be nil.
func NewPostingError(code Code, message string, details map[string]any) *PostingError {
	return &PostingError{Code: code, Message: message, Details: details}
}

// CodeOf extracts the posting code from err, unwrapping as needed.
// Returns the empty Code when err is not a PostingError.
func CodeOf(err error) Code {
	var pe *PostingError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
