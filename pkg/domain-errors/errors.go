// Package domainerrors provides coded errors for the compliance engine.
//
// Services attach a Code to every failure they surface so transports can map
// outcomes without string matching. Stores return these directly or wrap the
// underlying infrastructure error.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain failure.
type Code string

const (
	// CodeUnauthorized covers failed capability checks, including writes
	// attempted while the system is paused.
	CodeUnauthorized Code = "unauthorized"
	// CodeInvalidOracle covers operations against an oracle that is missing,
	// inactive, or otherwise not usable for the request.
	CodeInvalidOracle Code = "invalid_oracle"
	// CodeInvalidData covers malformed or missing input.
	CodeInvalidData Code = "invalid_data"
	// CodeNotFound covers absent entities or reports.
	CodeNotFound Code = "not_found"
	// CodeAlreadyExists covers duplicate registrations.
	CodeAlreadyExists Code = "already_exists"
	// CodeCapacityExceeded covers exhausted oracle slots.
	CodeCapacityExceeded Code = "capacity_exceeded"
	// CodeArithmeticRange covers arithmetic that would underflow or overflow
	// an unsigned counter. Operations abort rather than clamp.
	CodeArithmeticRange Code = "arithmetic_range"

	// CodeBadRequest and CodeInternal cover transport-level decode failures
	// and unexpected infrastructure errors.
	CodeBadRequest Code = "bad_request"
	CodeInternal   Code = "internal"
)

// Reserved codes. Declared for the escalation-resolution and balance-gated
// workflows; no operation raises them yet.
const (
	CodeInsufficientBalance Code = "insufficient_balance"
	CodeInvalidTimeframe    Code = "invalid_timeframe"
	CodeEscalationPending   Code = "escalation_pending"
)

// Error is a coded domain error, optionally wrapping a cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error with no cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. A nil err returns
// nil so call sites can wrap unconditionally.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether the nearest coded error in the chain carries the
// given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias for HasCode kept for call-site readability:
// dErrors.Is(err, dErrors.CodeNotFound).
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf extracts the code from an error chain, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a domain code to an HTTP status so transports stay
// consistent with each other.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeUnauthorized:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists, CodeCapacityExceeded, CodeEscalationPending:
		return http.StatusConflict
	case CodeInvalidData, CodeInvalidOracle, CodeBadRequest, CodeInvalidTimeframe:
		return http.StatusBadRequest
	case CodeArithmeticRange:
		return http.StatusUnprocessableEntity
	case CodeInsufficientBalance:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}
