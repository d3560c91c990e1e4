package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates that the request carries no valid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates that the acting user's role does not allow the operation.
var ErrForbidden = errors.New("insufficient permission")

// ErrAccessDenied indicates that the acting user's role is acceptable but the
// resource belongs to someone else (e.g. deciding another approver's approval).
var ErrAccessDenied = errors.New("access denied")

// ErrInsufficientFunds indicates that a requested amount exceeds the funds
// still available under the parent budget. Use NewInsufficientFundsError so
// callers can surface the numeric shortfall.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrAlreadyDecided indicates that an approval has already reached a terminal state.
var ErrAlreadyDecided = errors.New("approval already decided")

// ErrInvalidState indicates that the subject is not in a state that permits the operation.
var ErrInvalidState = errors.New("invalid state for operation")

// ErrConflict indicates the operation conflicts with existing state
// (e.g. deleting a division that still owns records).
var ErrConflict = errors.New("operation conflicts with existing state")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrRefreshTokenExpired indicates the stored refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// NewInsufficientFundsError builds an ErrInsufficientFunds that reports the
// amount still available, so callers can show the shortfall to the end user.
func NewInsufficientFundsError(requested, available decimal.Decimal) error {
	return fmt.Errorf("%w: requested %s but only %s available", ErrInsufficientFunds, requested.String(), available.String())
}

// AppError wraps a lower-level error with an HTTP-ish status code and a message.
// Repositories use it to report infrastructure failures without leaking driver errors.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
