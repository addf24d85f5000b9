package model

import "fmt"

// Error codes for shop failures.
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeAlreadyApplied  = "ALREADY_APPLIED"
	ErrCodeAlreadyRedeemed = "ALREADY_REDEEMED"
	ErrCodeInvalidInput    = "INVALID_INPUT"
)

// DomainError is a business rule failure that the shell reports to the user
// before prompting again.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so that a
// detailed error matches its sentinel under errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrValidation      = NewDomainError(ErrCodeValidation, "Catalog record is invalid")
	ErrNotFound        = NewDomainError(ErrCodeNotFound, "Not found")
	ErrAlreadyApplied  = NewDomainError(ErrCodeAlreadyApplied, "Discount is already applied to this cart")
	ErrAlreadyRedeemed = NewDomainError(ErrCodeAlreadyRedeemed, "Discount has already been redeemed by this customer")
	ErrInvalidInput    = NewDomainError(ErrCodeInvalidInput, "Invalid input")
)

// ValidationErrorf builds a VALIDATION_ERROR with a formatted message.
func ValidationErrorf(format string, args ...any) *DomainError {
	return NewDomainError(ErrCodeValidation, fmt.Sprintf(format, args...))
}

// NotFoundErrorf builds a NOT_FOUND error with a formatted message.
func NotFoundErrorf(format string, args ...any) *DomainError {
	return NewDomainError(ErrCodeNotFound, fmt.Sprintf(format, args...))
}

// InvalidInputErrorf builds an INVALID_INPUT error with a formatted message.
func InvalidInputErrorf(format string, args ...any) *DomainError {
	return NewDomainError(ErrCodeInvalidInput, fmt.Sprintf(format, args...))
}
