package domain

import "errors"

// ErrValidation is matched by every *ValidationError through errors.Is.
var ErrValidation = errors.New("validation failed")

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("token not provided")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrForbidden          = errors.New("access forbidden")

	ErrUserNotFound      = errors.New("user not found")
	ErrUserExists        = errors.New("email or username already registered")
	ErrEquipmentNotFound = errors.New("equipment not found")
	ErrCodeExists        = errors.New("equipment code already exists")
	ErrDuplicateCheckout = errors.New("duplicate checkout")
)

// ErrInsufficientStock is a validation failure: the request is well formed
// but asks for more units than the item holds.
var ErrInsufficientStock error = &ValidationError{Reason: "insufficient stock"}

// ValidationError carries a client-facing reason for a rejected input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid builds a ValidationError with the given reason.
func Invalid(reason string) error {
	return &ValidationError{Reason: reason}
}
