package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrConflict indicates a uniqueness or state conflict (HTTP 409).
var ErrConflict = errors.New("conflict")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrIllegalTransition is returned when a load status change is not allowed
// by the lifecycle table.
var ErrIllegalTransition = errors.New("illegal status transition")

// ErrBusy is returned when an action of the same kind is already in flight.
var ErrBusy = errors.New("action already in progress")

// ErrUnauthorized indicates a missing, expired or already used credential.
var ErrUnauthorized = errors.New("unauthorized")

// ValidationError carries a user-facing message and matches ErrInvalid.
type ValidationError struct {
	Msg string
}

// Validation returns a ValidationError with the given message.
func Validation(msg string) error {
	return &ValidationError{Msg: msg}
}

func (e *ValidationError) Error() string { return e.Msg }

// Is reports whether target is ErrInvalid.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalid }

// Message extracts the user-facing text of a validation error, falling back to err.Error().
func Message(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Msg
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
