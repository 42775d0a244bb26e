package kafka

import "errors"

// PermanentError marks a handler failure that redelivery cannot fix.
type PermanentError struct {
	Err error
}

// Error implements error.
func (e PermanentError) Error() string {
	if e.Err == nil {
		return "permanent error"
	}
	return "permanent: " + e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so the consumer skips the message instead of retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return PermanentError{Err: err}
}

// IsPermanent reports whether err was wrapped with Permanent.
func IsPermanent(err error) bool {
	var p PermanentError
	return errors.As(err, &p)
}
