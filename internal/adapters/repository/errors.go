package repository

import "errors"

// Sentinel kinds for store errors.
var (
	// ErrStorage wraps any failure of the underlying backend. Callers get it
	// back as a recoverable error; nothing in this package panics on I/O.
	ErrStorage       = errors.New("storage failure")
	ErrConflict      = errors.New("concurrent update conflict")
	ErrUnknownDriver = errors.New("unknown store driver")
	ErrClosed        = errors.New("store closed")
	ErrMalformed     = errors.New("malformed persisted data")
)

// abortError carries an UpdateFunc's own error out of a backend transaction
// so it is not mistaken for a storage failure.
type abortError struct{ err error }

func (e abortError) Error() string { return e.err.Error() }
func (e abortError) Unwrap() error { return e.err }

// unwrapAbort returns the caller's error if err came from an UpdateFunc.
func unwrapAbort(err error) (error, bool) {
	var ab abortError
	if errors.As(err, &ab) {
		return ab.err, true
	}
	return nil, false
}
