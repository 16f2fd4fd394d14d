// Package failure holds the error kinds shared by the console packages.
package failure

import "github.com/pkg/errors"

// PreconditionError is a local check that failed before any request was sent.
// Message is shown to the operator as-is.
type PreconditionError struct {
	Code    string
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

func Precondition(code, message string) error {
	return &PreconditionError{Code: code, Message: message}
}

// AsPrecondition unwraps err looking for a PreconditionError.
func AsPrecondition(err error) (*PreconditionError, bool) {
	var pre *PreconditionError
	if errors.As(err, &pre) {
		return pre, true
	}
	return nil, false
}
