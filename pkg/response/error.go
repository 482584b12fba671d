package response

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	CodeBadRequest   = 400
	CodeUnauthorized = 401
	CodeNotFound     = 404
)

// Error holds an error code, message and error itself
type Error struct {
	Code     int
	Message  interface{}
	Internal error
}

func NewError(code int, message interface{}) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func (e *Error) SetInternal(err error) *Error {
	e.Internal = err
	return e
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %v", e.Code, e.Message)
}

// Message picks the most specific human-readable text out of an error:
// a backend-provided message, then the error text, then the fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	if respErr, ok := errors.Cause(err).(*Error); ok {
		if s, ok := respErr.Message.(string); ok && s != "" {
			return s
		}
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
