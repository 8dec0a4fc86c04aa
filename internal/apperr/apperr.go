// Package apperr defines the error kinds the service reports to callers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel kinds. Wrap them with Errorf so call sites keep context while
// handlers can still classify with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInternal        = errors.New("internal error")
)

// Errorf wraps kind with a formatted message.
func Errorf(kind error, format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, kind)...)
}

// HTTPStatus maps an error to the response status. Unclassified errors are
// treated as internal.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsInternal reports whether err should be logged server-side rather than
// shown to the caller verbatim.
func IsInternal(err error) bool {
	return HTTPStatus(err) == http.StatusInternalServerError
}
