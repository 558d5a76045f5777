/*
Package errs defines the relay's business error codes.

The same codes travel in HTTP JSON envelopes, in WebSocket error frames and in admission failures,
where the chat package maps them onto close codes. A CustomError carries the code, the message shown
to clients and the HTTP status; Wrap attaches an internal cause that stays in the logs.
*/
package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"chatrelay/internal/pkg/logx"
)

// CustomError is a failure that can be reported to a client as-is.
type CustomError struct {
	// Code is one of the Err* constants.
	Code int

	Message string

	// Status is used when the error is answered over HTTP.
	Status int

	// cause is the internal failure behind the error. It never reaches clients.
	cause error
}

// Error formats the code, status and message for logs.
func (e CustomError) Error() string {
	return fmt.Sprintf("Error Code %d (HTTP %d): %s", e.Code, e.Status, e.Message)
}

// NewError returns the registered error for code. details fill the message's printf verbs; for
// ErrUnknown a leading error in details is logged instead. Unregistered codes yield ErrUnknown.
func NewError(code int, details ...any) *CustomError {
	templateErr, ok := errorMap[code]

	if !ok {
		logx.Error(
			fmt.Errorf("attempted to create an error with an unknown code in errorMap"),
			"Unknown error code requested",
			"requested_code", code,
		)

		unknownErr := errorMap[ErrUnknown]
		return &CustomError{
			Code:    unknownErr.Code,
			Message: unknownErr.Message,
			Status:  unknownErr.Status,
		}
	}

	customErr := templateErr

	if customErr.Status == 0 {
		customErr.Status = http.StatusOK
	}

	if code == ErrUnknown && len(details) > 0 {
		if originalErr, ok := details[0].(error); ok {
			logx.Error(
				originalErr,
				"Handling ErrUnknown with underlying error",
			)
		}
	} else if len(details) > 0 {
		if strings.Contains(customErr.Message, "%") {
			customErr.Message = fmt.Sprintf(customErr.Message, details...)
		} else {
			logx.Warn(
				"Details provided for error, but message template has no formatting placeholders. Details ignored.",
			)
		}
	}

	return &customErr
}

// Wrap builds the error for code and records cause so errors.Is and errors.As can still reach it.
func Wrap(code int, cause error) *CustomError {
	customErr := NewError(code)
	customErr.cause = cause
	return customErr
}

// Unwrap returns the cause recorded by Wrap, if any.
func (e *CustomError) Unwrap() error {
	return e.cause
}

// CodeOf extracts the business code from err. Errors that are not CustomError
// (or nil) report ErrUnknown and 0 respectively.
func CodeOf(err error) int {
	if err == nil {
		return 0
	}

	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.Code
	}

	return ErrUnknown
}
