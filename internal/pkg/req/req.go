/*
Package req binds HTTP request bodies for the API handlers.

JSON bodies are decoded strictly into input structs; multipart bodies (media uploads) are parsed
under a size limit derived from the configured upload maximum. Failures come back as
errs.CustomError values ready for resp.RespondError.
*/
package req

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"chatrelay/internal/pkg/errs"
)

const (
	// MaxFormMemory defines the maximum amount of memory (32 MB) ParseMultipartForm
	// will use to store non-file fields. File fields exceeding this limit are stored in temporary files.
	MaxFormMemory int64 = 32 << 20 // 32 MB

	// MaxJSONBodyBytes bounds API request bodies; every JSON endpoint takes a handful of short fields.
	MaxJSONBodyBytes int64 = 64 << 10

	// multipartOverhead is allowed on top of the file limit for boundaries and non-file fields.
	multipartOverhead int64 = 1 << 20
)

// BindJSON decodes a single JSON object from the request body into dst.
// Unknown fields, trailing content and bodies over MaxJSONBodyBytes are rejected.
func BindJSON(r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, MaxJSONBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}

// SetupMultipart sets up and parses Multipart Form or URL-encoded form data from the HTTP request.
// The whole body, files included, is limited to maxFileSize plus a small allowance for form overhead.
// This limit is enforced via http.MaxBytesReader.
func SetupMultipart(w http.ResponseWriter, r *http.Request, maxFileSize int64) *errs.CustomError {
	r.Body = http.MaxBytesReader(w, r.Body, maxFileSize+multipartOverhead)

	err := r.ParseMultipartForm(MaxFormMemory)

	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) || strings.Contains(err.Error(), "request body too large") {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}

		return errs.NewError(errs.ErrFormParseFailed)
	}

	return nil
}
