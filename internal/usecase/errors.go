package usecase

import (
	"errors"
	"fmt"

	"nyai-server/internal/extract"
)

type ErrorCode string

const (
	ErrorInvalidInput          ErrorCode = "INVALID_INPUT"
	ErrorDecode                ErrorCode = "DECODE_ERROR"
	ErrorPayloadTooLarge       ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrorEmptyDocument         ErrorCode = "EMPTY_DOCUMENT"
	ErrorCapabilityUnavailable ErrorCode = "CAPABILITY_UNAVAILABLE"
	ErrorNotFound              ErrorCode = "NOT_FOUND"
	ErrorModelUnconfigured     ErrorCode = "MODEL_UNCONFIGURED"
	ErrorUpstream              ErrorCode = "UPSTREAM_ERROR"
	ErrorInternal              ErrorCode = "INTERNAL_ERROR"
)

// Error is the typed failure surfaced to the HTTP layer. Detail is the
// user-facing message; Err carries internal context for logs only.
type Error struct {
	Code   ErrorCode
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("usecase: %s (%s)", e.Code, e.Detail)
	}
	return fmt.Sprintf("usecase: %s (%s): %v", e.Code, e.Detail, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code ErrorCode, detail string, err error) *Error {
	return &Error{Code: code, Detail: detail, Err: err}
}

// extractionError maps the extract package's typed conditions onto usecase
// error codes, preserving the condition text as the user-facing detail.
func extractionError(err error) *Error {
	switch {
	case errors.Is(err, extract.ErrInvalidInput):
		return newError(ErrorInvalidInput, err.Error(), err)
	case errors.Is(err, extract.ErrDecode):
		return newError(ErrorDecode, err.Error(), err)
	case errors.Is(err, extract.ErrPayloadTooLarge):
		return newError(ErrorPayloadTooLarge, err.Error(), err)
	case errors.Is(err, extract.ErrEmptyDocument):
		return newError(ErrorEmptyDocument, "No text content found in document", err)
	case errors.Is(err, extract.ErrCapabilityUnavailable):
		return newError(ErrorCapabilityUnavailable, err.Error(), err)
	default:
		return newError(ErrorDecode, err.Error(), err)
	}
}

// malformedOutput is satisfied by the model client's contract-violation
// error; detecting it through an interface keeps this package decoupled from
// the concrete integration.
type malformedOutput interface {
	MalformedOutput() bool
}

// isMalformedOutput reports whether err is a structured-output contract
// violation rather than an invocation failure.
func isMalformedOutput(err error) bool {
	var mo malformedOutput
	return errors.As(err, &mo)
}
