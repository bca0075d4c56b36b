// Package apierror defines the business error taxonomy and the standardized
// response envelopes for the API. Every business-rule violation carries a
// stable machine-readable Kind plus a human-readable message; infrastructure
// failures are wrapped as KindInternal so handlers can map business errors
// to 4xx and everything else to 5xx without leaking internals.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the stable machine-readable classification of a business error.
type Kind string

const (
	KindNotFound                   Kind = "not_found"
	KindValidation                 Kind = "validation_failed"
	KindInsufficientStock          Kind = "insufficient_stock"
	KindInsufficientVoucherBalance Kind = "insufficient_voucher_balance"
	KindInsufficientCredit         Kind = "insufficient_credit"
	KindVoucherExpired             Kind = "voucher_expired"
	KindVoucherNotActive           Kind = "voucher_not_active"
	KindVoucherBranchMismatch      Kind = "voucher_branch_mismatch"
	KindShiftAlreadyOpen           Kind = "shift_already_open"
	KindNoOpenShift                Kind = "no_open_shift"
	KindNoPriceConfigured          Kind = "no_price_configured"
	KindConcurrencyConflict        Kind = "concurrency_conflict"
	KindUnauthorized               Kind = "unauthorized"
	KindForbidden                  Kind = "forbidden"
	KindRateLimited                Kind = "rate_limited"
	KindInternal                   Kind = "internal"
)

// Error is a typed business error. It satisfies the error interface and is
// designed for errors.As at the handler boundary.
type Error struct {
	Kind   Kind   `json:"kind"`
	Detail string `json:"detail"`
	cause  error
}

func (e *Error) Error() string { return e.Detail }

func (e *Error) Unwrap() error { return e.cause }

// New builds a business error with the given kind and message.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Newf is New with fmt.Sprintf formatting.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Internal wraps an infrastructure failure. The original error is preserved
// for logging but never shown to clients.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Detail: "Error interno del servidor", cause: err}
}

// KindOf extracts the Kind from any error chain; non-apierror errors are
// classified as KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps the error kind to the HTTP status handlers respond with.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConcurrencyConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Kind   Kind   `json:"kind"`
	Detail string `json:"detail"`
}

// Envelope converts any error into the response body. Internal details are
// replaced by a generic message.
func Envelope(err error) *APIError {
	var e *Error
	if errors.As(err, &e) {
		return &APIError{Kind: e.Kind, Detail: e.Detail}
	}
	return &APIError{Kind: KindInternal, Detail: "Error interno del servidor"}
}

// ValidationError wraps multiple field errors from request binding.
type ValidationError struct {
	Kind   Kind              `json:"kind"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Kind: KindValidation, Detail: "Error de validacion", Fields: fields}
}
