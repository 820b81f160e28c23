package webhook

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies why an incoming event was rejected.
type Kind int

const (
	KindMissingSignature Kind = iota + 1
	KindMalformedPayload
	KindMissingField
	KindInvalidSignature
	KindStaleEvent
	KindDuplicateEvent
	KindDuplicateTransaction
	KindStorage
)

var kindCodes = map[Kind]string{
	KindMissingSignature:     "missing_signature",
	KindMalformedPayload:     "malformed_payload",
	KindMissingField:         "missing_field",
	KindInvalidSignature:     "invalid_signature",
	KindStaleEvent:           "stale_event",
	KindDuplicateEvent:       "duplicate_event",
	KindDuplicateTransaction: "duplicate_transaction",
	KindStorage:              "storage_error",
}

// Code is the stable machine-readable name of the kind.
func (k Kind) Code() string {
	if c, ok := kindCodes[k]; ok {
		return c
	}
	return "unknown"
}

func (k Kind) String() string { return k.Code() }

// Status maps the kind to an HTTP status. Only storage failures are 5xx.
func (k Kind) Status() int {
	switch k {
	case KindDuplicateTransaction:
		return http.StatusConflict
	case KindStorage:
		return http.StatusInternalServerError
	case 0:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// IsClientError reports whether retrying the same request can never succeed.
func (k Kind) IsClientError() bool {
	return k.Status() < http.StatusInternalServerError
}

// Error is the only error type returned by the pipeline. Field names the
// offending payload field for MissingField and MalformedPayload. Err carries
// the underlying cause and is never rendered to clients.
type Error struct {
	Kind  Kind
	Field string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Message()
	if e.Err != nil {
		return fmt.Sprintf("webhook: %s: %v", msg, e.Err)
	}
	return "webhook: " + msg
}

func (e *Error) Unwrap() error { return e.Err }

// Message is the human-readable text safe to return to the caller.
func (e *Error) Message() string {
	switch e.Kind {
	case KindMissingSignature:
		return "Missing signature"
	case KindMalformedPayload:
		if e.Field != "" {
			return "Invalid field: " + e.Field
		}
		return "Invalid JSON"
	case KindMissingField:
		return "Missing field: " + e.Field
	case KindInvalidSignature:
		return "Invalid signature"
	case KindStaleEvent:
		return "Timestamp is too old"
	case KindDuplicateEvent:
		return "Duplicate event"
	case KindDuplicateTransaction:
		return "Duplicate transaction"
	default:
		return "Internal error"
	}
}

func newError(kind Kind, field string, cause error) *Error {
	return &Error{Kind: kind, Field: field, Err: cause}
}

// KindOf extracts the Kind of err, or 0 if err is not a *Error.
func KindOf(err error) Kind {
	var werr *Error
	if errors.As(err, &werr) {
		return werr.Kind
	}
	return 0
}
