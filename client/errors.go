package client

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an outbound request failure. Kind strings are part
// of the tool-error surface and must stay stable.
type ErrorKind string

const (
	// KindClient is a 4xx from the platform: bad request or auth failure.
	// Never retried.
	KindClient ErrorKind = "ClientError"
	// KindServer is a 5xx from the platform. Retryable once.
	KindServer ErrorKind = "ServerError"
	// KindNetwork is a transport-level failure (connection refused, DNS).
	// Retryable once.
	KindNetwork ErrorKind = "NetworkError"
	// KindTimeout is a request that exceeded its deadline. Retryable once.
	KindTimeout ErrorKind = "Timeout"
)

// Error is a classified request failure. The message is derived only from
// the platform response or the transport error; it never carries
// credentials.
type Error struct {
	Kind    ErrorKind
	Status  int // HTTP status, 0 for transport failures
	Message string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Detail()
}

// Detail renders the failure without the kind prefix, for callers that
// report the kind separately.
func (e *Error) Detail() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("HTTP %d", e.Status)
	default:
		return e.Message
	}
}

// KindOf returns the classification of err, or "" when err is not a
// classified client error.
func KindOf(err error) ErrorKind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// Retryable reports whether err is worth one more attempt: server-side
// failures, transport failures, and timeouts. Client errors and
// unclassified errors are not retryable.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindServer, KindNetwork, KindTimeout:
		return true
	}
	return false
}
