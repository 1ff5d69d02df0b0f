package bigquerystorage

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/status"
)

// Kind classifies every failure this package can produce. The set is closed:
// each kind is raised by exactly one layer, and callers can rely on the kind
// to tell a broken network apart from a server that sent something unusable.
type Kind uint8

const (
	// KindTransport covers connection-level failures (dial, TLS, broken stream).
	KindTransport Kind = iota + 1
	// KindStatus covers RPC-level rejections carrying a gRPC status
	// (permission denied, not found, invalid argument, ...).
	KindStatus
	// KindMetadataEncoding means a request header value could not be encoded.
	KindMetadataEncoding
	// KindAuth means the token provider failed to produce a token.
	KindAuth
	// KindInvalidResponse means the server answered, but with data this
	// client cannot interpret (wrong format tag, malformed framing, missing
	// schema). Always carries a reason string.
	KindInvalidResponse
	// KindIO covers local byte-buffer failures.
	KindIO
	// KindDecode covers failures raised by the Arrow IPC reader when handed
	// a reconstructed buffer.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindMetadataEncoding:
		return "metadata encoding"
	case KindAuth:
		return "auth"
	case KindInvalidResponse:
		return "invalid response"
	case KindIO:
		return "io"
	case KindDecode:
		return "decode"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error is the error type returned by every operation in this package.
// Inspect the Kind to classify the failure; Unwrap exposes the underlying
// cause (for KindStatus that is a *status.Status error, so
// status.FromError keeps working through errors.As).
type Error struct {
	Kind   Kind
	Reason string // human-readable detail, set for KindInvalidResponse
	Err    error  // underlying cause, nil for KindInvalidResponse
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func invalidResponse(reason string) *Error {
	return &Error{Kind: KindInvalidResponse, Reason: reason}
}

// fromRPC classifies an error surfaced by a gRPC call. Server rejections
// carry a gRPC status and become KindStatus; everything else (dial failures,
// connection resets) is KindTransport. Errors already classified by this
// package pass through untouched.
func fromRPC(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return newError(KindTransport, err)
	}
	if _, ok := status.FromError(err); ok {
		return newError(KindStatus, err)
	}
	return newError(KindTransport, err)
}
