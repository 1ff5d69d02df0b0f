package bigquerystorage

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestFromRPCClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"grpc status", status.Error(codes.InvalidArgument, "bad"), KindStatus},
		{"plain error", errors.New("connection reset"), KindTransport},
		{"context canceled", context.Canceled, KindTransport},
		{"context deadline", context.DeadlineExceeded, KindTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := fromRPC(tt.err)
			if e.Kind != tt.want {
				t.Fatalf("kind = %v, want %v", e.Kind, tt.want)
			}
			if !errors.Is(e, tt.err) {
				t.Fatal("classified error does not unwrap to its cause")
			}
		})
	}
}

func TestFromRPCPassThrough(t *testing.T) {
	orig := invalidResponse("expected arrow schema")
	if got := fromRPC(orig); got != orig {
		t.Fatalf("already-classified error was rewrapped: %v", got)
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"invalid response", invalidResponse("empty schema response"), "invalid response: empty schema response"},
		{"auth", newError(KindAuth, errors.New("no token")), "auth: no token"},
		{"transport", newError(KindTransport, errors.New("dial tcp: refused")), "transport: dial tcp: refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusSurvivesWrapping(t *testing.T) {
	e := fromRPC(status.Error(codes.NotFound, "gone"))
	if status.Code(e.Err) != codes.NotFound {
		t.Fatalf("code = %v, want NotFound", status.Code(e.Err))
	}
	// The wrapped error chain still carries the status for callers who use
	// status.FromError through errors chains.
	st, ok := status.FromError(e.Err)
	if !ok || st.Message() != "gone" {
		t.Fatalf("status lost: %v %v", st, ok)
	}
}
