package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestDomainError_WithCauseKeepsIdentity(t *testing.T) {
	cause := errors.New("connection refused")
	err := ErrStoreUnavailable.WithCause(cause)

	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatal("expected wrapped error to match ErrStoreUnavailable")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped error to expose its cause")
	}
	if errors.Is(err, ErrUserNotFound) {
		t.Fatal("did not expect match with a different code")
	}
}

func TestDomainError_MessageHidesCause(t *testing.T) {
	err := ErrStoreUnavailable.WithCause(errors.New("dial tcp 10.0.0.1:5432: i/o timeout"))

	if err.Message() != "service temporarily unavailable" {
		t.Errorf("unexpected client message %q", err.Message())
	}
	if err.HTTPStatus() != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", err.HTTPStatus())
	}
}

func TestAsDomainError_ThroughFmtWrap(t *testing.T) {
	wrapped := fmt.Errorf("add favorite: %w", ErrUserNotFound)

	de, ok := AsDomainError(wrapped)
	if !ok {
		t.Fatal("expected domain error")
	}
	if de.Code() != "USER_NOT_FOUND" {
		t.Errorf("expected USER_NOT_FOUND, got %s", de.Code())
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"store unavailable", ErrStoreUnavailable, true},
		{"circuit open", ErrCircuitOpen, true},
		{"invalid credentials", ErrInvalidCredentials, false},
		{"forbidden", ErrForbidden, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConflictMapsToBadRequest(t *testing.T) {
	if ErrConflict.HTTPStatus() != http.StatusBadRequest {
		t.Errorf("expected 400 for duplicate username, got %d", ErrConflict.HTTPStatus())
	}
}
