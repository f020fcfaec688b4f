package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NewValidation("phone", "must be 10 digits"), http.StatusBadRequest},
		{NewNotFound("booking", "42"), http.StatusNotFound},
		{NewInvalidTransition("declined", "accepted"), http.StatusConflict},
		{NewAuth("token expired"), http.StatusUnauthorized},
		{NewConflict("booking already reviewed"), http.StatusConflict},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		if got := HTTPStatus(c.err); got != c.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestHTTPStatusUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("transition failed: %w", NewInvalidTransition("pending", "completed"))
	if got := HTTPStatus(wrapped); got != http.StatusConflict {
		t.Fatalf("HTTPStatus(wrapped) = %d, want 409", got)
	}
}

func TestUpstreamErrorUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewUpstream("pnr", cause)
	if !errors.Is(err, cause) {
		t.Fatal("UpstreamError does not unwrap to its cause")
	}
	// Upstream failures are recovered locally, never a client fault
	if got := HTTPStatus(err); got != http.StatusInternalServerError {
		t.Fatalf("HTTPStatus(upstream) = %d, want 500", got)
	}
}

func TestHelpers(t *testing.T) {
	if !IsNotFound(NewNotFound("porter", "NDLS")) {
		t.Fatal("IsNotFound missed a NotFoundError")
	}
	if IsNotFound(NewConflict("dup")) {
		t.Fatal("IsNotFound matched a ConflictError")
	}
	if !IsInvalidTransition(NewInvalidTransition("pending", "completed")) {
		t.Fatal("IsInvalidTransition missed")
	}
	if !IsConflict(NewConflict("dup")) {
		t.Fatal("IsConflict missed")
	}
}
