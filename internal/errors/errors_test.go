package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	plain := Validation("weight must be positive")
	if plain.Error() != "VALIDATION_ERROR: weight must be positive" {
		t.Fatalf("plain error = %q", plain.Error())
	}

	cause := stderrors.New("connection refused")
	wrapped := Collaborator("create listing", cause)
	if wrapped.Error() != "COLLABORATOR_ERROR: create listing: connection refused" {
		t.Fatalf("wrapped error = %q", wrapped.Error())
	}
	if !stderrors.Is(wrapped, cause) {
		t.Fatal("wrapped error does not unwrap to its cause")
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err    *ServiceError
		status int
	}{
		{Configuration("bad config"), http.StatusInternalServerError},
		{Validation("bad input"), http.StatusBadRequest},
		{Unauthorized("who are you"), http.StatusUnauthorized},
		{NotFound("no such listing"), http.StatusNotFound},
		{Collaborator("upload", stderrors.New("boom")), http.StatusBadGateway},
		{Internal("oops", nil), http.StatusInternalServerError},
		{RateLimited("slow down"), http.StatusTooManyRequests},
	}
	for _, c := range cases {
		if c.err.HTTPStatus != c.status {
			t.Errorf("%s: status = %d, want %d", c.err.Code, c.err.HTTPStatus, c.status)
		}
	}
}

func TestGetServiceErrorThroughWrapping(t *testing.T) {
	inner := NotFound("listing not found")
	outer := fmt.Errorf("handling request: %w", inner)

	got := GetServiceError(outer)
	if got == nil || got.Code != CodeNotFound {
		t.Fatalf("GetServiceError = %v", got)
	}
	if !IsNotFound(outer) {
		t.Fatal("IsNotFound should see through fmt.Errorf wrapping")
	}
	if GetServiceError(stderrors.New("plain")) != nil {
		t.Fatal("plain errors must not extract a service error")
	}
	if IsValidation(nil) {
		t.Fatal("nil is not a validation error")
	}
}

func TestWithDetails(t *testing.T) {
	err := Validation("unknown region").WithDetails("region", "XX").WithDetails("field", "origin")
	if err.Details["region"] != "XX" || err.Details["field"] != "origin" {
		t.Fatalf("details = %v", err.Details)
	}
}
