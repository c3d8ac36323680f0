package apierror

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError(t *testing.T) {
	err := NewValidation("amount_usd", "minimum trade is $1")

	if got := err.Error(); got != "amount_usd: minimum trade is $1" {
		t.Fatalf("unexpected message: %q", got)
	}
	if !IsValidation(err) {
		t.Fatal("expected IsValidation to match")
	}
	if IsValidation(errors.New("other")) {
		t.Fatal("IsValidation matched an unrelated error")
	}

	wrapped := fmt.Errorf("open trade: %w", err)
	if !IsValidation(wrapped) {
		t.Fatal("expected IsValidation to match a wrapped error")
	}
}

func TestValidationErrorWithoutField(t *testing.T) {
	err := &ValidationError{Message: "confirmation required"}
	if got := err.Error(); got != "confirmation required" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestRequestError(t *testing.T) {
	err := &RequestError{StatusCode: 400, Message: "Insufficient balance"}

	if !IsRequest(err) {
		t.Fatal("expected IsRequest to match")
	}
	if IsValidation(err) || IsTransient(err) {
		t.Fatal("RequestError matched the wrong predicate")
	}

	var re *RequestError
	if !errors.As(fmt.Errorf("close: %w", err), &re) {
		t.Fatal("errors.As failed on wrapped RequestError")
	}
	if re.StatusCode != 400 {
		t.Fatalf("unexpected status: %d", re.StatusCode)
	}
}

func TestTransientFetchErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewTransient("list prices", cause)

	if !IsTransient(err) {
		t.Fatal("expected IsTransient to match")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if got := err.Error(); got != "list prices: connection refused" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestSessionExpiredIdentity(t *testing.T) {
	wrapped := fmt.Errorf("profile: %w", ErrSessionExpired)
	if !errors.Is(wrapped, ErrSessionExpired) {
		t.Fatal("expected errors.Is to match ErrSessionExpired through wrapping")
	}
}
