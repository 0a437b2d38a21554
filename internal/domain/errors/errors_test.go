package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"already exists", ErrAlreadyExists},
		{"not found", ErrNotFound},
		{"invalid credentials", ErrInvalidCredentials},
		{"forbidden", ErrForbidden},
		{"validation", ErrValidationFailed},
		{"product unavailable", ErrProductUnavailable},
		{"persistence", ErrPersistenceFailed},
		{"invoice", ErrInvoiceUnavailable},
		{"order number", ErrOrderNumberExhausted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !stdErrors.Is(tc.err, tc.err) {
				t.Fatalf("expected error to match itself: %v", tc.err)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	var empty *ValidationError
	if !empty.Empty() {
		t.Fatal("nil validation error should be empty")
	}
	if err := NewValidationError().OrNil(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	verr := NewValidationError()
	verr.Add("paymentMethod", "is invalid")
	verr.Add("cartItems", "must not be empty")
	verr.Add("cartItems", "is required")

	err := verr.OrNil()
	if err == nil {
		t.Fatal("expected error")
	}
	if !stdErrors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected validation sentinel, got %v", err)
	}
	wrapped := fmt.Errorf("checkout: %w", err)
	var target *ValidationError
	if !stdErrors.As(wrapped, &target) {
		t.Fatal("expected errors.As to find ValidationError")
	}
	if len(target.Fields["cartItems"]) != 2 {
		t.Fatalf("unexpected fields: %+v", target.Fields)
	}
	want := "validation failed: cartItems must not be empty, is required; paymentMethod is invalid"
	if err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
