package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	if got := KindOf(NotFound("order")); got != KindNotFound {
		t.Errorf("KindOf(NotFound) = %s, want %s", got, KindNotFound)
	}

	// Wrapped errors still expose their kind
	wrapped := fmt.Errorf("handler: %w", PaymentRequired("pay first"))
	if got := KindOf(wrapped); got != KindPaymentRequired {
		t.Errorf("KindOf(wrapped) = %s, want %s", got, KindPaymentRequired)
	}

	// Foreign errors default to storage
	if got := KindOf(errors.New("boom")); got != KindStorage {
		t.Errorf("KindOf(plain error) = %s, want %s", got, KindStorage)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Storage(cause)
	if !errors.Is(err, cause) {
		t.Error("Storage error should unwrap to its cause")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad input"), 400},
		{PaymentRequired("pay first"), 402},
		{NotFound("order"), 404},
		{IllegalTransition("nope"), 409},
		{InsufficientStock("short"), 409},
		{Storage(errors.New("boom")), 500},
		{errors.New("plain"), 500},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
