package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	cases := []struct {
		code      Code
		status    int
		retryable bool
	}{
		{CodeValidation, http.StatusBadRequest, false},
		{CodeNotFound, http.StatusNotFound, false},
		{CodeConflict, http.StatusConflict, false},
		{CodeStateConflict, http.StatusUnprocessableEntity, false},
		{CodePaymentPending, http.StatusConflict, true},
		{CodePaymentFailed, http.StatusPaymentRequired, false},
		{CodeIntentMismatch, http.StatusConflict, false},
		{CodeDependency, http.StatusServiceUnavailable, true},
	}
	for _, tc := range cases {
		meta := MetadataFor(tc.code)
		if meta.HTTPStatus != tc.status {
			t.Fatalf("%s: status = %d, want %d", tc.code, meta.HTTPStatus, tc.status)
		}
		if meta.Retryable != tc.retryable {
			t.Fatalf("%s: retryable = %v, want %v", tc.code, meta.Retryable, tc.retryable)
		}
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("boom")
	err := Wrap(CodeDependency, cause, "gateway unavailable")
	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause in chain")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("code = %s, want %s", err.Code(), CodeDependency)
	}
}

func TestAsUnwrapsThroughFmtErrors(t *testing.T) {
	inner := New(CodeStateConflict, "request already decided")
	wrapped := fmt.Errorf("confirm payment: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeStateConflict {
		t.Fatalf("code = %s, want %s", typed.Code(), CodeStateConflict)
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodePaymentPending, "intent still processing"))
	if !HasCode(err, CodePaymentPending) {
		t.Fatal("expected PAYMENT_PENDING in chain")
	}
	if HasCode(err, CodeConflict) {
		t.Fatal("did not expect CONFLICT")
	}
	if HasCode(nil, CodeConflict) {
		t.Fatal("nil error should not match")
	}
}
