package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataFor(t *testing.T) {
	tests := []struct {
		code           Code
		wantStatus     int
		wantRetryable  bool
		wantDetailsOK  bool
	}{
		{CodeValidation, http.StatusBadRequest, false, true},
		{CodeUnauthorized, http.StatusUnauthorized, false, false},
		{CodeForbidden, http.StatusForbidden, false, false},
		{CodeNotFound, http.StatusNotFound, false, false},
		{CodeConflict, http.StatusConflict, false, true},
		{CodeStateConflict, http.StatusUnprocessableEntity, false, true},
		{CodeRateLimit, http.StatusTooManyRequests, false, false},
		{CodeInternal, http.StatusInternalServerError, true, false},
		{CodeDependency, http.StatusServiceUnavailable, true, true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.wantStatus {
			t.Errorf("%s: status = %d, want %d", tt.code, meta.HTTPStatus, tt.wantStatus)
		}
		if meta.Retryable != tt.wantRetryable {
			t.Errorf("%s: retryable = %v, want %v", tt.code, meta.Retryable, tt.wantRetryable)
		}
		if meta.DetailsAllowed != tt.wantDetailsOK {
			t.Errorf("%s: details allowed = %v, want %v", tt.code, meta.DetailsAllowed, tt.wantDetailsOK)
		}
	}
}

func TestMetadataForUnknownCode(t *testing.T) {
	meta := MetadataFor(Code("NO_SUCH_CODE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown code status = %d, want 500", meta.HTTPStatus)
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	root := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, root, "redis ping failed")

	if err.Code() != CodeDependency {
		t.Fatalf("code = %s, want %s", err.Code(), CodeDependency)
	}
	if !stdErrors.Is(err, root) {
		t.Fatal("wrapped error should match root via errors.Is")
	}
}

func TestAs(t *testing.T) {
	inner := New(CodeNotFound, "product not found")
	outer := fmt.Errorf("loading cart: %w", inner)

	got := As(outer)
	if got == nil {
		t.Fatal("As returned nil for wrapped typed error")
	}
	if got.Code() != CodeNotFound {
		t.Fatalf("code = %s, want %s", got.Code(), CodeNotFound)
	}

	if As(stdErrors.New("plain")) != nil {
		t.Fatal("As should return nil for untyped errors")
	}
	if As(nil) != nil {
		t.Fatal("As(nil) should return nil")
	}
}

func TestWithDetails(t *testing.T) {
	details := map[string]any{"field": "quantity"}
	err := New(CodeValidation, "bad input").WithDetails(details)
	if err.Details() == nil {
		t.Fatal("details lost")
	}
}

func TestDumpPlainChain(t *testing.T) {
	err := Wrap(CodeInternal, stdErrors.New("disk full"), "write failed")
	d := Dump(err)

	if d.Code != CodeInternal {
		t.Fatalf("dump code = %s, want %s", d.Code, CodeInternal)
	}
	if len(d.Chain) < 2 {
		t.Fatalf("chain length = %d, want >= 2", len(d.Chain))
	}
	if d.PGCode != "" {
		t.Fatalf("pg code should be empty for non-driver errors, got %q", d.PGCode)
	}
}
