package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeInsufficientStock, status: http.StatusConflict, publicMsg: "insufficient stock", detailsOK: true},
		{code: CodeOrderCreationFailed, status: http.StatusUnprocessableEntity, publicMsg: "order could not be created", detailsOK: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeForbidden, "no entry")
	if got := As(err); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestIsCodeFollowsWrappedChain(t *testing.T) {
	inner := New(CodeNotFound, "order not found")
	outer := fmt.Errorf("loading order: %w", inner)
	if !IsCode(outer, CodeNotFound) {
		t.Fatalf("expected wrapped not found to be detected")
	}
	if IsCode(outer, CodeConflict) {
		t.Fatalf("unexpected conflict match")
	}
	if IsCode(stdErrors.New("plain"), CodeNotFound) {
		t.Fatalf("plain errors carry no code")
	}
}

func TestDumpCapturesPostgresFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "uq_appointments_slot", TableName: "appointments"}
	err := Wrap(CodeConflict, pgErr, "slot taken")

	dump := Dump(err)
	if dump.Code != CodeConflict {
		t.Fatalf("expected conflict code in dump, got %s", dump.Code)
	}
	if dump.PGCode != "23505" || dump.PGConstraint != "uq_appointments_slot" || dump.PGTable != "appointments" {
		t.Fatalf("unexpected pg fields %+v", dump)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %d", len(dump.Chain))
	}
}

func TestDumpPlainErrorDefaultsToRetryableInternal(t *testing.T) {
	dump := Dump(fmt.Errorf("insert pets: %w", stdErrors.New("UNIQUE constraint failed: pets.name")))
	if dump.Code != CodeInternal || !dump.Retryable {
		t.Fatalf("expected retryable internal dump, got %+v", dump)
	}
	if dump.PGMessage != "constraint failed: pets.name" {
		t.Fatalf("expected sqlite constraint message, got %q", dump.PGMessage)
	}
	if dump.PGCode != "" {
		t.Fatalf("sqlite errors carry no pg code")
	}
}

func TestErrorsIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("checkout: %w", Newf(CodeInsufficientStock, "only %d left", 2))
	if !stdErrors.Is(err, New(CodeInsufficientStock, "")) {
		t.Fatalf("expected errors.Is to match on code")
	}
	if stdErrors.Is(err, New(CodeConflict, "")) {
		t.Fatalf("different codes must not match")
	}
	if got := As(err).Message(); got != "only 2 left" {
		t.Fatalf("unexpected formatted message %q", got)
	}
}

func TestErrorStringIncludesCause(t *testing.T) {
	err := Wrap(CodeDependency, stdErrors.New("dial tcp: refused"), "ping redis")
	if got := err.Error(); got != "DEPENDENCY_ERROR: ping redis: dial tcp: refused" {
		t.Fatalf("unexpected error string %q", got)
	}
	if got := Wrap(CodeNotFound, nil, "pet missing").Error(); got != "NOT_FOUND: pet missing" {
		t.Fatalf("nil cause should behave like New, got %q", got)
	}
}
