package errors

import (
	stdErrors "errors"
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
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "resource already exists"},
		{code: CodeDuplicate, status: http.StatusBadRequest, publicMsg: "entry already exists", detailsOK: true},
		{code: CodeCapacity, status: http.StatusBadRequest, publicMsg: "collection is full", detailsOK: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded", retryable: true},
		{code: CodeUpstreamNotFound, status: http.StatusNotFound, publicMsg: "upstream resource not found", detailsOK: true},
		{code: CodeUpstreamUnavailable, status: http.StatusServiceUnavailable, publicMsg: "upstream service unavailable", retryable: true, detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
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

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeUpstreamUnavailable, cause, "fetch detail")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatal("wrapped error should unwrap to its cause")
	}
	if wrapped.Error() != "UPSTREAM_UNAVAILABLE: fetch detail" {
		t.Fatalf("unexpected error string %q", wrapped.Error())
	}

	if got := Wrap(CodeNotFound, nil, "missing"); got.Unwrap() != nil {
		t.Fatal("wrap with nil cause should behave like New")
	}
}

func TestAsFindsTypedError(t *testing.T) {
	inner := New(CodeCapacity, "team is full")
	chained := Wrap(CodeInternal, inner, "persist entry")

	if typed := As(chained); typed == nil || typed.Code() != CodeInternal {
		t.Fatalf("expected outermost typed error, got %v", typed)
	}
	if As(stdErrors.New("plain")) != nil {
		t.Fatal("plain errors should not match")
	}
	if As(nil) != nil {
		t.Fatal("nil should not match")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	cause := stdErrors.New("socket closed")
	err := Wrap(CodeUpstreamUnavailable, cause, "fetch type")

	dump := Dump(err)
	if dump.Code != CodeUpstreamUnavailable {
		t.Fatalf("unexpected code %s", dump.Code)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected full unwrap chain, got %v", dump.Chain)
	}
}

func TestDumpExtractsPostgresDiagnostics(t *testing.T) {
	cause := &pgconn.PgError{
		Code:           "23505",
		Message:        "duplicate key value violates unique constraint",
		Detail:         "Key (user_id, pokemon_id)=(...) already exists.",
		ConstraintName: "team_entries_user_pokemon_key",
		TableName:      "team_entries",
	}
	err := Wrap(CodeDuplicate, cause, "add entry")

	dump := Dump(err)
	if dump.PGCode != "23505" {
		t.Fatalf("unexpected pg code %q", dump.PGCode)
	}
	if dump.PGConstraint != "team_entries_user_pokemon_key" {
		t.Fatalf("unexpected constraint %q", dump.PGConstraint)
	}
	if dump.PGTable != "team_entries" {
		t.Fatalf("unexpected table %q", dump.PGTable)
	}
	if dump.PGDetail == "" || dump.PGMessage == "" {
		t.Fatalf("expected detail and message, got %+v", dump)
	}
}
