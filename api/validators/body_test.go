package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/pokehub/pokedex-backend/pkg/errors"
)

type loginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/login", strings.NewReader(`{"email":"ash@example.com","password":"pikachu"}`))

	var body loginBody
	if err := DecodeJSONBody(req, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.Email != "ash@example.com" {
		t.Fatalf("unexpected email %q", body.Email)
	}
}

func TestDecodeJSONBodyMalformed(t *testing.T) {
	req := httptest.NewRequest("POST", "/login", strings.NewReader(`{"email":`))

	var body loginBody
	err := DecodeJSONBody(req, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyValidation(t *testing.T) {
	req := httptest.NewRequest("POST", "/login", strings.NewReader(`{"email":"not-an-email","password":"abc"}`))

	var body loginBody
	err := DecodeJSONBody(req, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected email detail %q", details["email"])
	}
	if details["password"] != "must be at least 6" {
		t.Fatalf("unexpected password detail %q", details["password"])
	}
}

func TestDecodeJSONBodyAllowsExtraFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/login", strings.NewReader(`{"email":"ash@example.com","password":"pikachu","remember":true}`))

	var body loginBody
	if err := DecodeJSONBody(req, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  Ash  ", 0); got != "Ash" {
		t.Fatalf("got %q", got)
	}
	if got := SanitizeString("  Professor Oak  ", 4); got != "Prof" {
		t.Fatalf("got %q", got)
	}
}
