package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/pokehub/pokedex-backend/api/middleware"
	"github.com/pokehub/pokedex-backend/internal/auth"
	"github.com/pokehub/pokedex-backend/internal/users"
)

type stubAuthService struct {
	loginResp *auth.LoginResponse
	loginErr  error
	logoutErr error
	revoked   []string
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.loginResp, nil
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return s.logoutErr
}

type stubRegisterService struct {
	err  error
	seen []auth.RegisterRequest
}

func (s *stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) error {
	s.seen = append(s.seen, req)
	return s.err
}

func TestRegisterSuccess(t *testing.T) {
	stub := &stubRegisterService{}
	handler := Register(stub, nil)

	body := `{"name":"Ash","nickname":"ash","email":"ash@example.com","password":"pikachu","confirmPassword":"pikachu"}`
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["msg"] != "User registered successfully!" {
		t.Fatalf("unexpected msg %q", resp["msg"])
	}
	if len(stub.seen) != 1 || stub.seen[0].Email != "ash@example.com" {
		t.Fatalf("service saw %+v", stub.seen)
	}
}

func TestRegisterTrimsNameFields(t *testing.T) {
	stub := &stubRegisterService{}
	handler := Register(stub, nil)

	body := `{"name":"  Ash Ketchum  ","nickname":" ash ","email":"ash@example.com","password":"pikachu","confirmPassword":"pikachu"}`
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	if len(stub.seen) != 1 {
		t.Fatalf("service saw %+v", stub.seen)
	}
	if stub.seen[0].Name != "Ash Ketchum" || stub.seen[0].Nickname != "ash" {
		t.Fatalf("expected sanitized fields, got %+v", stub.seen[0])
	}
}

func TestRegisterRejectsInvalidBody(t *testing.T) {
	handler := Register(&stubRegisterService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"email":"nope"}`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestLoginSuccess(t *testing.T) {
	userID := uuid.New()
	stub := &stubAuthService{loginResp: &auth.LoginResponse{
		Msg:         "Login successful!",
		AccessToken: "token-123",
		User:        &users.UserDTO{ID: userID, Email: "ash@example.com"},
	}}
	handler := Login(stub, nil)

	body := `{"email":"ash@example.com","password":"pikachu"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var resp auth.LoginResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AccessToken != "token-123" {
		t.Fatalf("unexpected token %q", resp.AccessToken)
	}
	if resp.User == nil || resp.User.ID != userID {
		t.Fatalf("unexpected user %+v", resp.User)
	}
}

func TestLoginRejectsMissingPassword(t *testing.T) {
	handler := Login(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"ash@example.com"}`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestLogoutRevokesContextSession(t *testing.T) {
	stub := &stubAuthService{}
	handler := Logout(stub, nil)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req = req.WithContext(middleware.WithJTI(req.Context(), "jti-9"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if len(stub.revoked) != 1 || stub.revoked[0] != "jti-9" {
		t.Fatalf("expected jti-9 revoked, got %v", stub.revoked)
	}
}
