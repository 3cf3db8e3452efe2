package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/erickogi/cards-restful/internal/core/domain"
)

type stubAuthService struct {
	signUpFn func(ctx context.Context, email, password string, roles []string) (*domain.User, error)
	signInFn func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) SignUp(ctx context.Context, email, password string, roles []string) (*domain.User, error) {
	return s.signUpFn(ctx, email, password, roles)
}

func (s *stubAuthService) SignIn(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.signInFn(ctx, email, password)
}

func TestAuthHandler_SignUp_Success(t *testing.T) {
	stub := &stubAuthService{
		signUpFn: func(_ context.Context, email, password string, roles []string) (*domain.User, error) {
			if email != "a@example.com" || password != "secret1" || len(roles) != 1 || roles[0] != "admin" {
				t.Fatalf("unexpected args: %s %s %v", email, password, roles)
			}
			return &domain.User{ID: "1", Email: email, Roles: []domain.Role{domain.RoleAdmin}}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/auth/signup", `{"email":"a@example.com","password":"secret1","role":["admin"]}`, "")
	if err := handler.SignUp(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Message != "User registered successfully!" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestAuthHandler_SignUp_EmailTaken(t *testing.T) {
	stub := &stubAuthService{
		signUpFn: func(context.Context, string, string, []string) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newContext(http.MethodPost, "/api/auth/signup", `{"email":"a@example.com","password":"secret1"}`, "")
	if err := handler.SignUp(c); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthHandler_SignUp_RejectsInvalidFields(t *testing.T) {
	stub := &stubAuthService{
		signUpFn: func(context.Context, string, string, []string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newContext(http.MethodPost, "/api/auth/signup", `{"email":"not-an-email","password":"abc"}`, "")
	err := handler.SignUp(c)

	var rve *RequestValidationError
	if !errors.As(err, &rve) {
		t.Fatalf("expected RequestValidationError, got %v", err)
	}
	if len(rve.Errors) != 2 {
		t.Fatalf("expected email and password errors, got %v", rve.Errors)
	}
}

func TestAuthHandler_SignUp_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		signUpFn: func(context.Context, string, string, []string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newContext(http.MethodPost, "/api/auth/signup", "not-json", "")
	err := handler.SignUp(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_SignIn_Success(t *testing.T) {
	stub := &stubAuthService{
		signInFn: func(_ context.Context, email, password string) (string, *domain.User, error) {
			if email != "alice@example.com" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", &domain.User{ID: "7", Email: email, Roles: []domain.Role{domain.RoleMember}}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/auth/signin", `{"email":"alice@example.com","password":"secret1"}`, "")
	if err := handler.SignIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp jwtResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "token123" || resp.Type != "Bearer" || resp.ID != "7" {
		t.Fatalf("unexpected token payload: %+v", resp)
	}
	if len(resp.Roles) != 1 || resp.Roles[0] != "ROLE_MEMBER" {
		t.Fatalf("unexpected roles: %v", resp.Roles)
	}
}

func TestAuthHandler_SignIn_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		signInFn: func(context.Context, string, string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newContext(http.MethodPost, "/api/auth/signin", `{"email":"alice@example.com","password":"bad"}`, "")
	if err := handler.SignIn(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_SignIn_MissingFields(t *testing.T) {
	stub := &stubAuthService{
		signInFn: func(context.Context, string, string) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newContext(http.MethodPost, "/api/auth/signin", `{}`, "")
	var rve *RequestValidationError
	if err := handler.SignIn(c); !errors.As(err, &rve) {
		t.Fatalf("expected RequestValidationError, got %v", err)
	}
}
