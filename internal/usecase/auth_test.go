package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	domainErrors "github.com/polkiloo/autoshop/internal/domain/errors"
	"github.com/polkiloo/autoshop/internal/domain/model"
	pkgAuth "github.com/polkiloo/autoshop/internal/pkg/auth"
	testhelpers "github.com/polkiloo/autoshop/internal/test"
)

func newStrategyStub() testhelpers.StrategyStub {
	return testhelpers.StrategyStub{
		IssueFn: func(userID int64, role string) (string, error) {
			return fmt.Sprintf("token-%d-%s", userID, role), nil
		},
		ParseFn: func(token string) (pkgAuth.Claims, error) {
			var (
				id   int64
				role string
			)
			if _, err := fmt.Sscanf(token, "token-%d-%s", &id, &role); err != nil {
				return pkgAuth.Claims{}, pkgAuth.ErrInvalidToken
			}
			return pkgAuth.Claims{UserID: id, Role: role}, nil
		},
	}
}

func registerRequest(email string) RegisterRequest {
	return RegisterRequest{FullName: "Alice Wanjiru", Email: email, Phone: "+254700000001", Password: "password1"}
}

func TestAuthUseCaseRegisterSuccess(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	user, token, err := uc.Register(ctx, registerRequest("  Alice@Example.com "))
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected user to have ID assigned")
	}
	if user.Role != model.RoleCustomer {
		t.Fatalf("expected customer role, got %q", user.Role)
	}
	if token != "token-1-customer" {
		t.Fatalf("unexpected token %q", token)
	}
	stored, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("expected user in repository: %v", err)
	}
	if stored.PasswordHash != "hash:password1" {
		t.Fatalf("password hash not stored: %v", stored.PasswordHash)
	}
	if stored.Email != "alice@example.com" {
		t.Fatalf("expected normalised email, got %q", stored.Email)
	}
}

func TestAuthUseCaseRegisterDuplicate(t *testing.T) {
	uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	if _, _, err := uc.Register(ctx, registerRequest("bob@example.com")); err != nil {
		t.Fatalf("unexpected error on first register: %v", err)
	}
	if _, _, err := uc.Register(ctx, registerRequest("BOB@example.com")); err != domainErrors.ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAuthUseCaseRegisterValidation(t *testing.T) {
	uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())

	cases := []struct {
		name  string
		req   RegisterRequest
		field string
	}{
		{"missing name", RegisterRequest{Email: "a@example.com", Password: "password1"}, "fullName"},
		{"missing email", RegisterRequest{FullName: "A", Password: "password1"}, "email"},
		{"bad email", RegisterRequest{FullName: "A", Email: "nope", Password: "password1"}, "email"},
		{"short password", RegisterRequest{FullName: "A", Email: "a@example.com", Password: "short"}, "password"},
		{"long password", RegisterRequest{FullName: "A", Email: "a@example.com", Password: testhelpers.RandomASCIIString(73, 80)}, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := uc.Register(context.Background(), tc.req)
			var verr *domainErrors.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Fatalf("expected field %q in %v", tc.field, verr.Fields)
			}
		})
	}
}

func TestAuthUseCaseRegisterFailures(t *testing.T) {
	cases := []struct {
		name     string
		repoErr  error
		hasher   testhelpers.HasherStub
		strategy testhelpers.StrategyStub
	}{
		{name: "hasher", hasher: testhelpers.HasherStub{HashFn: func(string) (string, error) { return "", fmt.Errorf("hash error") }}, strategy: newStrategyStub()},
		{name: "repository", repoErr: fmt.Errorf("db down"), strategy: newStrategyStub()},
		{name: "token", strategy: testhelpers.StrategyStub{IssueFn: func(int64, string) (string, error) { return "", fmt.Errorf("cannot issue") }}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := testhelpers.NewUserRepositoryStub()
			repo.Err = tc.repoErr
			uc := NewAuthUseCase(repo, tc.hasher, tc.strategy)
			if _, _, err := uc.Register(context.Background(), registerRequest("user@example.com")); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestAuthUseCaseAuthenticate(t *testing.T) {
	uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())

	ctx := context.Background()
	if _, _, err := uc.Register(ctx, registerRequest("carol@example.com")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := uc.Authenticate(ctx, "carol@example.com", "bad"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
	if _, _, err := uc.Authenticate(ctx, "absent@example.com", "password1"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
	if _, _, err := uc.Authenticate(ctx, "", "password1"); err != domainErrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials for empty email, got %v", err)
	}

	_, token, err := uc.Authenticate(ctx, " CAROL@example.com ", "password1")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if token != "token-1-customer" {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestAuthUseCaseAuthenticateRepositoryError(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())
	if _, _, err := uc.Register(context.Background(), registerRequest("user@example.com")); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	repo.Err = fmt.Errorf("storage unavailable")
	if _, _, err := uc.Authenticate(context.Background(), "user@example.com", "password1"); err == nil || err.Error() != "storage unavailable" {
		t.Fatalf("expected repository error, got %v", err)
	}
}

func TestAuthUseCaseAdminToken(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	if _, err := repo.Create(context.Background(), model.User{Email: "admin@example.com", PasswordHash: "hash:adminpass", Role: model.RoleAdmin}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())

	_, token, err := uc.Authenticate(context.Background(), "admin@example.com", "adminpass")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	claims, err := uc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != 1 || claims.Role != string(model.RoleAdmin) {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestAuthUseCaseParseToken(t *testing.T) {
	uc := NewAuthUseCase(testhelpers.NewUserRepositoryStub(), testhelpers.HasherStub{}, newStrategyStub())

	if _, err := uc.ParseToken("bad-token"); err != pkgAuth.ErrInvalidToken {
		t.Fatalf("expected invalid token error, got %v", err)
	}
	if _, err := uc.ParseToken(""); err != pkgAuth.ErrInvalidToken {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestAuthUseCaseGetByID(t *testing.T) {
	repo := testhelpers.NewUserRepositoryStub()
	uc := NewAuthUseCase(repo, testhelpers.HasherStub{}, newStrategyStub())
	user, _, err := uc.Register(context.Background(), registerRequest("dave@example.com"))
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	fetched, err := uc.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get by id returned error: %v", err)
	}
	if fetched.Email != user.Email {
		t.Fatalf("expected email %q, got %q", user.Email, fetched.Email)
	}

	repo.Err = fmt.Errorf("read error")
	if _, err := uc.GetByID(context.Background(), 1); err == nil {
		t.Fatal("expected repository error")
	}
}
