package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"hrkey/referencehub/internal/model"
	"hrkey/referencehub/internal/repository"
	jwtpkg "hrkey/referencehub/pkg/jwt"
)

type memRequesterRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*model.Requester
}

func newMemRequesterRepo() *memRequesterRepo {
	return &memRequesterRepo{byID: make(map[uuid.UUID]*model.Requester)}
}

func (r *memRequesterRepo) Create(_ context.Context, requester *model.Requester) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if requester.ID == uuid.Nil {
		requester.ID = uuid.New()
	}
	stored := *requester
	r.byID[requester.ID] = &stored
	return nil
}

func (r *memRequesterRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Requester, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	requester, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *requester
	return &copied, nil
}

func (r *memRequesterRepo) GetByEmail(_ context.Context, email string) (*model.Requester, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, requester := range r.byID {
		if strings.EqualFold(requester.Email, email) {
			copied := *requester
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func newAuthTestService() AuthService {
	jwtManager := jwtpkg.NewManager("test-signing-key", "referencehub-test", time.Hour, 24*time.Hour)
	return NewAuthService(newMemRequesterRepo(), repository.NewMemoryStateStore(), jwtManager)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthTestService()
	ctx := context.Background()

	requester, err := svc.Register(ctx, "ada@example.com", "Ada", "a long password")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if requester.PasswordHash == "a long password" {
		t.Fatal("password stored in plaintext")
	}

	if _, err := svc.Register(ctx, "ada@example.com", "Ada", "another password"); !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("duplicate Register() error = %v, want ErrEmailAlreadyRegistered", err)
	}

	tokens, err := svc.Login(ctx, "ada@example.com", "a long password")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatalf("Login() returned incomplete token set: %+v", tokens)
	}

	if _, err := svc.Login(ctx, "ada@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login(wrong password) error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "a long password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login(unknown email) error = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "not-an-email", "Ada", "a long password"); !errors.Is(err, ErrValidation) {
		t.Fatalf("Register(bad email) error = %v, want ErrValidation", err)
	}
	if _, err := svc.Register(ctx, "ada@example.com", "Ada", "short"); !errors.Is(err, ErrValidation) {
		t.Fatalf("Register(short password) error = %v, want ErrValidation", err)
	}
}

func TestRefreshRotation(t *testing.T) {
	svc := newAuthTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ada@example.com", "Ada", "a long password"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	tokens, err := svc.Login(ctx, "ada@example.com", "a long password")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	rotated, err := svc.Refresh(ctx, tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if rotated.RefreshToken == tokens.RefreshToken {
		t.Error("refresh token was not rotated")
	}

	// The old token is revoked once rotated.
	if _, err := svc.Refresh(ctx, tokens.RefreshToken); !errors.Is(err, ErrRefreshTokenInvalid) {
		t.Fatalf("Refresh(stale token) error = %v, want ErrRefreshTokenInvalid", err)
	}
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc := newAuthTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ada@example.com", "Ada", "a long password"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	tokens, err := svc.Login(ctx, "ada@example.com", "a long password")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := svc.Logout(ctx, tokens.RefreshToken); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := svc.Refresh(ctx, tokens.RefreshToken); !errors.Is(err, ErrRefreshTokenInvalid) {
		t.Fatalf("Refresh(after logout) error = %v, want ErrRefreshTokenInvalid", err)
	}
}
