package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"hrkey/referencehub/internal/model"
	"hrkey/referencehub/internal/repository"
	"hrkey/referencehub/pkg/crypto"
	jwtpkg "hrkey/referencehub/pkg/jwt"
)

// TokenSet represents the token pair returned after authentication.
type TokenSet struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type AuthService interface {
	Register(ctx context.Context, email, name, password string) (*model.Requester, error)
	Login(ctx context.Context, email, password string) (*TokenSet, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenSet, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	requesterRepo repository.RequesterRepository
	stateStore    repository.StateStore
	jwtManager    *jwtpkg.Manager
}

func NewAuthService(
	requesterRepo repository.RequesterRepository,
	stateStore repository.StateStore,
	jwtManager *jwtpkg.Manager,
) AuthService {
	return &authService{
		requesterRepo: requesterRepo,
		stateStore:    stateStore,
		jwtManager:    jwtManager,
	}
}

func (s *authService) Register(ctx context.Context, email, name, password string) (*model.Requester, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	if _, err := s.requesterRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailAlreadyRegistered
	} else if err != repository.ErrNotFound {
		return nil, fmt.Errorf("%w: check email: %v", ErrStoreUnavailable, err)
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	requester := &model.Requester{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		Status:       model.RequesterStatusActive,
	}
	if err := s.requesterRepo.Create(ctx, requester); err != nil {
		return nil, fmt.Errorf("%w: create requester: %v", ErrStoreUnavailable, err)
	}
	return requester, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*TokenSet, error) {
	requester, err := s.requesterRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: load requester: %v", ErrStoreUnavailable, err)
	}
	if !crypto.CheckPassword(password, requester.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if requester.Status != model.RequesterStatusActive {
		return nil, ErrRequesterDisabled
	}
	return s.issueTokens(ctx, requester)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenSet, error) {
	claims, err := s.validateRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	requesterID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrRefreshTokenInvalid
	}
	requester, err := s.requesterRepo.GetByID(ctx, requesterID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrRefreshTokenInvalid
		}
		return nil, fmt.Errorf("%w: load requester: %v", ErrStoreUnavailable, err)
	}
	if requester.Status != model.RequesterStatusActive {
		return nil, ErrRequesterDisabled
	}

	// Rotate: revoke the presented token before issuing the new pair.
	_ = s.stateStore.Delete(ctx, refreshKey(claims.ID))
	return s.issueTokens(ctx, requester)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.validateRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	return s.stateStore.Delete(ctx, refreshKey(claims.ID))
}

func (s *authService) issueTokens(ctx context.Context, requester *model.Requester) (*TokenSet, error) {
	access, err := s.jwtManager.GenerateAccessToken(requester.ID)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, claims, err := s.jwtManager.GenerateRefreshToken(requester.ID)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	if err := s.stateStore.Set(ctx, refreshKey(claims.ID), []byte(requester.ID.String()), s.jwtManager.RefreshTokenTTL()); err != nil {
		return nil, fmt.Errorf("%w: store refresh token: %v", ErrStoreUnavailable, err)
	}
	return &TokenSet{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwtManager.AccessTokenTTL().Seconds()),
	}, nil
}

func (s *authService) validateRefresh(ctx context.Context, refreshToken string) (*jwtpkg.Claims, error) {
	claims, err := s.jwtManager.Validate(refreshToken)
	if err != nil || claims.TokenType != jwtpkg.TokenTypeRefresh {
		return nil, ErrRefreshTokenInvalid
	}
	stored, err := s.stateStore.Get(ctx, refreshKey(claims.ID))
	if err != nil {
		return nil, fmt.Errorf("%w: check refresh token: %v", ErrStoreUnavailable, err)
	}
	if stored == nil {
		return nil, ErrRefreshTokenInvalid
	}
	return claims, nil
}

func refreshKey(jti string) string {
	return "auth:refresh:" + jti
}
