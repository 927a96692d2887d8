package service

import "errors"

var (
	// ErrValidation covers malformed caller input; the caller must fix the
	// request before retrying.
	ErrValidation = errors.New("validation failed")

	// ErrInvitationNotFound means no invitation carries the presented token.
	ErrInvitationNotFound = errors.New("invitation not found")

	// ErrInvitationExpired means the token is past its deadline; terminal.
	ErrInvitationExpired = errors.New("invitation expired")

	// ErrInvitationCompleted means the token was already consumed by a
	// submission; terminal, signals a duplicate.
	ErrInvitationCompleted = errors.New("invitation already completed")

	// ErrQuotaExceeded means the requester hit their daily invitation limit.
	ErrQuotaExceeded = errors.New("daily invitation quota exceeded")

	// ErrStoreUnavailable wraps durable-store failures. The whole operation
	// is safe to retry: the transactional transition commits no partial state.
	ErrStoreUnavailable = errors.New("store unavailable")

	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrRequesterDisabled      = errors.New("requester is disabled")
	ErrRefreshTokenInvalid    = errors.New("refresh token invalid or revoked")
	ErrReferenceNotFound      = errors.New("reference not found")
)
