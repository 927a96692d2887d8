package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hrkey/referencehub/internal/config"
	"hrkey/referencehub/internal/model"
	"hrkey/referencehub/internal/repository"
)

// InvitationView is the read-only projection returned to token holders.
// It never carries the token itself, and for a completed invitation it
// exposes nothing a second submission could be fabricated from.
type InvitationView struct {
	Status       model.InvitationStatus `json:"status"`
	RefereeName  string                 `json:"referee_name"`
	RefereeEmail string                 `json:"referee_email"`
	Metadata     model.Metadata         `json:"metadata,omitempty"`
	ExpiresAt    time.Time              `json:"expires_at"`
	CompletedAt  *time.Time             `json:"completed_at,omitempty"`
}

// RefereeData is the identity block the referee confirms on submission.
type RefereeData struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
}

// CreatedInvitation is returned by Create: the persisted invitation plus the
// link the requester can forward if email delivery fails.
type CreatedInvitation struct {
	Invitation *model.Invitation `json:"invitation"`
	Token      string            `json:"token"`
	ShareLink  string            `json:"share_link"`
}

// InvitationService is the sole authority over the invitation state machine:
// only it creates invitations and only it transitions them to completed.
type InvitationService interface {
	Create(ctx context.Context, requesterID uuid.UUID, refereeEmail, refereeName string, metadata model.Metadata) (*CreatedInvitation, error)
	Lookup(ctx context.Context, token string) (*InvitationView, error)
	Submit(ctx context.Context, token string, referee RefereeData, ratings map[string]float64, comments map[string]string) (*model.Reference, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]model.Invitation, error)
}

type invitationService struct {
	invitationRepo repository.InvitationRepository
	stateStore     repository.StateStore
	notifier       Notifier
	logger         *zap.Logger
	cfg            config.InviteConfig

	// now is swapped out by tests that exercise the expiry boundary.
	now func() time.Time
}

func NewInvitationService(
	invitationRepo repository.InvitationRepository,
	stateStore repository.StateStore,
	notifier Notifier,
	logger *zap.Logger,
	cfg config.InviteConfig,
) InvitationService {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * 24 * time.Hour
	}
	return &invitationService{
		invitationRepo: invitationRepo,
		stateStore:     stateStore,
		notifier:       notifier,
		logger:         logger,
		cfg:            cfg,
		now:            time.Now,
	}
}

func (s *invitationService) Create(ctx context.Context, requesterID uuid.UUID, refereeEmail, refereeName string, metadata model.Metadata) (*CreatedInvitation, error) {
	if requesterID == uuid.Nil {
		return nil, fmt.Errorf("%w: requester id is required", ErrValidation)
	}
	refereeEmail = strings.TrimSpace(refereeEmail)
	if _, err := mail.ParseAddress(refereeEmail); err != nil {
		return nil, fmt.Errorf("%w: invalid referee email", ErrValidation)
	}
	refereeName = strings.TrimSpace(refereeName)
	if refereeName == "" {
		return nil, fmt.Errorf("%w: referee name is required", ErrValidation)
	}

	if err := s.checkQuota(ctx, requesterID); err != nil {
		return nil, err
	}

	token, err := IssueToken()
	if err != nil {
		return nil, err
	}

	now := s.now()
	inv := &model.Invitation{
		Token:        token,
		RequesterID:  requesterID,
		RefereeEmail: refereeEmail,
		RefereeName:  refereeName,
		Metadata:     metadata,
		Status:       model.InvitationStatusPending,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.cfg.TTL),
	}
	if err := s.invitationRepo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("%w: create invitation: %v", ErrStoreUnavailable, err)
	}

	shareLink := s.shareLink(token)
	s.notifier.InvitationCreated(inv, shareLink)

	return &CreatedInvitation{Invitation: inv, Token: token, ShareLink: shareLink}, nil
}

func (s *invitationService) Lookup(ctx context.Context, token string) (*InvitationView, error) {
	inv, err := s.getByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	view := &InvitationView{
		Status:       inv.EffectiveStatus(s.now()),
		RefereeName:  inv.RefereeName,
		RefereeEmail: inv.RefereeEmail,
		Metadata:     inv.Metadata,
		ExpiresAt:    inv.ExpiresAt,
	}
	if view.Status == model.InvitationStatusCompleted {
		view.CompletedAt = inv.CompletedAt
	}
	return view, nil
}

// Submit ingests the referee's answers. The pending->completed transition is
// a conditional update at the store, so two concurrent submissions of the
// same token produce exactly one Reference; the loser gets
// ErrInvitationCompleted.
func (s *invitationService) Submit(ctx context.Context, token string, referee RefereeData, ratings map[string]float64, comments map[string]string) (*model.Reference, error) {
	inv, err := s.getByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if inv.Status == model.InvitationStatusCompleted {
		return nil, ErrInvitationCompleted
	}
	now := s.now()
	if now.After(inv.ExpiresAt) {
		return nil, ErrInvitationExpired
	}
	if err := validateRatings(ratings); err != nil {
		return nil, err
	}

	refereeName := strings.TrimSpace(referee.Name)
	if refereeName == "" {
		refereeName = inv.RefereeName
	}

	ref := &model.Reference{
		OwnerID:            inv.RequesterID,
		RefereeName:        refereeName,
		RefereeEmail:       inv.RefereeEmail,
		Relationship:       strings.TrimSpace(referee.Relationship),
		OverallRating:      AggregateRatings(ratings),
		Ratings:            ratings,
		Feedback:           comments,
		SourceInvitationID: inv.ID,
		CreatedAt:          now,
	}

	won, err := s.invitationRepo.CompleteWithReference(ctx, inv.ID, now, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: complete invitation: %v", ErrStoreUnavailable, err)
	}
	if !won {
		return nil, ErrInvitationCompleted
	}

	s.notifier.ReferenceCompleted(inv, ref)

	return ref, nil
}

func (s *invitationService) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]model.Invitation, error) {
	invitations, err := s.invitationRepo.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("%w: list invitations: %v", ErrStoreUnavailable, err)
	}
	return invitations, nil
}

func (s *invitationService) getByToken(ctx context.Context, token string) (*model.Invitation, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvitationNotFound
	}
	inv, err := s.invitationRepo.GetByToken(ctx, token)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("%w: load invitation: %v", ErrStoreUnavailable, err)
	}
	return inv, nil
}

// checkQuota enforces the per-requester daily creation limit via the state
// store counter. Counter failures are logged and creation proceeds: quota is
// bookkeeping, not a lifecycle invariant.
func (s *invitationService) checkQuota(ctx context.Context, requesterID uuid.UUID) error {
	if s.cfg.DailyLimit <= 0 || s.stateStore == nil {
		return nil
	}
	key := fmt.Sprintf("quota:inv:%s:%s", requesterID, s.now().UTC().Format("2006-01-02"))
	n, err := s.stateStore.Increment(ctx, key, 24*time.Hour)
	if err != nil {
		s.logger.Warn("quota counter unavailable, allowing creation",
			zap.String("requester_id", requesterID.String()),
			zap.Error(err),
		)
		return nil
	}
	if n > int64(s.cfg.DailyLimit) {
		return ErrQuotaExceeded
	}
	return nil
}

func (s *invitationService) shareLink(token string) string {
	base := strings.TrimRight(s.cfg.ShareBaseURL, "/")
	return fmt.Sprintf("%s/reference?token=%s", base, token)
}

func validateRatings(ratings map[string]float64) error {
	if len(ratings) == 0 {
		return fmt.Errorf("%w: at least one rating is required", ErrValidation)
	}
	for criterion, value := range ratings {
		if strings.TrimSpace(criterion) == "" {
			return fmt.Errorf("%w: rating criterion name must not be empty", ErrValidation)
		}
		if value < RatingMin || value > RatingMax {
			return fmt.Errorf("%w: rating %q must be between %g and %g", ErrValidation, criterion, RatingMin, RatingMax)
		}
	}
	return nil
}
