package service

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hrkey/referencehub/internal/config"
	"hrkey/referencehub/internal/model"
	"hrkey/referencehub/internal/repository"
)

type fakeNotifier struct {
	mu        sync.Mutex
	created   int
	completed int
}

func (n *fakeNotifier) InvitationCreated(_ *model.Invitation, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created++
}

func (n *fakeNotifier) ReferenceCompleted(_ *model.Invitation, _ *model.Reference) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed++
}

type testEnv struct {
	svc      *invitationService
	refs     repository.ReferenceRepository
	notifier *fakeNotifier
}

func newTestEnv(t *testing.T, cfg config.InviteConfig) *testEnv {
	t.Helper()
	refs := repository.NewMemoryReferenceRepository()
	invitations := repository.NewMemoryInvitationRepository(refs)
	notifier := &fakeNotifier{}
	svc := NewInvitationService(
		invitations,
		repository.NewMemoryStateStore(),
		notifier,
		zap.NewNop(),
		cfg,
	).(*invitationService)
	return &testEnv{svc: svc, refs: refs, notifier: notifier}
}

func TestCreateInvitationValidation(t *testing.T) {
	env := newTestEnv(t, config.InviteConfig{})
	ctx := context.Background()
	requesterID := uuid.New()

	tests := []struct {
		name         string
		requesterID  uuid.UUID
		refereeEmail string
		refereeName  string
	}{
		{"empty requester id", uuid.Nil, "referee@example.com", "Jane Doe"},
		{"malformed email", requesterID, "not-an-email", "Jane Doe"},
		{"empty email", requesterID, "", "Jane Doe"},
		{"empty referee name", requesterID, "referee@example.com", "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Create(ctx, tt.requesterID, tt.refereeEmail, tt.refereeName, nil)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Create() error = %v, want ErrValidation", err)
			}
		})
	}

	// Rejected creations must leave no record behind.
	invitations, err := env.svc.ListByRequester(ctx, requesterID)
	if err != nil {
		t.Fatalf("ListByRequester() error = %v", err)
	}
	if len(invitations) != 0 {
		t.Fatalf("expected no persisted invitations, got %d", len(invitations))
	}
}

func TestCreateInvitation(t *testing.T) {
	env := newTestEnv(t, config.InviteConfig{ShareBaseURL: "https://app.example.com"})
	ctx := context.Background()
	requesterID := uuid.New()

	created, err := env.svc.Create(ctx, requesterID, "referee@example.com", "Jane Doe", model.Metadata{"candidate": "John Smith"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	inv := created.Invitation
	if inv.Status != model.InvitationStatusPending {
		t.Errorf("status = %q, want pending", inv.Status)
	}
	if len(created.Token) != 43 {
		t.Errorf("token length = %d, want 43", len(created.Token))
	}
	wantExpiry := inv.CreatedAt.Add(30 * 24 * time.Hour)
	if !inv.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("expires_at = %v, want %v", inv.ExpiresAt, wantExpiry)
	}
	wantLink := "https://app.example.com/reference?token=" + created.Token
	if created.ShareLink != wantLink {
		t.Errorf("share_link = %q, want %q", created.ShareLink, wantLink)
	}
	if env.notifier.created != 1 {
		t.Errorf("invitation notifications = %d, want 1", env.notifier.created)
	}
}

func TestLookup(t *testing.T) {
	env := newTestEnv(t, config.InviteConfig{})
	ctx := context.Background()

	if _, err := env.svc.Lookup(ctx, "no-such-token"); !errors.Is(err, ErrInvitationNotFound) {
		t.Fatalf("Lookup(unknown) error = %v, want ErrInvitationNotFound", err)
	}

	created, err := env.svc.Create(ctx, uuid.New(), "referee@example.com", "Jane Doe", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	first, err := env.svc.Lookup(ctx, created.Token)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if first.Status != model.InvitationStatusPending {
		t.Errorf("status = %q, want pending", first.Status)
	}
	if first.RefereeName != "Jane Doe" || first.RefereeEmail != "referee@example.com" {
		t.Errorf("referee = %q <%s>", first.RefereeName, first.RefereeEmail)
	}

	// Lookup is read-only: a second call returns identical data.
	second, err := env.svc.Lookup(ctx, created.Token)
	if err != nil {
		t.Fatalf("second Lookup() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("lookups differ: %+v vs %+v", first, second)
	}
}

func TestLookupDerivesExpiredStatus(t *testing.T) {
	env := newTestEnv(t, config.InviteConfig{})
	ctx := context.Background()

	created, err := env.svc.Create(ctx, uuid.New(), "referee@example.com", "Jane Doe", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	expiresAt := created.Invitation.ExpiresAt
	env.svc.now = func() time.Time { return expiresAt.Add(time.Second) }

	view, err := env.svc.Lookup(ctx, created.Token)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if view.Status != model.InvitationStatusExpired {
		t.Errorf("status = %q, want expired", view.Status)
	}
}

func TestSubmitEndToEnd(t *testing.T) {
	env := newTestEnv(t, config.InviteConfig{})
	ctx := context.Background()
	requesterID := uuid.New()

	created, err := env.svc.Create(ctx, requesterID, "referee@example.com", "Jane Doe", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	view, err := env.svc.Lookup(ctx, created.Token)
	if err != nil || view.Status != model.InvitationStatusPending {
		t.Fatalf("Lookup() = %+v, %v; want pending view", view, err)
	}

	ratings := map[string]float64{"quality": 5, "reliability": 4}
	ref, err := env.svc.Submit(ctx, created.Token,
		RefereeData{Relationship: "former manager"},
		ratings,
		map[string]string{"strengths": "delivers on time"},
	)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if ref.OverallRating != 4.5 {
		t.Errorf("overall_rating = %v, want 4.5", ref.OverallRating)
	}
	if ref.OwnerID != requesterID {
		t.Errorf("owner_id = %v, want %v", ref.OwnerID, requesterID)
	}
	if ref.SourceInvitationID != created.Invitation.ID {
		t.Errorf("source_invitation_id = %v, want %v", ref.SourceInvitationID, created.Invitation.ID)
	}
	if ref.RefereeName != "Jane Doe" {
		t.Errorf("referee_name = %q, want invitation referee name", ref.RefereeName)
	}

	// Duplicate submission of the consumed token is rejected.
	if _, err := env.svc.Submit(ctx, created.Token, RefereeData{}, ratings, nil); !errors.Is(err, ErrInvitationCompleted) {
		t.Fatalf("second Submit() error = %v, want ErrInvitationCompleted", err)
	}

	view, err = env.svc.Lookup(ctx, created.Token)
	if err != nil {
		t.Fatalf("Lookup() after submit error = %v", err)
	}
	if view.Status != model.InvitationStatusCompleted {
		t.Errorf("status after submit = %q, want completed", view.Status)
	}
	if view.CompletedAt == nil {
		t.Error("completed_at not set on completed view")
	}

	refs, err := env.refs.ListByOwner(ctx, requesterID)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("stored references = %d, want 1", len(refs))
	}
	if env.notifier.completed != 1 {
		t.Errorf("completion notifications = %d, want 1", env.notifier.completed)
	}
}

func TestSubmitValidation(t *testing.T) {
	env := newTestEnv(t, config.InviteConfig{})
	ctx := context.Background()

	created, err := env.svc.Create(ctx, uuid.New(), "referee@example.com", "Jane Doe", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name    string
		ratings map[string]float64
	}{
		{"empty ratings", map[string]float64{}},
		{"nil ratings", nil},
		{"negative rating", map[string]float64{"quality": -1}},
		{"above range", map[string]float64{"quality": 5.5}},
		{"blank criterion", map[string]float64{" ": 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Submit(ctx, created.Token, RefereeData{}, tt.ratings, nil)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Submit() error = %v, want ErrValidation", err)
			}
		})
	}

	// Rejected submissions leave the invitation pending.
	view, err := env.svc.Lookup(ctx, created.Token)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if view.Status != model.InvitationStatusPending {
		t.Errorf("status = %q, want pending", view.Status)
	}
}

func TestSubmitUnknownToken(t *testing.T) {
	env := newTestEnv(t, config.InviteConfig{})

	_, err := env.svc.Submit(context.Background(), "no-such-token", RefereeData{}, map[string]float64{"quality": 4}, nil)
	if !errors.Is(err, ErrInvitationNotFound) {
		t.Fatalf("Submit() error = %v, want ErrInvitationNotFound", err)
	}
}

func TestSubmitExpiryBoundary(t *testing.T) {
	ctx := context.Background()
	ratings := map[string]float64{"quality": 4}

	t.Run("one second before expiry succeeds", func(t *testing.T) {
		env := newTestEnv(t, config.InviteConfig{})
		created, err := env.svc.Create(ctx, uuid.New(), "referee@example.com", "Jane Doe", nil)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		env.svc.now = func() time.Time { return created.Invitation.ExpiresAt.Add(-time.Second) }

		if _, err := env.svc.Submit(ctx, created.Token, RefereeData{}, ratings, nil); err != nil {
			t.Fatalf("Submit() error = %v, want success", err)
		}
	})

	t.Run("one second after expiry fails", func(t *testing.T) {
		env := newTestEnv(t, config.InviteConfig{})
		created, err := env.svc.Create(ctx, uuid.New(), "referee@example.com", "Jane Doe", nil)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		env.svc.now = func() time.Time { return created.Invitation.ExpiresAt.Add(time.Second) }

		if _, err := env.svc.Submit(ctx, created.Token, RefereeData{}, ratings, nil); !errors.Is(err, ErrInvitationExpired) {
			t.Fatalf("Submit() error = %v, want ErrInvitationExpired", err)
		}
	})
}

func TestSubmitConcurrentDuplicate(t *testing.T) {
	env := newTestEnv(t, config.InviteConfig{})
	ctx := context.Background()
	requesterID := uuid.New()

	created, err := env.svc.Create(ctx, requesterID, "referee@example.com", "Jane Doe", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	ratings := map[string]float64{"quality": 5, "reliability": 4}
	start := make(chan struct{})
	results := make(chan error, 2)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := env.svc.Submit(ctx, created.Token, RefereeData{}, ratings, nil)
			results <- err
		}()
	}
	close(start)
	wg.Wait()
	close(results)

	var successes, duplicates int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrInvitationCompleted):
			duplicates++
		default:
			t.Fatalf("unexpected Submit() error: %v", err)
		}
	}
	if successes != 1 || duplicates != 1 {
		t.Fatalf("successes = %d, duplicates = %d; want exactly one of each", successes, duplicates)
	}

	refs, err := env.refs.ListByOwner(ctx, requesterID)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("stored references = %d, want exactly 1", len(refs))
	}
}

func TestDailyQuota(t *testing.T) {
	env := newTestEnv(t, config.InviteConfig{DailyLimit: 2})
	ctx := context.Background()
	requesterID := uuid.New()

	for i := 0; i < 2; i++ {
		if _, err := env.svc.Create(ctx, requesterID, "referee@example.com", "Jane Doe", nil); err != nil {
			t.Fatalf("Create() %d error = %v", i, err)
		}
	}

	if _, err := env.svc.Create(ctx, requesterID, "referee@example.com", "Jane Doe", nil); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("Create() error = %v, want ErrQuotaExceeded", err)
	}

	// Another requester is unaffected.
	if _, err := env.svc.Create(ctx, uuid.New(), "referee@example.com", "Jane Doe", nil); err != nil {
		t.Fatalf("Create() for second requester error = %v", err)
	}
}
