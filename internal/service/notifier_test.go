package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hrkey/referencehub/internal/config"
	"hrkey/referencehub/internal/model"
	"hrkey/referencehub/internal/repository"
)

type failingSender struct {
	mu    sync.Mutex
	calls int
}

func (s *failingSender) Send(_ context.Context, _, _, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return errors.New("mail provider down")
}

type stubRequesterRepo struct {
	requester *model.Requester
}

func (r *stubRequesterRepo) Create(_ context.Context, _ *model.Requester) error { return nil }

func (r *stubRequesterRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Requester, error) {
	if r.requester != nil && r.requester.ID == id {
		return r.requester, nil
	}
	return nil, repository.ErrNotFound
}

func (r *stubRequesterRepo) GetByEmail(_ context.Context, _ string) (*model.Requester, error) {
	return nil, repository.ErrNotFound
}

// A failing mail provider must never fail or stall the submission protocol.
func TestSubmitSucceedsWhenMailDispatchFails(t *testing.T) {
	ctx := context.Background()
	requesterID := uuid.New()

	refs := repository.NewMemoryReferenceRepository()
	invitations := repository.NewMemoryInvitationRepository(refs)
	sender := &failingSender{}
	notifier := NewMailNotifier(sender, &stubRequesterRepo{
		requester: &model.Requester{ID: requesterID, Email: "requester@example.com", Name: "Ada"},
	}, zap.NewNop(), time.Second)

	svc := NewInvitationService(invitations, repository.NewMemoryStateStore(), notifier, zap.NewNop(), config.InviteConfig{})

	created, err := svc.Create(ctx, requesterID, "referee@example.com", "Jane Doe", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	ref, err := svc.Submit(ctx, created.Token, RefereeData{}, map[string]float64{"quality": 4}, nil)
	if err != nil {
		t.Fatalf("Submit() error = %v, want success despite mail failure", err)
	}
	if ref == nil || ref.OverallRating != 4.0 {
		t.Fatalf("Submit() reference = %+v, want overall 4.0", ref)
	}
}
