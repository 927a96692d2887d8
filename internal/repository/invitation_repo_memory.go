package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"hrkey/referencehub/internal/model"
)

// memoryInvitationRepository keeps invitations and their references in
// process memory. Used by tests and single-instance local dev; the mutex
// gives the same compare-and-set guarantee the Postgres conditional update
// provides.
type memoryInvitationRepository struct {
	mu      sync.Mutex
	byToken map[string]*model.Invitation
	byID    map[uuid.UUID]*model.Invitation
	refs    *memoryReferenceRepository
}

// NewMemoryInvitationRepository wires the invitation store to its reference
// store; refs must come from NewMemoryReferenceRepository so completion can
// write both under one lock.
func NewMemoryInvitationRepository(refs ReferenceRepository) InvitationRepository {
	memRefs, _ := refs.(*memoryReferenceRepository)
	return &memoryInvitationRepository{
		byToken: make(map[string]*model.Invitation),
		byID:    make(map[uuid.UUID]*model.Invitation),
		refs:    memRefs,
	}
}

func (r *memoryInvitationRepository) Create(_ context.Context, inv *model.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byToken[inv.Token]; exists {
		return ErrDuplicateToken
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now()
	}
	stored := *inv
	r.byToken[inv.Token] = &stored
	r.byID[inv.ID] = &stored
	return nil
}

func (r *memoryInvitationRepository) GetByToken(_ context.Context, token string) (*model.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.byToken[token]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *inv
	return &copied, nil
}

func (r *memoryInvitationRepository) ListByRequester(_ context.Context, requesterID uuid.UUID) ([]model.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.Invitation
	for _, inv := range r.byID {
		if inv.RequesterID == requesterID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *memoryInvitationRepository) CompleteWithReference(ctx context.Context, invitationID uuid.UUID, completedAt time.Time, ref *model.Reference) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.byID[invitationID]
	if !ok {
		return false, ErrNotFound
	}
	if inv.Status != model.InvitationStatusPending {
		return false, nil
	}
	inv.Status = model.InvitationStatusCompleted
	completed := completedAt
	inv.CompletedAt = &completed

	if r.refs != nil {
		if err := r.refs.create(ref); err != nil {
			// Undo the transition so the caller can retry cleanly, matching
			// the transactional Postgres behavior.
			inv.Status = model.InvitationStatusPending
			inv.CompletedAt = nil
			return false, err
		}
	}
	return true, nil
}
