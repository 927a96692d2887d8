package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"hrkey/referencehub/internal/model"
)

type memoryReferenceRepository struct {
	mu           sync.Mutex
	byID         map[uuid.UUID]*model.Reference
	byInvitation map[uuid.UUID]uuid.UUID
}

func NewMemoryReferenceRepository() ReferenceRepository {
	return &memoryReferenceRepository{
		byID:         make(map[uuid.UUID]*model.Reference),
		byInvitation: make(map[uuid.UUID]uuid.UUID),
	}
}

// create is called by the memory invitation repository while it holds its
// own lock; the per-invitation uniqueness check mirrors the Postgres unique
// index on source_invitation_id.
func (r *memoryReferenceRepository) create(ref *model.Reference) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byInvitation[ref.SourceInvitationID]; exists {
		return errors.New("reference already exists for invitation")
	}
	if ref.ID == uuid.Nil {
		ref.ID = uuid.New()
	}
	if ref.CreatedAt.IsZero() {
		ref.CreatedAt = time.Now()
	}
	stored := *ref
	r.byID[ref.ID] = &stored
	r.byInvitation[ref.SourceInvitationID] = ref.ID
	return nil
}

func (r *memoryReferenceRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Reference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ref, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *ref
	return &copied, nil
}

func (r *memoryReferenceRepository) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]model.Reference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.Reference
	for _, ref := range r.byID {
		if ref.OwnerID == ownerID {
			out = append(out, *ref)
		}
	}
	return out, nil
}
