package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"hrkey/referencehub/internal/model"
	"hrkey/referencehub/internal/repository"
)

// ReferenceService serves the requester's view of completed references.
// References are written only through InvitationService.Submit.
type ReferenceService interface {
	Get(ctx context.Context, ownerID, referenceID uuid.UUID) (*model.Reference, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Reference, error)
}

type referenceService struct {
	referenceRepo repository.ReferenceRepository
}

func NewReferenceService(referenceRepo repository.ReferenceRepository) ReferenceService {
	return &referenceService{referenceRepo: referenceRepo}
}

func (s *referenceService) Get(ctx context.Context, ownerID, referenceID uuid.UUID) (*model.Reference, error) {
	ref, err := s.referenceRepo.GetByID(ctx, referenceID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrReferenceNotFound
		}
		return nil, fmt.Errorf("%w: load reference: %v", ErrStoreUnavailable, err)
	}
	// Ownership check doubles as existence hiding: a foreign reference reads
	// as not found.
	if ref.OwnerID != ownerID {
		return nil, ErrReferenceNotFound
	}
	return ref, nil
}

func (s *referenceService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Reference, error) {
	refs, err := s.referenceRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list references: %v", ErrStoreUnavailable, err)
	}
	return refs, nil
}
