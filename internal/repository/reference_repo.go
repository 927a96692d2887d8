package repository

import (
	"context"

	"github.com/google/uuid"

	"hrkey/referencehub/internal/model"
)

// ReferenceRepository reads completed reference records. Writes happen only
// through InvitationRepository.CompleteWithReference, so the interface has
// no standalone insert.
type ReferenceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Reference, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Reference, error)
}
