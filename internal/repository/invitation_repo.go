package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"hrkey/referencehub/internal/model"
)

// ErrNotFound is returned by lookup methods when no row matches.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateToken is returned when an insert collides with an existing
// invitation token. With 256-bit tokens this is effectively unreachable, but
// the unique index makes it the store's problem rather than the issuer's.
var ErrDuplicateToken = errors.New("invitation token already exists")

// InvitationRepository is the durable store for invitations.
//
// CompleteWithReference is the single enforcement point for the exactly-once
// submission guarantee: it transitions the invitation to completed only if
// its stored status is still pending, and inserts the reference in the same
// transaction. It reports false (and no error) when the invitation was
// already completed by a concurrent caller; in that case nothing is written.
type InvitationRepository interface {
	Create(ctx context.Context, inv *model.Invitation) error
	GetByToken(ctx context.Context, token string) (*model.Invitation, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]model.Invitation, error)
	CompleteWithReference(ctx context.Context, invitationID uuid.UUID, completedAt time.Time, ref *model.Reference) (bool, error)
}
