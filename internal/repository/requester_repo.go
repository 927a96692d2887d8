package repository

import (
	"context"

	"github.com/google/uuid"

	"hrkey/referencehub/internal/model"
)

type RequesterRepository interface {
	Create(ctx context.Context, requester *model.Requester) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Requester, error)
	GetByEmail(ctx context.Context, email string) (*model.Requester, error)
}
