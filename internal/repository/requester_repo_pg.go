package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrkey/referencehub/internal/model"
)

type pgRequesterRepository struct {
	db *gorm.DB
}

func NewPGRequesterRepository(db *gorm.DB) RequesterRepository {
	return &pgRequesterRepository{db: db}
}

func (r *pgRequesterRepository) Create(ctx context.Context, requester *model.Requester) error {
	return r.db.WithContext(ctx).Create(requester).Error
}

func (r *pgRequesterRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Requester, error) {
	var requester model.Requester
	if err := r.db.WithContext(ctx).First(&requester, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &requester, nil
}

func (r *pgRequesterRepository) GetByEmail(ctx context.Context, email string) (*model.Requester, error) {
	var requester model.Requester
	if err := r.db.WithContext(ctx).
		Where("lower(email) = ?", strings.ToLower(email)).
		First(&requester).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &requester, nil
}
