package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrkey/referencehub/internal/model"
)

type pgReferenceRepository struct {
	db *gorm.DB
}

func NewPGReferenceRepository(db *gorm.DB) ReferenceRepository {
	return &pgReferenceRepository{db: db}
}

func (r *pgReferenceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Reference, error) {
	var ref model.Reference
	if err := r.db.WithContext(ctx).First(&ref, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ref, nil
}

func (r *pgReferenceRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Reference, error) {
	var refs []model.Reference
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&refs).Error; err != nil {
		return nil, err
	}
	return refs, nil
}
