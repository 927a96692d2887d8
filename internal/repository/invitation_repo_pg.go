package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrkey/referencehub/internal/model"
)

type pgInvitationRepository struct {
	db *gorm.DB
}

func NewPGInvitationRepository(db *gorm.DB) InvitationRepository {
	return &pgInvitationRepository{db: db}
}

func (r *pgInvitationRepository) Create(ctx context.Context, inv *model.Invitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *pgInvitationRepository) GetByToken(ctx context.Context, token string) (*model.Invitation, error) {
	var inv model.Invitation
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *pgInvitationRepository) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]model.Invitation, error) {
	var invitations []model.Invitation
	if err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("created_at DESC").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

// CompleteWithReference performs the conditional pending->completed update
// and the reference insert in one transaction. The WHERE status='pending'
// predicate is the compare-and-set; RowsAffected == 0 means a concurrent
// submission already won.
func (r *pgInvitationRepository) CompleteWithReference(ctx context.Context, invitationID uuid.UUID, completedAt time.Time, ref *model.Reference) (bool, error) {
	won := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Invitation{}).
			Where("id = ? AND status = ?", invitationID, model.InvitationStatusPending).
			Updates(map[string]interface{}{
				"status":       model.InvitationStatusCompleted,
				"completed_at": completedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Create(ref).Error; err != nil {
			return err
		}
		won = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return won, nil
}
