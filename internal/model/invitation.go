package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type InvitationStatus string

const (
	InvitationStatusPending   InvitationStatus = "pending"
	InvitationStatusCompleted InvitationStatus = "completed"
	// InvitationStatusExpired is never written to the store; it is derived
	// at read time from expires_at (see Invitation.EffectiveStatus).
	InvitationStatusExpired InvitationStatus = "expired"
)

// Metadata is an opaque JSON blob attached by the requester at creation
// (e.g. candidate name and role context). Read-only to the referee flow.
type Metadata map[string]interface{}

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("Metadata.Scan: type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, m)
}

// Invitation is a single-use request for a professional reference. The token
// is the sole credential authorizing the referee to view and submit it.
// Invitations are never deleted; completed and expired rows are retained for
// audit.
type Invitation struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Token        string           `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	RequesterID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"requester_id"`
	RefereeEmail string           `gorm:"type:varchar(320);not null" json:"referee_email"`
	RefereeName  string           `gorm:"type:varchar(255);not null" json:"referee_name"`
	Metadata     Metadata         `gorm:"type:jsonb" json:"metadata,omitempty"`
	Status       InvitationStatus `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	ExpiresAt    time.Time        `gorm:"not null" json:"expires_at"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty"`
}

func (Invitation) TableName() string { return "invitations" }

// EffectiveStatus projects the stored status through the expiry clock: a
// pending invitation past its deadline reads as expired.
func (i *Invitation) EffectiveStatus(now time.Time) InvitationStatus {
	if i.Status == InvitationStatusPending && now.After(i.ExpiresAt) {
		return InvitationStatusExpired
	}
	return i.Status
}
