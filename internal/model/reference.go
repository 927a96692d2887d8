package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// RatingSet maps criterion name to the referee's numeric rating, stored as a
// JSON blob in the ratings column.
type RatingSet map[string]float64

func (r RatingSet) Value() (driver.Value, error) {
	if r == nil {
		return nil, nil
	}
	return json.Marshal(r)
}

func (r *RatingSet) Scan(value interface{}) error {
	if value == nil {
		*r = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("RatingSet.Scan: type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, r)
}

// Feedback holds the referee's free-text answers keyed by question.
type Feedback map[string]string

func (f Feedback) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

func (f *Feedback) Scan(value interface{}) error {
	if value == nil {
		*f = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("Feedback.Scan: type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, f)
}

// Reference is the permanent record produced by a completed invitation.
// Immutable after creation. The unique index on source_invitation_id is a
// schema-level backstop for the one-reference-per-invitation guarantee that
// the lifecycle transition already enforces.
type Reference struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OwnerID            uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	RefereeName        string    `gorm:"type:varchar(255);not null" json:"referee_name"`
	RefereeEmail       string    `gorm:"type:varchar(320);not null" json:"referee_email"`
	Relationship       string    `gorm:"type:varchar(255)" json:"relationship"`
	OverallRating      float64   `gorm:"not null" json:"overall_rating"`
	Ratings            RatingSet `gorm:"type:jsonb" json:"ratings"`
	Feedback           Feedback  `gorm:"type:jsonb" json:"feedback,omitempty"`
	SourceInvitationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"source_invitation_id"`
	CreatedAt          time.Time `json:"created_at"`
}

func (Reference) TableName() string { return "references" }
