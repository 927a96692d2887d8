package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequesterStatus int

const (
	RequesterStatusActive   RequesterStatus = 1
	RequesterStatusDisabled RequesterStatus = 2
)

// Requester is the account that solicits references and owns the resulting
// records.
type Requester struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email        string          `gorm:"type:varchar(320);not null" json:"email"`
	Name         string          `gorm:"type:varchar(255)" json:"name"`
	PasswordHash string          `gorm:"type:varchar(255);not null" json:"-"`
	Status       RequesterStatus `gorm:"type:smallint;not null;default:1" json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

func (Requester) TableName() string { return "requesters" }
