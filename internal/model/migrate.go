package model

import "gorm.io/gorm"

// AutoMigrate runs GORM auto-migration for all models and creates custom indexes.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Requester{},
		&Invitation{},
		&Reference{},
	); err != nil {
		return err
	}

	// Case-insensitive unique email for non-soft-deleted requesters.
	return db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_requesters_email_lower " +
			"ON requesters ((lower(email))) WHERE deleted_at IS NULL",
	).Error
}
