// Package domain defines the core persistence models for the application.
// These types are used by GORM for database schema mapping and are shared
// across the repository and service layers.
package domain

import "time"

// ImportReceipt records the outcome of a previously processed import request,
// keyed by (user_id, key). It enables safe retries of POST /import: replaying
// the same Idempotency-Key returns the originally produced summary without
// re-running the reconciliation. This replaces the content-hash duplicate
// check the source application performed before each upload.
type ImportReceipt struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	UserID    string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_key,priority:1"`
	Key       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_key,priority:2"`
	Summary   string    `gorm:"type:TEXT NOT NULL"` // JSON-encoded ImportSummary
	Status    int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (ImportReceipt) TableName() string { return "import_receipts" }
