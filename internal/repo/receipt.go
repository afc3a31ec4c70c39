// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the
// ImportReceipt model used to implement safe-retry semantics for POST /import.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dkomarov/go-ssto-backend/internal/domain"
)

// ErrDuplicate indicates that a receipt already exists for the given
// (user_id, key) tuple.
var ErrDuplicate = errors.New("duplicate")

// GetReceipt returns a non-expired import receipt or ErrNotFound.
func GetReceipt(ctx context.Context, db *gorm.DB, userID, key string, now time.Time) (*domain.ImportReceipt, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.ImportReceipt
	err := db.WithContext(ctx).
		Where("user_id = ? AND key = ? AND expires_at > ?", userID, key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &rec, err
}

// CreateReceipt inserts a receipt and returns ErrDuplicate on unique violation.
func CreateReceipt(ctx context.Context, db *gorm.DB, userID, key, summary string, status int, ttl time.Duration) (*domain.ImportReceipt, error) {
	now := time.Now().UTC()
	rec := &domain.ImportReceipt{
		ID:        uuid.NewString(),
		UserID:    userID,
		Key:       key,
		Summary:   summary,
		Status:    status,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint failed") ||
			strings.Contains(low, "constraint failed: unique") {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}
