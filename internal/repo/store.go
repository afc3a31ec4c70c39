// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the per-kind collection accessors the
// reconciling store is built on: load a snapshot, persist a batch of
// inserts/updates, or swap a collection wholesale.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dkomarov/go-ssto-backend/internal/domain"
)

// ErrNotFound indicates that the requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnknownKind indicates a kind outside requests/signals/terminals.
var ErrUnknownKind = errors.New("unknown record kind")

// ListRequests returns all test requests ordered deterministically.
func ListRequests(ctx context.Context, db *gorm.DB) ([]domain.TestRequest, error) {
	var out []domain.TestRequest
	err := db.WithContext(ctx).Order("test_date ASC, station_number ASC").Find(&out).Error
	return out, err
}

// ListSignals returns all signals ordered deterministically.
func ListSignals(ctx context.Context, db *gorm.DB) ([]domain.Signal, error) {
	var out []domain.Signal
	err := db.WithContext(ctx).Order("received_at ASC, station_number ASC").Find(&out).Error
	return out, err
}

// ListTerminals returns all terminals ordered by station number.
func ListTerminals(ctx context.Context, db *gorm.DB) ([]domain.Terminal, error) {
	var out []domain.Terminal
	err := db.WithContext(ctx).Order("station_number ASC").Find(&out).Error
	return out, err
}

// CountKind returns the number of persisted rows for a kind.
func CountKind(ctx context.Context, db *gorm.DB, kind domain.Kind) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(kindModel(kind)).Count(&total).Error
	return total, err
}

// SaveBatch upserts the given rows inside tx: new rows are inserted, changed
// rows replace their stored versions (full-row save keyed by primary key).
// Callers run this inside a transaction so a failed batch applies nothing.
func SaveBatch[T any](tx *gorm.DB, rows []T) error {
	for i := range rows {
		if err := tx.Save(&rows[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// ReplaceAll discards a kind's collection and inserts the given rows in its
// place inside tx.
func ReplaceAll[T any](tx *gorm.DB, kind domain.Kind, rows []T) error {
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(kindModel(kind)).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// GetRequest fetches a test request by surrogate ID.
func GetRequest(ctx context.Context, db *gorm.DB, id string) (*domain.TestRequest, error) {
	var r domain.TestRequest
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// GetTerminalByStation fetches a terminal by its natural key.
func GetTerminalByStation(ctx context.Context, db *gorm.DB, stationNumber string) (*domain.Terminal, error) {
	var t domain.Terminal
	if err := db.WithContext(ctx).Where("station_number = ?", stationNumber).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func kindModel(kind domain.Kind) any {
	switch kind {
	case domain.KindRequests:
		return &domain.TestRequest{}
	case domain.KindSignals:
		return &domain.Signal{}
	default:
		return &domain.Terminal{}
	}
}
