// Package services – RecordService
//
// This file implements RecordService, the single-record counterpart of the
// bulk import path: manual creation of requests, signals, and terminals, and
// the request/terminal state transitions the UI drives between imports.
// Manual records obey the same natural keys and derivations as imported ones.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/dkomarov/go-ssto-backend/internal/domain"
	"github.com/dkomarov/go-ssto-backend/internal/normalize"
	"github.com/dkomarov/go-ssto-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RecordService handles single-record writes and lifecycle transitions. It
// shares the per-kind locks of the ImportService so a manual create cannot
// race a bulk reconcile on the same collection.
type RecordService struct {
	DB      *gorm.DB
	Imports *ImportService
}

// NewRecordService constructs a RecordService sharing locks with imports.
func NewRecordService(db *gorm.DB, imports *ImportService) *RecordService {
	return &RecordService{DB: db, Imports: imports}
}

// CreateRequest validates and persists one manually entered test request.
// The station number must be exactly nine digits and the test date must
// parse; a request already holding the same (station, date) key is rejected.
func (s *RecordService) CreateRequest(ctx context.Context, in domain.TestRequest) (*domain.TestRequest, error) {
	tr := otel.Tracer("services/RecordService")
	ctx, span := tr.Start(ctx, "CreateRequest",
		trace.WithAttributes(attribute.String("record.station", in.StationNumber)),
	)
	defer span.End()

	if normalize.Digits(in.StationNumber, 9) != in.StationNumber || in.StationNumber == "" {
		return nil, ErrStationNumber
	}
	date := normalize.ParseDate(in.TestDate)
	if date == "" {
		return nil, ErrMissingTestDate
	}
	in.TestDate = date
	in.MMSI = normalize.PadMMSI(in.MMSI)
	if in.Status == "" {
		in.Status = domain.RequestStatusPending
	}

	mu := s.Imports.mu[domain.KindRequests]
	mu.Lock()
	defer mu.Unlock()

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.TestRequest{}).
			Where("station_number = ? AND test_date = ?", in.StationNumber, in.TestDate).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicateRecord
		}
		stamp(&in.ID, &in.CreatedAt)
		return tx.Create(&in).Error
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("station", in.StationNumber).Str("date", in.TestDate).Msg("test request created")
	return &in, nil
}

// CreateSignal validates and persists one manually entered signal. The
// received timestamp must parse; a signal sharing the natural key (station,
// minute, type) with an existing one is rejected rather than merged.
func (s *RecordService) CreateSignal(ctx context.Context, in domain.Signal) (*domain.Signal, error) {
	tr := otel.Tracer("services/RecordService")
	ctx, span := tr.Start(ctx, "CreateSignal",
		trace.WithAttributes(attribute.String("record.station", in.StationNumber)),
	)
	defer span.End()

	if normalize.Digits(in.StationNumber, 9) != in.StationNumber || in.StationNumber == "" {
		return nil, ErrStationNumber
	}
	ts := normalize.ParseTimestamp(in.ReceivedAt)
	if ts == "" {
		return nil, ErrMissingReceivedAt
	}
	in.ReceivedAt = ts
	in.MMSI = normalize.PadMMSI(in.MMSI)
	in.SignalType = normalize.SignalType(in.SignalType)
	if in.Status == "" {
		in.Status = "new"
	}

	mu := s.Imports.mu[domain.KindSignals]
	mu.Lock()
	defer mu.Unlock()

	key := in.Key()
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var same []domain.Signal
		if err := tx.Where("station_number = ?", in.StationNumber).Find(&same).Error; err != nil {
			return err
		}
		for _, ex := range same {
			if ex.Key() == key {
				return ErrDuplicateRecord
			}
		}
		stamp(&in.ID, &in.CreatedAt)
		return tx.Create(&in).Error
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("station", in.StationNumber).Str("received_at", in.ReceivedAt).Msg("signal created")
	return &in, nil
}

// CreateTerminal validates and persists one manually entered terminal,
// deriving the next scheduled test date when a last test date is present.
func (s *RecordService) CreateTerminal(ctx context.Context, in domain.Terminal) (*domain.Terminal, error) {
	tr := otel.Tracer("services/RecordService")
	ctx, span := tr.Start(ctx, "CreateTerminal",
		trace.WithAttributes(attribute.String("record.station", in.StationNumber)),
	)
	defer span.End()

	if normalize.Digits(in.StationNumber, 9) != in.StationNumber || in.StationNumber == "" {
		return nil, ErrStationNumber
	}
	in.MMSI = normalize.PadMMSI(in.MMSI)
	in.TerminalType = normalize.TerminalType(in.TerminalType)
	in.LastTest = normalize.ParseDate(in.LastTest)
	in.NextTest = normalize.ParseDate(in.NextTest)
	if in.Status == "" {
		in.Status = domain.TerminalStatusActive
	}
	deriveNextTest(&in)

	mu := s.Imports.mu[domain.KindTerminals]
	mu.Lock()
	defer mu.Unlock()

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := repo.GetTerminalByStation(ctx, tx, in.StationNumber)
		if err == nil {
			return ErrDuplicateRecord
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return err
		}
		stamp(&in.ID, &in.CreatedAt)
		return tx.Create(&in).Error
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("station", in.StationNumber).Msg("terminal created")
	return &in, nil
}

// ConfirmRequest moves a pending test request to confirmed.
func (s *RecordService) ConfirmRequest(ctx context.Context, id string) (*domain.TestRequest, error) {
	return s.transitionRequest(ctx, id, domain.RequestStatusConfirmed)
}

// CancelRequest moves a pending test request to cancelled.
func (s *RecordService) CancelRequest(ctx context.Context, id string) (*domain.TestRequest, error) {
	return s.transitionRequest(ctx, id, domain.RequestStatusCancelled)
}

// transitionRequest applies a status transition. Only pending requests may
// move; confirmed and cancelled are terminal states.
func (s *RecordService) transitionRequest(ctx context.Context, id, status string) (*domain.TestRequest, error) {
	tr := otel.Tracer("services/RecordService")
	ctx, span := tr.Start(ctx, "TransitionRequest",
		trace.WithAttributes(
			attribute.String("record.id", id),
			attribute.String("record.status", status),
		),
	)
	defer span.End()

	mu := s.Imports.mu[domain.KindRequests]
	mu.Lock()
	defer mu.Unlock()

	var out *domain.TestRequest
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, err := repo.GetRequest(ctx, tx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrRequestNotFound
			}
			return err
		}
		if req.Status != domain.RequestStatusPending {
			return ErrInvalidTransition
		}
		req.Status = status
		if err := tx.Save(req).Error; err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("id", id).Str("status", status).Msg("test request transitioned")
	return out, nil
}

// RunTerminalTest records a completed SSAS test for the terminal with the
// given station number: status becomes tested, the last test date is set to
// today, and the next test date is rederived one year out.
func (s *RecordService) RunTerminalTest(ctx context.Context, stationNumber string) (*domain.Terminal, error) {
	tr := otel.Tracer("services/RecordService")
	ctx, span := tr.Start(ctx, "RunTerminalTest",
		trace.WithAttributes(attribute.String("record.station", stationNumber)),
	)
	defer span.End()

	mu := s.Imports.mu[domain.KindTerminals]
	mu.Lock()
	defer mu.Unlock()

	var out *domain.Terminal
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := repo.GetTerminalByStation(ctx, tx, stationNumber)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrTerminalNotFound
			}
			return err
		}
		t.Status = domain.TerminalStatusTested
		t.LastTest = time.Now().UTC().Format("2006-01-02")
		t.NextTest = ""
		deriveNextTest(t)
		if err := tx.Save(t).Error; err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("station", stationNumber).Str("next_test", out.NextTest).Msg("terminal test recorded")
	return out, nil
}
