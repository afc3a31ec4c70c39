// Package services – ImportService
//
// This file implements ImportService, the reconciliation engine behind
// POST /import. It classifies every sheet of an uploaded workbook, maps the
// rows to canonical records, and reconciles them against the persisted
// collections under an explicit merge-or-replace policy. Whether to replace —
// and any user confirmation before doing so — is entirely the calling UI's
// responsibility; the service only executes the policy it is handed.
//
// Dirty data never fails a batch: rows without an extractable identity and
// sheets no vocabulary can claim are counted and skipped, and the per-kind
// tallies are returned to the caller so discrepancies stay visible. Only a
// workbook that cannot be parsed at all surfaces as an error.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// policy, sheet, and tally attributes.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/dkomarov/go-ssto-backend/internal/classify"
	"github.com/dkomarov/go-ssto-backend/internal/domain"
	"github.com/dkomarov/go-ssto-backend/internal/excel"
	"github.com/dkomarov/go-ssto-backend/internal/normalize"
	"github.com/dkomarov/go-ssto-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Policy selects how incoming records reconcile against persisted state.
type Policy string

const (
	// PolicyMerge reconciles field-by-field against existing records.
	PolicyMerge Policy = "merge"
	// PolicyReplace discards the existing collection wholesale. Destructive;
	// the caller owns any confirmation step.
	PolicyReplace Policy = "replace"
)

// ParsePolicy validates a raw policy string, defaulting empty to merge.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyMerge, "":
		return PolicyMerge, nil
	case PolicyReplace:
		return PolicyReplace, nil
	}
	return "", ErrInvalidPolicy
}

// MergeResult tallies one kind's reconciliation outcome. Under merge policy
// Added/Updated/Skipped are populated; Updated counts only changes to
// records that existed before the batch, so a key seen twice in one upload
// still reads as a single addition. Under replace policy Replaced holds the
// size of the new collection. Total always counts incoming rows.
type MergeResult struct {
	Added    int `json:"added"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Total    int `json:"total"`
	Replaced int `json:"replaced,omitempty"`
}

// UnknownBucket tallies sheets (and their data rows) that no vocabulary
// could claim. Kept separate from the per-kind tallies so an unclassifiable
// sheet cannot masquerade as kind-level skips.
type UnknownBucket struct {
	Sheets int `json:"sheets"`
	Rows   int `json:"rows"`
}

// ImportSummary is the per-kind outcome of one workbook import.
type ImportSummary struct {
	Policy    Policy        `json:"policy"`
	Requests  MergeResult   `json:"requests"`
	Signals   MergeResult   `json:"signals"`
	Terminals MergeResult   `json:"terminals"`
	Unknown   UnknownBucket `json:"unknown"`
}

// ImportService owns the full lifecycle of the three persisted collections.
// All persistence goes through this service; nothing else touches the
// underlying tables directly.
//
// The reconcile read-modify-write cycle is guarded by one mutex per kind and
// runs inside a single transaction per kind, so concurrent imports cannot
// lose updates and a cancelled context aborts before anything is committed.
type ImportService struct {
	DB *gorm.DB

	mu map[domain.Kind]*sync.Mutex
}

// NewImportService constructs an ImportService over the given database.
func NewImportService(db *gorm.DB) *ImportService {
	return &ImportService{
		DB: db,
		mu: map[domain.Kind]*sync.Mutex{
			domain.KindRequests:  {},
			domain.KindSignals:   {},
			domain.KindTerminals: {},
		},
	}
}

// ImportWorkbook parses raw xlsx bytes and imports every sheet. A payload
// that cannot be parsed into sheets fails as malformed input with nothing
// applied.
func (s *ImportService) ImportWorkbook(ctx context.Context, data []byte, policy Policy) (*ImportSummary, error) {
	tr := otel.Tracer("services/ImportService")
	ctx, span := tr.Start(ctx, "ImportWorkbook",
		trace.WithAttributes(
			attribute.String("import.policy", string(policy)),
			attribute.Int("import.bytes", len(data)),
		),
	)
	defer span.End()

	sheets, err := excel.Workbook(data)
	if err != nil {
		log.Warn().Err(err).Msg("workbook rejected as malformed")
		return nil, ErrMalformedWorkbook
	}
	return s.ImportSheets(ctx, sheets, policy)
}

// ImportSheets classifies each sheet, normalizes its rows, and reconciles
// the resulting records per kind under the given policy.
func (s *ImportService) ImportSheets(ctx context.Context, sheets []excel.Sheet, policy Policy) (*ImportSummary, error) {
	tr := otel.Tracer("services/ImportService")
	ctx, span := tr.Start(ctx, "ImportSheets",
		trace.WithAttributes(
			attribute.String("import.policy", string(policy)),
			attribute.Int("import.sheets", len(sheets)),
		),
	)
	defer span.End()

	policy, err := ParsePolicy(string(policy))
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{Policy: policy}
	var (
		requests  []domain.TestRequest
		signals   []domain.Signal
		terminals []domain.Terminal
	)

	for _, sheet := range sheets {
		res := classify.Sheet(sheet.Name, sheet.Rows)
		if !res.Kind.Valid() || res.HeaderRow < 0 {
			rows := countDataRows(sheet.Rows, res.HeaderRow+1)
			summary.Unknown.Sheets++
			summary.Unknown.Rows += rows
			importUnknownSheets.Inc()
			log.Info().
				Str("sheet", sheet.Name).
				Int("rows", rows).
				Msg("sheet skipped: no vocabulary matched")
			continue
		}

		for _, row := range sheet.Rows[res.HeaderRow+1:] {
			if blankRow(row) {
				continue
			}
			switch res.Kind {
			case domain.KindRequests:
				summary.Requests.Total++
				if r, ok := normalize.Request(res.Headers, row); ok {
					requests = append(requests, r)
				} else {
					summary.Requests.Skipped++
				}
			case domain.KindSignals:
				summary.Signals.Total++
				if r, ok := normalize.Signal(res.Headers, row); ok {
					signals = append(signals, r)
				} else {
					summary.Signals.Skipped++
				}
			case domain.KindTerminals:
				summary.Terminals.Total++
				if r, ok := normalize.Terminal(res.Headers, row); ok {
					terminals = append(terminals, r)
				} else {
					summary.Terminals.Skipped++
				}
			}
		}
	}

	if err := s.applyKind(ctx, domain.KindRequests, policy, requests, &summary.Requests); err != nil {
		return nil, err
	}
	if err := s.applyKind(ctx, domain.KindSignals, policy, signals, &summary.Signals); err != nil {
		return nil, err
	}
	if err := s.applyKind(ctx, domain.KindTerminals, policy, terminals, &summary.Terminals); err != nil {
		return nil, err
	}

	importBatches.WithLabelValues(string(policy)).Inc()
	log.Info().
		Str("policy", string(policy)).
		Interface("requests", summary.Requests).
		Interface("signals", summary.Signals).
		Interface("terminals", summary.Terminals).
		Int("unknown_sheets", summary.Unknown.Sheets).
		Msg("import finished")
	return summary, nil
}

// applyKind routes one kind's normalized records to the upsert or replace
// path and folds the store tallies into the pre-accumulated sheet tallies.
func (s *ImportService) applyKind(ctx context.Context, kind domain.Kind, policy Policy, records any, out *MergeResult) error {
	var (
		res MergeResult
		err error
	)
	switch kind {
	case domain.KindRequests:
		res, err = s.UpsertRequests(ctx, records.([]domain.TestRequest), policy)
	case domain.KindSignals:
		res, err = s.UpsertSignals(ctx, records.([]domain.Signal), policy)
	case domain.KindTerminals:
		res, err = s.UpsertTerminals(ctx, records.([]domain.Terminal), policy)
	default:
		return ErrUnknownKind
	}
	if err != nil {
		return err
	}
	out.Added = res.Added
	out.Updated = res.Updated
	out.Skipped += res.Skipped
	out.Replaced = res.Replaced
	observeMerge(string(kind), *out)
	return nil
}

// UpsertRequests reconciles test requests against the persisted collection.
func (s *ImportService) UpsertRequests(ctx context.Context, incoming []domain.TestRequest, policy Policy) (MergeResult, error) {
	s.mu[domain.KindRequests].Lock()
	defer s.mu[domain.KindRequests].Unlock()

	res := MergeResult{Total: len(incoming)}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if policy == PolicyReplace {
			final := dedupeByKey(incoming, domain.TestRequest.Key, func(r *domain.TestRequest) {
				stamp(&r.ID, &r.CreatedAt)
			}, &res)
			res.Replaced = len(final)
			return repo.ReplaceAll(tx, domain.KindRequests, final)
		}

		existing, err := repo.ListRequests(ctx, tx)
		if err != nil {
			return err
		}
		state := make(map[string]*domain.TestRequest, len(existing))
		isNew := make(map[string]bool)
		dirty := make(map[string]bool)
		for i := range existing {
			state[existing[i].Key()] = &existing[i]
		}

		for _, in := range incoming {
			key := in.Key()
			if key == "" {
				res.Skipped++
				continue
			}
			cur, ok := state[key]
			if !ok {
				rec := in
				stamp(&rec.ID, &rec.CreatedAt)
				state[key] = &rec
				isNew[key] = true
				res.Added++
				continue
			}
			merged := mergeRequest(*cur, in)
			if merged.SameData(*cur) {
				res.Skipped++
				continue
			}
			*cur = merged
			if isNew[key] {
				// Folded into a record added earlier in this batch; only
				// changes to pre-existing state count as updates.
				res.Skipped++
				continue
			}
			dirty[key] = true
			res.Updated++
		}

		var batch []domain.TestRequest
		for key, rec := range state {
			if isNew[key] || dirty[key] {
				batch = append(batch, *rec)
			}
		}
		return repo.SaveBatch(tx, batch)
	})
	if err != nil {
		return MergeResult{}, err
	}
	return res, nil
}

// UpsertSignals reconciles signals against the persisted collection.
func (s *ImportService) UpsertSignals(ctx context.Context, incoming []domain.Signal, policy Policy) (MergeResult, error) {
	s.mu[domain.KindSignals].Lock()
	defer s.mu[domain.KindSignals].Unlock()

	res := MergeResult{Total: len(incoming)}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if policy == PolicyReplace {
			final := dedupeByKey(incoming, domain.Signal.Key, func(r *domain.Signal) {
				stamp(&r.ID, &r.CreatedAt)
			}, &res)
			res.Replaced = len(final)
			return repo.ReplaceAll(tx, domain.KindSignals, final)
		}

		existing, err := repo.ListSignals(ctx, tx)
		if err != nil {
			return err
		}
		state := make(map[string]*domain.Signal, len(existing))
		isNew := make(map[string]bool)
		dirty := make(map[string]bool)
		for i := range existing {
			state[existing[i].Key()] = &existing[i]
		}

		for _, in := range incoming {
			key := in.Key()
			if key == "" {
				res.Skipped++
				continue
			}
			cur, ok := state[key]
			if !ok {
				rec := in
				stamp(&rec.ID, &rec.CreatedAt)
				state[key] = &rec
				isNew[key] = true
				res.Added++
				continue
			}
			merged := mergeSignal(*cur, in)
			if merged.SameData(*cur) {
				res.Skipped++
				continue
			}
			*cur = merged
			if isNew[key] {
				// Folded into a record added earlier in this batch; only
				// changes to pre-existing state count as updates.
				res.Skipped++
				continue
			}
			dirty[key] = true
			res.Updated++
		}

		var batch []domain.Signal
		for key, rec := range state {
			if isNew[key] || dirty[key] {
				batch = append(batch, *rec)
			}
		}
		return repo.SaveBatch(tx, batch)
	})
	if err != nil {
		return MergeResult{}, err
	}
	return res, nil
}

// UpsertTerminals reconciles terminals against the persisted collection.
// The nextTest derivation (lastTest + 1 calendar year) is applied here, at
// merge time, for both freshly added and merged records.
func (s *ImportService) UpsertTerminals(ctx context.Context, incoming []domain.Terminal, policy Policy) (MergeResult, error) {
	s.mu[domain.KindTerminals].Lock()
	defer s.mu[domain.KindTerminals].Unlock()

	res := MergeResult{Total: len(incoming)}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if policy == PolicyReplace {
			final := dedupeByKey(incoming, domain.Terminal.Key, func(r *domain.Terminal) {
				stamp(&r.ID, &r.CreatedAt)
				deriveNextTest(r)
			}, &res)
			res.Replaced = len(final)
			return repo.ReplaceAll(tx, domain.KindTerminals, final)
		}

		existing, err := repo.ListTerminals(ctx, tx)
		if err != nil {
			return err
		}
		state := make(map[string]*domain.Terminal, len(existing))
		isNew := make(map[string]bool)
		dirty := make(map[string]bool)
		for i := range existing {
			state[existing[i].Key()] = &existing[i]
		}

		for _, in := range incoming {
			key := in.Key()
			if key == "" {
				res.Skipped++
				continue
			}
			cur, ok := state[key]
			if !ok {
				rec := in
				stamp(&rec.ID, &rec.CreatedAt)
				deriveNextTest(&rec)
				state[key] = &rec
				isNew[key] = true
				res.Added++
				continue
			}
			merged := mergeTerminal(*cur, in)
			deriveNextTest(&merged)
			if merged.SameData(*cur) {
				res.Skipped++
				continue
			}
			*cur = merged
			if isNew[key] {
				// Folded into a record added earlier in this batch; only
				// changes to pre-existing state count as updates.
				res.Skipped++
				continue
			}
			dirty[key] = true
			res.Updated++
		}

		var batch []domain.Terminal
		for key, rec := range state {
			if isNew[key] || dirty[key] {
				batch = append(batch, *rec)
			}
		}
		return repo.SaveBatch(tx, batch)
	})
	if err != nil {
		return MergeResult{}, err
	}
	return res, nil
}

// Requests returns a snapshot of the persisted test requests.
func (s *ImportService) Requests(ctx context.Context) ([]domain.TestRequest, error) {
	return repo.ListRequests(ctx, s.DB)
}

// Signals returns a snapshot of the persisted signals.
func (s *ImportService) Signals(ctx context.Context) ([]domain.Signal, error) {
	return repo.ListSignals(ctx, s.DB)
}

// Terminals returns a snapshot of the persisted terminals.
func (s *ImportService) Terminals(ctx context.Context) ([]domain.Terminal, error) {
	return repo.ListTerminals(ctx, s.DB)
}

// dedupeByKey prepares a replace batch: keyless records are dropped and
// counted, later occurrences of the same natural key win over earlier ones,
// and prep stamps identity onto each surviving record. Key uniqueness holds
// for the final state regardless of policy.
func dedupeByKey[T any](incoming []T, key func(T) string, prep func(*T), res *MergeResult) []T {
	index := make(map[string]int, len(incoming))
	var final []T
	for _, in := range incoming {
		k := key(in)
		if k == "" {
			res.Skipped++
			continue
		}
		rec := in
		prep(&rec)
		if i, ok := index[k]; ok {
			final[i] = rec
			continue
		}
		index[k] = len(final)
		final = append(final, rec)
	}
	return final
}

// stamp assigns the surrogate identity the reconciling store owns.
func stamp(id *string, createdAt *time.Time) {
	*id = uuid.NewString()
	*createdAt = time.Now().UTC()
}

func blankRow(row []string) bool {
	for _, c := range row {
		if c != "" && c != " " {
			return false
		}
	}
	return true
}

func countDataRows(rows [][]string, from int) int {
	if from < 0 || from > len(rows) {
		from = 0
	}
	n := 0
	for _, row := range rows[from:] {
		if !blankRow(row) {
			n++
		}
	}
	return n
}
