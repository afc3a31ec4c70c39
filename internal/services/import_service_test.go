package services

import (
	"context"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dkomarov/go-ssto-backend/internal/domain"
	"github.com/dkomarov/go-ssto-backend/internal/excel"
	"github.com/dkomarov/go-ssto-backend/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:services_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func requestSheet(rows ...[]string) excel.Sheet {
	all := [][]string{{"Номер стойки", "Судно", "ММСИ", "Дата теста", "Судовладелец", "Контактное лицо"}}
	return excel.Sheet{Name: "Заявки", Rows: append(all, rows...)}
}

func signalSheet(rows ...[]string) excel.Sheet {
	all := [][]string{{"Номер стойки", "Судно", "Тип сигнала", "Дата", "Время", "Координаты"}}
	return excel.Sheet{Name: "Сигналы", Rows: append(all, rows...)}
}

func terminalSheet(rows ...[]string) excel.Sheet {
	all := [][]string{{"Номер стойки", "Судно", "Тип связи", "Владелец", "Последний тест", "Следующий тест", "Статус"}}
	return excel.Sheet{Name: "Терминалы", Rows: append(all, rows...)}
}

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy(""); err != nil || p != PolicyMerge {
		t.Fatalf("empty: %v %v", p, err)
	}
	if p, err := ParsePolicy("merge"); err != nil || p != PolicyMerge {
		t.Fatalf("merge: %v %v", p, err)
	}
	if p, err := ParsePolicy("replace"); err != nil || p != PolicyReplace {
		t.Fatalf("replace: %v %v", p, err)
	}
	if _, err := ParsePolicy("wipe"); err != ErrInvalidPolicy {
		t.Fatalf("invalid: %v", err)
	}
}

func TestImportSheets_MergeIsIdempotent(t *testing.T) {
	svc := NewImportService(newTestDB(t))
	ctx := context.Background()

	sheets := []excel.Sheet{
		requestSheet([]string{"427309418", "АРКТИКА", "273456789", "15.01.2025", "СКФ", "Иванов И.И."}),
		signalSheet(
			[]string{"427309418", "НЕВА", "тест", "15.01.2025", "10:30", "43,1 С 131,9 В"},
			[]string{"427309418", "НЕВА", "боевой", "15.01.2025", "11:00", ""},
		),
		terminalSheet([]string{"427309418", "НЕВА", "Инмарсат", "СКФ", "10.03.2025", "", "активна"}),
	}

	sum, err := svc.ImportSheets(ctx, sheets, PolicyMerge)
	if err != nil {
		t.Fatalf("first import: %v", err)
	}
	if sum.Requests.Added != 1 || sum.Requests.Updated != 0 || sum.Requests.Skipped != 0 {
		t.Fatalf("requests first pass: %+v", sum.Requests)
	}
	if sum.Signals.Added != 2 || sum.Signals.Total != 2 {
		t.Fatalf("signals first pass: %+v", sum.Signals)
	}
	if sum.Terminals.Added != 1 {
		t.Fatalf("terminals first pass: %+v", sum.Terminals)
	}

	terms, err := svc.Terminals(ctx)
	if err != nil {
		t.Fatalf("terminals: %v", err)
	}
	if len(terms) != 1 || terms[0].NextTest != "2026-03-10" {
		t.Fatalf("nextTest derivation: %+v", terms)
	}

	// Re-importing the identical workbook must change nothing.
	sum, err = svc.ImportSheets(ctx, sheets, PolicyMerge)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	for name, r := range map[string]MergeResult{
		"requests":  sum.Requests,
		"signals":   sum.Signals,
		"terminals": sum.Terminals,
	} {
		if r.Added != 0 || r.Updated != 0 || r.Skipped != r.Total {
			t.Fatalf("%s second pass not idempotent: %+v", name, r)
		}
	}
}

func TestImportSheets_FillEmptyAndAuthoritativeFields(t *testing.T) {
	svc := NewImportService(newTestDB(t))
	ctx := context.Background()

	first := []excel.Sheet{terminalSheet([]string{"427309418", "НЕВА", "Инмарсат", "", "", "", "активна"})}
	if _, err := svc.ImportSheets(ctx, first, PolicyMerge); err != nil {
		t.Fatalf("seed import: %v", err)
	}

	// Second extract fills the owner gap and pushes a status correction, but
	// the non-empty vessel name keeps its stored value.
	second := []excel.Sheet{terminalSheet([]string{"427309418", "ДРУГОЕ ИМЯ", "Иридиум", "СКФ", "", "", "неактивна"})}
	sum, err := svc.ImportSheets(ctx, second, PolicyMerge)
	if err != nil {
		t.Fatalf("merge import: %v", err)
	}
	if sum.Terminals.Updated != 1 || sum.Terminals.Added != 0 {
		t.Fatalf("tallies: %+v", sum.Terminals)
	}

	terms, err := svc.Terminals(ctx)
	if err != nil {
		t.Fatalf("terminals: %v", err)
	}
	got := terms[0]
	if got.VesselName != "Нева" {
		t.Fatalf("stored vessel name clobbered: %q", got.VesselName)
	}
	if got.Owner != "СКФ" {
		t.Fatalf("owner not filled: %q", got.Owner)
	}
	if got.Status != domain.TerminalStatusInactive {
		t.Fatalf("authoritative status not taken: %q", got.Status)
	}
	if got.TerminalType != domain.TerminalTypeIridium {
		t.Fatalf("authoritative type not taken: %q", got.TerminalType)
	}
}

func TestImportSheets_MergePreservesIdentity(t *testing.T) {
	svc := NewImportService(newTestDB(t))
	ctx := context.Background()

	if _, err := svc.ImportSheets(ctx, []excel.Sheet{terminalSheet([]string{"427309418", "НЕВА", "", "", "", "", ""})}, PolicyMerge); err != nil {
		t.Fatalf("seed: %v", err)
	}
	before, _ := svc.Terminals(ctx)

	if _, err := svc.ImportSheets(ctx, []excel.Sheet{terminalSheet([]string{"427309418", "НЕВА", "", "СКФ", "", "", ""})}, PolicyMerge); err != nil {
		t.Fatalf("merge: %v", err)
	}
	after, _ := svc.Terminals(ctx)

	if after[0].ID != before[0].ID {
		t.Fatal("merge must not reassign the surrogate id")
	}
	if !after[0].CreatedAt.Equal(before[0].CreatedAt) {
		t.Fatal("merge must not touch createdAt")
	}
}

func TestImportSheets_ReplaceSwapsCollection(t *testing.T) {
	svc := NewImportService(newTestDB(t))
	ctx := context.Background()

	seed := []excel.Sheet{terminalSheet(
		[]string{"427309418", "НЕВА", "", "", "", "", ""},
		[]string{"427309419", "ВОСТОК", "", "", "", "", ""},
	)}
	if _, err := svc.ImportSheets(ctx, seed, PolicyMerge); err != nil {
		t.Fatalf("seed: %v", err)
	}

	repl := []excel.Sheet{terminalSheet([]string{"400000001", "ЗАРЯ", "", "", "", "", ""})}
	sum, err := svc.ImportSheets(ctx, repl, PolicyReplace)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if sum.Terminals.Replaced != 1 {
		t.Fatalf("replaced: %+v", sum.Terminals)
	}

	terms, err := svc.Terminals(ctx)
	if err != nil {
		t.Fatalf("terminals: %v", err)
	}
	if len(terms) != 1 || terms[0].StationNumber != "400000001" {
		t.Fatalf("after replace: %+v", terms)
	}
}

func TestUpsertTerminals_ReplaceWithNothingWipes(t *testing.T) {
	svc := NewImportService(newTestDB(t))
	ctx := context.Background()

	if _, err := svc.UpsertTerminals(ctx, []domain.Terminal{{StationNumber: "427309418"}}, PolicyMerge); err != nil {
		t.Fatalf("seed: %v", err)
	}

	res, err := svc.UpsertTerminals(ctx, nil, PolicyReplace)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if res.Replaced != 0 {
		t.Fatalf("replaced: %+v", res)
	}
	terms, err := svc.Terminals(ctx)
	if err != nil {
		t.Fatalf("terminals: %v", err)
	}
	if len(terms) != 0 {
		t.Fatalf("collection not wiped: %+v", terms)
	}
}

func TestUpsertTerminals_InBatchDuplicateKeysMerge(t *testing.T) {
	svc := NewImportService(newTestDB(t))
	ctx := context.Background()

	res, err := svc.UpsertTerminals(ctx, []domain.Terminal{
		{StationNumber: "427309418", VesselName: "Нева", TerminalType: "INMARSAT", Status: "active"},
		{StationNumber: "427309418", Owner: "СКФ", TerminalType: "INMARSAT", Status: "active"},
	}, PolicyMerge)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	// The second row folds into the first: one addition, no update.
	if res.Added != 1 || res.Updated != 0 || res.Skipped != 1 {
		t.Fatalf("tallies: %+v", res)
	}

	terms, err := svc.Terminals(ctx)
	if err != nil {
		t.Fatalf("terminals: %v", err)
	}
	if len(terms) != 1 {
		t.Fatalf("duplicate keys produced %d rows", len(terms))
	}
	if terms[0].VesselName != "Нева" || terms[0].Owner != "СКФ" {
		t.Fatalf("in-batch merge lost fields: %+v", terms[0])
	}
}

func TestUpsertRequests_KeylessSkipped(t *testing.T) {
	svc := NewImportService(newTestDB(t))
	ctx := context.Background()

	res, err := svc.UpsertRequests(ctx, []domain.TestRequest{
		{StationNumber: "427309418"}, // no test date, no identity
		{StationNumber: "427309418", TestDate: "2025-01-15", Status: "pending"},
	}, PolicyMerge)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if res.Added != 1 || res.Skipped != 1 || res.Total != 2 {
		t.Fatalf("tallies: %+v", res)
	}
}

func TestUpsertSignals_FillsCoordinates(t *testing.T) {
	svc := NewImportService(newTestDB(t))
	ctx := context.Background()

	base := domain.Signal{StationNumber: "427309418", SignalType: "TEST", ReceivedAt: "2025-01-15 10:30:00", Status: "new"}
	if _, err := svc.UpsertSignals(ctx, []domain.Signal{base}, PolicyMerge); err != nil {
		t.Fatalf("seed: %v", err)
	}

	la, lo := 43.1, 131.9
	withPos := base
	withPos.Lat, withPos.Lon = &la, &lo
	res, err := svc.UpsertSignals(ctx, []domain.Signal{withPos}, PolicyMerge)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if res.Updated != 1 {
		t.Fatalf("tallies: %+v", res)
	}

	signals, err := svc.Signals(ctx)
	if err != nil {
		t.Fatalf("signals: %v", err)
	}
	if signals[0].Lat == nil || *signals[0].Lat != 43.1 {
		t.Fatalf("lat not filled: %+v", signals[0])
	}
}

func TestUpsertSignals_MinuteKeySeparatesSeconds(t *testing.T) {
	svc := NewImportService(newTestDB(t))
	ctx := context.Background()

	res, err := svc.UpsertSignals(ctx, []domain.Signal{
		{StationNumber: "427309418", SignalType: "TEST", ReceivedAt: "2025-01-15 10:30:05", Status: "new"},
		{StationNumber: "427309418", SignalType: "TEST", ReceivedAt: "2025-01-15 10:30:40", Status: "new"},
		{StationNumber: "427309418", SignalType: "TEST", ReceivedAt: "2025-01-15 10:31:00", Status: "new"},
	}, PolicyMerge)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	// Two signals within the same minute collapse onto one key.
	if res.Added != 2 {
		t.Fatalf("tallies: %+v", res)
	}
}

func TestImportSheets_UnknownSheetBucket(t *testing.T) {
	svc := NewImportService(newTestDB(t))
	ctx := context.Background()

	sheets := []excel.Sheet{{
		Name: "Прочее",
		Rows: [][]string{
			{"Колонка А", "Колонка Б"},
			{"раз", "два"},
			{"три", "четыре"},
		},
	}}
	sum, err := svc.ImportSheets(ctx, sheets, PolicyMerge)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if sum.Unknown.Sheets != 1 || sum.Unknown.Rows != 2 {
		t.Fatalf("unknown bucket: %+v", sum.Unknown)
	}
	if sum.Requests.Total != 0 || sum.Signals.Total != 0 || sum.Terminals.Total != 0 {
		t.Fatalf("unknown rows leaked into kind tallies: %+v", sum)
	}
}

func TestImportSheets_RowsWithoutStationSkipped(t *testing.T) {
	svc := NewImportService(newTestDB(t))
	ctx := context.Background()

	sheets := []excel.Sheet{requestSheet(
		[]string{"427309418", "АРКТИКА", "273456789", "15.01.2025", "", ""},
		[]string{"нет номера", "БЕЗЫМЯННОЕ", "", "16.01.2025", "", ""},
	)}
	sum, err := svc.ImportSheets(ctx, sheets, PolicyMerge)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if sum.Requests.Total != 2 || sum.Requests.Added != 1 || sum.Requests.Skipped != 1 {
		t.Fatalf("tallies: %+v", sum.Requests)
	}
}

func TestImportWorkbook_Malformed(t *testing.T) {
	svc := NewImportService(newTestDB(t))
	if _, err := svc.ImportWorkbook(context.Background(), []byte("junk"), PolicyMerge); err != ErrMalformedWorkbook {
		t.Fatalf("expected ErrMalformedWorkbook, got %v", err)
	}
}

func TestImportSheets_InvalidPolicy(t *testing.T) {
	svc := NewImportService(newTestDB(t))
	if _, err := svc.ImportSheets(context.Background(), nil, Policy("wipe")); err != ErrInvalidPolicy {
		t.Fatalf("expected ErrInvalidPolicy, got %v", err)
	}
}

func TestDedupeByKey_LastWins(t *testing.T) {
	var res MergeResult
	final := dedupeByKey([]domain.Terminal{
		{StationNumber: "427309418", VesselName: "Первое"},
		{StationNumber: ""},
		{StationNumber: "427309418", VesselName: "Второе"},
	}, domain.Terminal.Key, func(t *domain.Terminal) {
		stamp(&t.ID, &t.CreatedAt)
	}, &res)

	if len(final) != 1 {
		t.Fatalf("final: %+v", final)
	}
	if final[0].VesselName != "Второе" {
		t.Fatalf("later occurrence must win: %+v", final[0])
	}
	if final[0].ID == "" {
		t.Fatal("prep not applied")
	}
	if res.Skipped != 1 {
		t.Fatalf("keyless not counted: %+v", res)
	}
}
