package normalize

import "testing"

func TestRequest_FullRow(t *testing.T) {
	headers := []string{"номер стойки", "судно", "дата теста", "судовладелец", "контактное лицо", "email", "телефон", "статус"}
	cells := []string{"427309418", "АРКТИКА (MMSI 273456789)", "15.01.2025", "СКФ", "Иванов И.И.", "ops@example.com", "+7 900 000-00-00", "подтверждена"}

	r, ok := Request(headers, cells)
	if !ok {
		t.Fatal("expected ok")
	}
	if r.StationNumber != "427309418" {
		t.Fatalf("station: %q", r.StationNumber)
	}
	if r.VesselName != "Арктика" {
		t.Fatalf("vessel: %q", r.VesselName)
	}
	if r.MMSI != "273456789" {
		t.Fatalf("mmsi from vessel cell: %q", r.MMSI)
	}
	if r.TestDate != "2025-01-15" {
		t.Fatalf("testDate: %q", r.TestDate)
	}
	if r.Status != "confirmed" {
		t.Fatalf("status: %q", r.Status)
	}
	if r.ShipOwner != "СКФ" || r.ContactPerson != "Иванов И.И." {
		t.Fatalf("owner/contact: %q %q", r.ShipOwner, r.ContactPerson)
	}
	if r.Email != "ops@example.com" || r.Phone != "+7 900 000-00-00" {
		t.Fatalf("email/phone: %q %q", r.Email, r.Phone)
	}
	if r.ID != "" || !r.CreatedAt.IsZero() {
		t.Fatal("normalizer must not assign id or createdAt")
	}
}

func TestRequest_StatusVariants(t *testing.T) {
	headers := []string{"стойка", "судно", "дата теста", "статус"}
	for raw, want := range map[string]string{
		"отменена":  "cancelled",
		"confirmed": "confirmed",
		"":          "pending",
		"в работе":  "pending",
	} {
		r, ok := Request(headers, []string{"427309418", "Нева", "15.01.2025", raw})
		if !ok {
			t.Fatalf("%q: expected ok", raw)
		}
		if r.Status != want {
			t.Fatalf("status %q = %q, want %q", raw, r.Status, want)
		}
	}
}

func TestRequest_MMSIFromRowScan(t *testing.T) {
	// No designated MMSI column and none embedded in the vessel cell: any
	// other standalone nine-digit run that is not the station number serves.
	headers := []string{"стойка", "судно", "дата теста"}
	cells := []string{"427309418", "Нева", "15.01.2025", "273456789"}

	r, ok := Request(headers, cells)
	if !ok {
		t.Fatal("expected ok")
	}
	if r.MMSI != "273456789" {
		t.Fatalf("mmsi: %q", r.MMSI)
	}
}

func TestRequest_NoStation(t *testing.T) {
	if _, ok := Request([]string{"судно"}, []string{"Без номера"}); ok {
		t.Fatal("row without a station number must be dropped")
	}
}

func TestSignal_SeparateDateAndTimeColumns(t *testing.T) {
	headers := []string{"номер стойки", "судно", "тип сигнала", "дата", "время", "координаты"}
	cells := []string{"427309418", "NEVA", "тест", "15.01.2025", "10:30", "43,1 С 131,9 В"}

	s, ok := Signal(headers, cells)
	if !ok {
		t.Fatal("expected ok")
	}
	if s.StationNumber != "427309418" {
		t.Fatalf("station: %q", s.StationNumber)
	}
	if s.VesselName != "Neva" {
		t.Fatalf("vessel: %q", s.VesselName)
	}
	if s.SignalType != "TEST" {
		t.Fatalf("signalType: %q", s.SignalType)
	}
	if s.ReceivedAt != "2025-01-15 10:30:00" {
		t.Fatalf("receivedAt: %q", s.ReceivedAt)
	}
	if s.Status != "new" {
		t.Fatalf("status default: %q", s.Status)
	}
	if s.Lat == nil || s.Lon == nil || *s.Lat != 43.1 || *s.Lon != 131.9 {
		t.Fatalf("position: %v %v", s.Lat, s.Lon)
	}
}

func TestSignal_PositionFromRowScan(t *testing.T) {
	// No designated position column; the combined string sits in an extra
	// unlabeled cell and is picked up by the whole-row scan.
	headers := []string{"стойка", "судно", "получен"}
	cells := []string{"427309418", "Нева", "15.01.2025 10:30", "43,1 С 131,9 В"}

	s, ok := Signal(headers, cells)
	if !ok {
		t.Fatal("expected ok")
	}
	if s.ReceivedAt != "2025-01-15 10:30:00" {
		t.Fatalf("receivedAt: %q", s.ReceivedAt)
	}
	if s.Lat == nil || s.Lon == nil || *s.Lat != 43.1 || *s.Lon != 131.9 {
		t.Fatalf("position: %v %v", s.Lat, s.Lon)
	}
}

func TestSignal_ExplicitCoordinateColumnsWin(t *testing.T) {
	headers := []string{"стойка", "судно", "получен", "широта", "долгота"}
	cells := []string{"427309418", "Нева", "15.01.2025", "55,75", "37,61"}

	s, ok := Signal(headers, cells)
	if !ok {
		t.Fatal("expected ok")
	}
	if s.Lat == nil || s.Lon == nil || *s.Lat != 55.75 || *s.Lon != 37.61 {
		t.Fatalf("position: %v %v", s.Lat, s.Lon)
	}
}

func TestSignal_StatusColumnOverridesDefault(t *testing.T) {
	headers := []string{"стойка", "судно", "получен", "статус"}
	cells := []string{"427309418", "Нева", "15.01.2025", "Обработан"}

	s, ok := Signal(headers, cells)
	if !ok {
		t.Fatal("expected ok")
	}
	if s.Status != "обработан" {
		t.Fatalf("status: %q", s.Status)
	}
}

func TestTerminal_FullRow(t *testing.T) {
	headers := []string{"номер стойки", "судно", "тип связи", "владелец", "последний тест", "следующий тест", "статус"}
	cells := []string{"427309418", "СКФ АМУР 273456789", "ИРИДИУМ", "СКФ", "10.03.2025", "", "неактивна"}

	tr, ok := Terminal(headers, cells)
	if !ok {
		t.Fatal("expected ok")
	}
	if tr.StationNumber != "427309418" {
		t.Fatalf("station: %q", tr.StationNumber)
	}
	if tr.VesselName != "Скф Амур" {
		t.Fatalf("vessel: %q", tr.VesselName)
	}
	if tr.MMSI != "273456789" {
		t.Fatalf("mmsi: %q", tr.MMSI)
	}
	if tr.TerminalType != "IRIDIUM" {
		t.Fatalf("terminalType: %q", tr.TerminalType)
	}
	if tr.LastTest != "2025-03-10" || tr.NextTest != "" {
		t.Fatalf("lastTest/nextTest: %q %q", tr.LastTest, tr.NextTest)
	}
	if tr.Status != "inactive" {
		t.Fatalf("status: %q", tr.Status)
	}
}

func TestTerminal_RaggedRow(t *testing.T) {
	headers := []string{"номер стойки", "судно", "тип связи", "владелец"}
	cells := []string{"427309418", "Нева"}

	tr, ok := Terminal(headers, cells)
	if !ok {
		t.Fatal("expected ok")
	}
	if tr.TerminalType != "INMARSAT" {
		t.Fatalf("default terminalType: %q", tr.TerminalType)
	}
	if tr.Status != "active" {
		t.Fatalf("default status: %q", tr.Status)
	}
}
