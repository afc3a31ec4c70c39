package services

import (
	"testing"

	"github.com/dkomarov/go-ssto-backend/internal/domain"
)

func TestMergeRequest(t *testing.T) {
	cur := domain.TestRequest{
		ID:            "keep-id",
		StationNumber: "427309418",
		VesselName:    "Нева",
		TestDate:      "2025-01-15",
		Status:        "pending",
	}
	in := domain.TestRequest{
		StationNumber: "427309418",
		VesselName:    "Другое Имя",
		MMSI:          "273456789",
		ShipOwner:     "СКФ",
		TestDate:      "2025-01-15",
		Status:        "confirmed",
	}

	out := mergeRequest(cur, in)
	if out.ID != "keep-id" {
		t.Fatalf("id: %q", out.ID)
	}
	if out.VesselName != "Нева" {
		t.Fatalf("non-empty field clobbered: %q", out.VesselName)
	}
	if out.MMSI != "273456789" || out.ShipOwner != "СКФ" {
		t.Fatalf("gaps not filled: %+v", out)
	}
	if out.Status != "confirmed" {
		t.Fatalf("status must follow the freshest import: %q", out.Status)
	}

	// An empty incoming status must not blank a stored one.
	in.Status = ""
	if out = mergeRequest(cur, in); out.Status != "pending" {
		t.Fatalf("empty status clobbered stored value: %q", out.Status)
	}
}

func TestMergeSignal(t *testing.T) {
	la, lo := 43.1, 131.9
	cur := domain.Signal{StationNumber: "427309418", SignalType: "TEST", ReceivedAt: "2025-01-15 10:30:00", Status: "new"}
	in := cur
	in.Lat, in.Lon = &la, &lo
	in.Status = "processed"

	out := mergeSignal(cur, in)
	if out.Lat == nil || *out.Lat != 43.1 || out.Lon == nil || *out.Lon != 131.9 {
		t.Fatalf("coordinates not filled: %+v", out)
	}
	if out.Status != "processed" {
		t.Fatalf("status: %q", out.Status)
	}

	// Stored coordinates survive an incoming record without any.
	other := 10.0
	cur.Lat, cur.Lon = &la, &lo
	in.Lat, in.Lon = &other, nil
	out = mergeSignal(cur, in)
	if *out.Lat != 43.1 || *out.Lon != 131.9 {
		t.Fatalf("stored coordinates clobbered: %+v", out)
	}
}

func TestMergeTerminal(t *testing.T) {
	cur := domain.Terminal{
		StationNumber: "427309418",
		VesselName:    "Нева",
		TerminalType:  "INMARSAT",
		LastTest:      "2025-03-10",
		Status:        "active",
	}
	in := domain.Terminal{
		StationNumber: "427309418",
		Owner:         "СКФ",
		TerminalType:  "IRIDIUM",
		LastTest:      "2020-01-01",
		Status:        "inactive",
	}

	out := mergeTerminal(cur, in)
	if out.Owner != "СКФ" {
		t.Fatalf("owner not filled: %+v", out)
	}
	if out.LastTest != "2025-03-10" {
		t.Fatalf("stored lastTest clobbered: %q", out.LastTest)
	}
	if out.TerminalType != "IRIDIUM" || out.Status != "inactive" {
		t.Fatalf("authoritative fields not taken: %+v", out)
	}
}

func TestDeriveNextTest(t *testing.T) {
	tm := domain.Terminal{LastTest: "2025-03-10"}
	deriveNextTest(&tm)
	if tm.NextTest != "2026-03-10" {
		t.Fatalf("derived: %q", tm.NextTest)
	}

	tm = domain.Terminal{LastTest: "2025-03-10", NextTest: "2025-12-01"}
	deriveNextTest(&tm)
	if tm.NextTest != "2025-12-01" {
		t.Fatalf("explicit nextTest overwritten: %q", tm.NextTest)
	}

	tm = domain.Terminal{}
	deriveNextTest(&tm)
	if tm.NextTest != "" {
		t.Fatalf("derived without lastTest: %q", tm.NextTest)
	}

	tm = domain.Terminal{LastTest: "not a date"}
	deriveNextTest(&tm)
	if tm.NextTest != "" {
		t.Fatalf("derived from garbage: %q", tm.NextTest)
	}
}
