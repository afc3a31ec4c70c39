package normalize

import (
	"strings"

	"github.com/dkomarov/go-ssto-backend/internal/classify"
	"github.com/dkomarov/go-ssto-backend/internal/domain"
)

// Row-to-record mapping. Each function takes the classified sheet's
// normalized headers and one data row (header-aligned cells) and produces a
// canonical record, or ok=false when the row lacks an extractable station
// number — such rows are dropped and tallied as skipped, never errored.
//
// Returned records carry no surrogate ID and no CreatedAt; the reconciling
// store assigns those on insert so that re-imports stay comparable.

// cell returns the trimmed value at column i, tolerating ragged rows.
func cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

// station resolves the station number: designated column first, then a
// whole-row scan for a standalone 9-digit run.
func station(kind domain.Kind, headers, cells []string) string {
	if i := classify.Column(kind, headers, classify.FieldStation); i >= 0 {
		if v := Digits(cell(cells, i), 9); v != "" {
			return v
		}
	}
	return FindDigits(cells, 9)
}

// Request maps one row of a requests sheet to a TestRequest.
func Request(headers, cells []string) (domain.TestRequest, bool) {
	st := station(domain.KindRequests, headers, cells)
	if st == "" {
		return domain.TestRequest{}, false
	}

	col := func(field string) string {
		return cell(cells, classify.Column(domain.KindRequests, headers, field))
	}

	vessel := SplitVesselCell(col(classify.FieldVessel))

	r := domain.TestRequest{
		StationNumber: st,
		VesselName:    vessel.Name,
		MMSI:          PadMMSI(Digits(col(classify.FieldMMSI), 9)),
		IMO:           Digits(col(classify.FieldIMO), 7),
		ShipOwner:     col(classify.FieldOwner),
		ContactPerson: col(classify.FieldContact),
		Email:         col(classify.FieldEmail),
		Phone:         col(classify.FieldPhone),
		TestDate:      ParseDate(col(classify.FieldTestDate)),
		Status:        requestStatus(col(classify.FieldStatus)),
	}
	if r.MMSI == "" {
		r.MMSI = vessel.MMSI
	}
	if r.IMO == "" {
		r.IMO = vessel.IMO
	}
	// The designated MMSI column may not exist at all; fall back to any
	// other standalone 9-digit run that is not the station number.
	if r.MMSI == "" {
		for _, c := range cells {
			if v := Digits(c, 9); v != "" && v != st {
				r.MMSI = v
				break
			}
		}
	}
	return r, true
}

// requestStatus normalizes a status cell onto the request lifecycle enum;
// pending is the creation default.
func requestStatus(raw string) string {
	v := strings.ToLower(raw)
	switch {
	case strings.Contains(v, "confirm") || strings.Contains(v, "подтвержд"):
		return domain.RequestStatusConfirmed
	case strings.Contains(v, "cancel") || strings.Contains(v, "отмен"):
		return domain.RequestStatusCancelled
	default:
		return domain.RequestStatusPending
	}
}

// Signal maps one row of a signals sheet to a Signal.
func Signal(headers, cells []string) (domain.Signal, bool) {
	st := station(domain.KindSignals, headers, cells)
	if st == "" {
		return domain.Signal{}, false
	}

	col := func(field string) string {
		return cell(cells, classify.Column(domain.KindSignals, headers, field))
	}

	vessel := SplitVesselCell(col(classify.FieldVessel))

	received := ParseTimestamp(col(classify.FieldReceived))
	if received == "" {
		received = JoinTimestamp(
			ParseDate(col(classify.FieldReceived)),
			ParseTime(col(classify.FieldReceivedTime)),
		)
	} else if t := ParseTime(col(classify.FieldReceivedTime)); t != "" && strings.HasSuffix(received, " 00:00:00") {
		// date and time delivered in separate columns
		received = JoinTimestamp(received[:10], t)
	}

	s := domain.Signal{
		StationNumber: st,
		SignalType:    SignalType(col(classify.FieldSignalType)),
		VesselName:    vessel.Name,
		MMSI:          PadMMSI(Digits(col(classify.FieldMMSI), 9)),
		ReceivedAt:    received,
		Status:        "new",
	}
	if s.MMSI == "" {
		s.MMSI = vessel.MMSI
	}
	if raw := col(classify.FieldStatus); raw != "" {
		s.Status = strings.ToLower(raw)
	}

	// Explicit lat/lon columns win; a combined position string is the
	// fallback, scanned across the whole row when no designated column hits.
	s.Lat = ParseFloat(col(classify.FieldLat))
	s.Lon = ParseFloat(col(classify.FieldLon))
	if s.Lat == nil || s.Lon == nil {
		if la, lo := ParsePosition(col(classify.FieldPosition)); la != nil {
			s.Lat, s.Lon = la, lo
		} else {
			for _, c := range cells {
				if la, lo := ParsePosition(c); la != nil {
					s.Lat, s.Lon = la, lo
					break
				}
			}
		}
	}
	return s, true
}

// Terminal maps one row of a terminals sheet to a Terminal.
func Terminal(headers, cells []string) (domain.Terminal, bool) {
	st := station(domain.KindTerminals, headers, cells)
	if st == "" {
		return domain.Terminal{}, false
	}

	col := func(field string) string {
		return cell(cells, classify.Column(domain.KindTerminals, headers, field))
	}

	vessel := SplitVesselCell(col(classify.FieldVessel))

	t := domain.Terminal{
		StationNumber: st,
		VesselName:    vessel.Name,
		MMSI:          PadMMSI(Digits(col(classify.FieldMMSI), 9)),
		TerminalType:  TerminalType(col(classify.FieldTerminalType)),
		Owner:         col(classify.FieldOwner),
		LastTest:      ParseDate(col(classify.FieldLastTest)),
		NextTest:      ParseDate(col(classify.FieldNextTest)),
		Status:        TerminalStatus(col(classify.FieldStatus)),
	}
	if t.MMSI == "" {
		t.MMSI = vessel.MMSI
	}
	return t, true
}
