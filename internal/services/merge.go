// Package services – field-level merge rules.
//
// Merging is deliberately conservative: an incoming non-empty field fills a
// gap in the stored record but never clobbers data that is already there.
// The exceptions are the authoritative fields — status and the type enums —
// which the freshest import always wins, matching how the operators use
// re-imports to push status corrections through.
package services

import (
	"time"

	"github.com/dkomarov/go-ssto-backend/internal/domain"
)

// fill returns src when dst is empty, dst otherwise.
func fill(dst, src string) string {
	if dst == "" {
		return src
	}
	return dst
}

// take returns src when it is non-empty, dst otherwise (authoritative fields).
func take(dst, src string) string {
	if src != "" {
		return src
	}
	return dst
}

// mergeRequest folds an incoming request into the stored one. Identity
// fields and provenance (ID, CreatedAt) always come from the stored record.
func mergeRequest(cur, in domain.TestRequest) domain.TestRequest {
	out := cur
	out.VesselName = fill(cur.VesselName, in.VesselName)
	out.MMSI = fill(cur.MMSI, in.MMSI)
	out.IMO = fill(cur.IMO, in.IMO)
	out.ShipOwner = fill(cur.ShipOwner, in.ShipOwner)
	out.ContactPerson = fill(cur.ContactPerson, in.ContactPerson)
	out.Email = fill(cur.Email, in.Email)
	out.Phone = fill(cur.Phone, in.Phone)
	out.Status = take(cur.Status, in.Status)
	return out
}

// mergeSignal folds an incoming signal into the stored one.
func mergeSignal(cur, in domain.Signal) domain.Signal {
	out := cur
	out.VesselName = fill(cur.VesselName, in.VesselName)
	out.MMSI = fill(cur.MMSI, in.MMSI)
	if out.Lat == nil {
		out.Lat = in.Lat
	}
	if out.Lon == nil {
		out.Lon = in.Lon
	}
	out.SignalType = take(cur.SignalType, in.SignalType)
	out.Status = take(cur.Status, in.Status)
	return out
}

// mergeTerminal folds an incoming terminal into the stored one.
func mergeTerminal(cur, in domain.Terminal) domain.Terminal {
	out := cur
	out.VesselName = fill(cur.VesselName, in.VesselName)
	out.MMSI = fill(cur.MMSI, in.MMSI)
	out.Owner = fill(cur.Owner, in.Owner)
	out.LastTest = fill(cur.LastTest, in.LastTest)
	out.NextTest = fill(cur.NextTest, in.NextTest)
	out.TerminalType = take(cur.TerminalType, in.TerminalType)
	out.Status = take(cur.Status, in.Status)
	return out
}

// deriveNextTest computes nextTest = lastTest + 1 calendar year whenever
// lastTest is set and nextTest is absent. Computed by the store at merge
// time, never taken as raw input.
func deriveNextTest(t *domain.Terminal) {
	if t.LastTest == "" || t.NextTest != "" {
		return
	}
	d, err := time.Parse("2006-01-02", t.LastTest)
	if err != nil {
		return
	}
	t.NextTest = d.AddDate(1, 0, 0).Format("2006-01-02")
}
