package domain

import "strings"

// Natural (business) keys. A record whose key is empty cannot participate in
// reconciliation and must be skipped by the store rather than inserted.

const keySep = "|"

// Key computes the natural key of a TestRequest: (stationNumber, testDate).
// Both components are mandatory.
func (r TestRequest) Key() string {
	if r.StationNumber == "" || r.TestDate == "" {
		return ""
	}
	return r.StationNumber + keySep + r.TestDate
}

// Key computes the natural key of a Signal:
// (stationNumber, receivedAt truncated to the minute, signalType).
func (s Signal) Key() string {
	if s.StationNumber == "" || s.ReceivedAt == "" {
		return ""
	}
	return s.StationNumber + keySep + MinuteStamp(s.ReceivedAt) + keySep + s.SignalType
}

// Key computes the natural key of a Terminal: the station number itself.
func (t Terminal) Key() string { return t.StationNumber }

// MinuteStamp truncates a "YYYY-MM-DD HH:MM:SS" timestamp to minute
// precision. Shorter inputs pass through unchanged so malformed timestamps
// still yield a stable (if coarse) key component.
func MinuteStamp(ts string) string {
	ts = strings.TrimSpace(ts)
	if len(ts) >= 16 {
		return ts[:16]
	}
	return ts
}
