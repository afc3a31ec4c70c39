// Package domain defines the persistence models for SSAS test requests,
// received alert signals, and shipborne terminals. These types are mapped
// with GORM and form the core data layer of the import backend.
package domain

import "time"

// Kind identifies one of the persisted record collections. The source
// application accumulated several competing storage key names for the same
// collections (testRequests vs requests, ssasTerminals vs terminals vs
// vessels); the Kind constants are the single replacement for all of them.
type Kind string

const (
	KindRequests  Kind = "requests"
	KindSignals   Kind = "signals"
	KindTerminals Kind = "terminals"
	KindUnknown   Kind = "unknown"
)

// Valid reports whether k names one of the three persisted collections.
func (k Kind) Valid() bool {
	switch k {
	case KindRequests, KindSignals, KindTerminals:
		return true
	}
	return false
}

// TestRequest statuses.
const (
	RequestStatusPending   = "pending"
	RequestStatusConfirmed = "confirmed"
	RequestStatusCancelled = "cancelled"
)

// Terminal satcom types.
const (
	TerminalTypeInmarsat = "INMARSAT"
	TerminalTypeIridium  = "IRIDIUM"
	TerminalTypeTest     = "TEST"
)

// Signal types.
const (
	SignalTypeTest = "TEST"
	SignalTypeReal = "REAL"
)

// Terminal statuses.
const (
	TerminalStatusActive   = "active"
	TerminalStatusInactive = "inactive"
	TerminalStatusTested   = "tested"
	TerminalStatusPending  = "pending"
)

// TestRequest is a scheduled SSAS test for one terminal on one date.
//
// Identity: the (StationNumber, TestDate) pair is the natural key used for
// deduplication; no two rows may share it. ID is a generated surrogate and
// is immutable once created, as is CreatedAt.
type TestRequest struct {
	ID            string    `json:"id"            gorm:"type:char(36);primaryKey"`
	StationNumber string    `json:"stationNumber" gorm:"type:varchar(16);not null;uniqueIndex:ux_request_station_date,priority:1"`
	VesselName    string    `json:"vesselName"    gorm:"type:varchar(255)"`
	MMSI          string    `json:"mmsi"          gorm:"type:varchar(16)"`
	IMO           string    `json:"imo"           gorm:"type:varchar(16)"`
	ShipOwner     string    `json:"shipOwner"     gorm:"type:varchar(255)"`
	ContactPerson string    `json:"contactPerson" gorm:"type:varchar(255)"`
	Email         string    `json:"email"         gorm:"type:varchar(255)"`
	Phone         string    `json:"phone"         gorm:"type:varchar(64)"`
	TestDate      string    `json:"testDate"      gorm:"type:varchar(10);not null;uniqueIndex:ux_request_station_date,priority:2"`
	Status        string    `json:"status"        gorm:"type:varchar(16);not null;default:'pending'"`
	CreatedAt     time.Time `json:"createdAt"`
}

// TableName returns the database table name for TestRequest.
func (TestRequest) TableName() string { return "test_requests" }

// SameData reports whether two requests carry identical business fields.
// Surrogate ID and CreatedAt are excluded: a merge that changes nothing must
// be detectable as a no-op regardless of when either record was created.
func (r TestRequest) SameData(o TestRequest) bool {
	return r.StationNumber == o.StationNumber &&
		r.VesselName == o.VesselName &&
		r.MMSI == o.MMSI &&
		r.IMO == o.IMO &&
		r.ShipOwner == o.ShipOwner &&
		r.ContactPerson == o.ContactPerson &&
		r.Email == o.Email &&
		r.Phone == o.Phone &&
		r.TestDate == o.TestDate &&
		r.Status == o.Status
}

// Signal is a received satellite alert, TEST or REAL.
//
// Identity: (StationNumber, ReceivedAt truncated to the minute, SignalType).
// Signals matching on this key are merge candidates, not duplicates — the
// same alert is frequently re-imported from overlapping report extracts.
type Signal struct {
	ID            string    `json:"id"            gorm:"type:char(36);primaryKey"`
	StationNumber string    `json:"stationNumber" gorm:"type:varchar(16);not null;index:idx_signal_station"`
	SignalType    string    `json:"signalType"    gorm:"type:varchar(16);not null;default:'REAL'"`
	VesselName    string    `json:"vesselName"    gorm:"type:varchar(255)"`
	MMSI          string    `json:"mmsi"          gorm:"type:varchar(16)"`
	Lat           *float64  `json:"lat"`
	Lon           *float64  `json:"lon"`
	ReceivedAt    string    `json:"receivedAt"    gorm:"type:varchar(19);not null"`
	Status        string    `json:"status"        gorm:"type:varchar(32);not null;default:'new'"`
	CreatedAt     time.Time `json:"createdAt"`
}

// TableName returns the database table name for Signal.
func (Signal) TableName() string { return "signals" }

// SameData reports whether two signals carry identical business fields.
func (s Signal) SameData(o Signal) bool {
	return s.StationNumber == o.StationNumber &&
		s.SignalType == o.SignalType &&
		s.VesselName == o.VesselName &&
		s.MMSI == o.MMSI &&
		floatPtrEq(s.Lat, o.Lat) &&
		floatPtrEq(s.Lon, o.Lon) &&
		s.ReceivedAt == o.ReceivedAt &&
		s.Status == o.Status
}

// Terminal is one physical SSAS hardware unit. The nine-digit station number
// is the natural key (one row per installed unit); ID exists only so the REST
// layer can address all three kinds uniformly.
type Terminal struct {
	ID            string    `json:"id"            gorm:"type:char(36);primaryKey"`
	StationNumber string    `json:"stationNumber" gorm:"type:varchar(16);not null;uniqueIndex:ux_terminal_station"`
	VesselName    string    `json:"vesselName"    gorm:"type:varchar(255)"`
	MMSI          string    `json:"mmsi"          gorm:"type:varchar(16)"`
	TerminalType  string    `json:"terminalType"  gorm:"type:varchar(16);not null;default:'INMARSAT'"`
	Owner         string    `json:"owner"         gorm:"type:varchar(255)"`
	LastTest      string    `json:"lastTest"      gorm:"type:varchar(10)"`
	NextTest      string    `json:"nextTest"      gorm:"type:varchar(10)"`
	Status        string    `json:"status"        gorm:"type:varchar(16);not null;default:'active'"`
	CreatedAt     time.Time `json:"createdAt"`
}

// TableName returns the database table name for Terminal.
func (Terminal) TableName() string { return "terminals" }

// SameData reports whether two terminals carry identical business fields.
func (t Terminal) SameData(o Terminal) bool {
	return t.StationNumber == o.StationNumber &&
		t.VesselName == o.VesselName &&
		t.MMSI == o.MMSI &&
		t.TerminalType == o.TerminalType &&
		t.Owner == o.Owner &&
		t.LastTest == o.LastTest &&
		t.NextTest == o.NextTest &&
		t.Status == o.Status
}

func floatPtrEq(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
