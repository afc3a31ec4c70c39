// Package classify decides which entity kind a spreadsheet sheet represents.
//
// The uploaded workbooks come from several desks and languages, so column
// names are unreliable: the same collection arrives as "Номер стойки",
// "Station Number" or "terminal_number" depending on who exported it. Instead
// of matching literal headers, each kind is described by a vocabulary — a list
// of synonym groups — and a sheet is scored by how many groups its header row
// satisfies. The vocabularies are the only data that varies; the matching
// logic is written once and shared with the row normalizer, which uses the
// same groups to locate designated columns.
package classify

import "github.com/dkomarov/go-ssto-backend/internal/domain"

// Canonical field names shared between the classifier vocabularies and the
// row normalizer's column lookup.
const (
	FieldStation      = "station"
	FieldVessel       = "vessel"
	FieldMMSI         = "mmsi"
	FieldIMO          = "imo"
	FieldOwner        = "owner"
	FieldContact      = "contact"
	FieldEmail        = "email"
	FieldPhone        = "phone"
	FieldTestDate     = "testDate"
	FieldSignalType   = "signalType"
	FieldReceived     = "received"
	FieldReceivedTime = "receivedTime"
	FieldLat          = "lat"
	FieldLon          = "lon"
	FieldPosition     = "position"
	FieldTerminalType = "terminalType"
	FieldLastTest     = "lastTest"
	FieldNextTest     = "nextTest"
	FieldStatus       = "status"
)

// group is one synonym group: a canonical field plus every header spelling
// observed for it in the source workbooks.
type group struct {
	field string
	terms []string
}

// Synonym spellings collected from the source application's loader scripts.
var (
	stationGroup = group{FieldStation, []string{
		"номер стойки", "стойка", "номер терминала", "terminal",
		"station number", "terminal number", "terminal_number",
		"mobile terminal no",
	}}
	vesselGroup = group{FieldVessel, []string{
		"судно", "название судна", "vessel", "vessel name", "ship name",
	}}
	mmsiGroup = group{FieldMMSI, []string{"mmsi", "ммси", "ммс"}}
	imoGroup  = group{FieldIMO, []string{"imo", "имо"}}

	ownerGroup = group{FieldOwner, []string{
		"владелец", "судовладелец", "owner", "shipowner", "организация",
	}}
	contactGroup = group{FieldContact, []string{
		"контактное лицо", "contact person", "контакт",
	}}
	emailGroup = group{FieldEmail, []string{"email", "e-mail", "почта", "contact email"}}
	phoneGroup = group{FieldPhone, []string{"телефон", "phone"}}

	// Bare "дата" and "тип" are deliberately absent from the scoring terms:
	// both occur on sheets of every kind ("Дата теста", "Тип связи") and a
	// substring hit would score them for the wrong vocabulary. They resolve
	// via columnFields only, once the sheet's kind is already decided.
	testDateGroup = group{FieldTestDate, []string{
		"дата теста", "test date",
	}}
	statusGroup = group{FieldStatus, []string{"статус", "status"}}

	signalTypeGroup = group{FieldSignalType, []string{
		"тип сигнала", "signal type",
	}}
	receivedGroup = group{FieldReceived, []string{
		"получен", "received", "дата/время", "дата получения", "date received",
	}}
	receivedTimeGroup = group{FieldReceivedTime, []string{
		"время", "time",
	}}
	coordsGroup = group{FieldPosition, []string{
		"координаты", "coordinates", "позиция", "position",
		"широта", "долгота", "latitude", "longitude",
	}}

	terminalTypeGroup = group{FieldTerminalType, []string{
		"тип связи", "terminal type", "тип терминала", "satcom",
	}}
	lastTestGroup = group{FieldLastTest, []string{"последний тест", "last test"}}
	nextTestGroup = group{FieldNextTest, []string{"следующий тест", "next test"}}
)

// vocabularies maps each kind to its scored synonym groups. A sheet belongs
// to the kind whose vocabulary it matches strictly best (and with at least
// two groups satisfied).
var vocabularies = map[domain.Kind][]group{
	domain.KindRequests: {
		stationGroup, vesselGroup, mmsiGroup, imoGroup, testDateGroup,
		ownerGroup, contactGroup, emailGroup, phoneGroup,
	},
	domain.KindSignals: {
		stationGroup, vesselGroup, mmsiGroup, signalTypeGroup,
		receivedGroup, receivedTimeGroup, coordsGroup,
	},
	domain.KindTerminals: {
		stationGroup, vesselGroup, mmsiGroup, terminalTypeGroup,
		ownerGroup, lastTestGroup, nextTestGroup, statusGroup,
	},
}

// columnFields lists, per kind, the designated-column lookup table consumed
// by the row normalizer: canonical field → header synonyms. Separate from
// the scoring vocabularies because a field can be looked up (latitude) even
// when it shares a scoring group with another (position), and because bare
// ambiguous headers ("дата", "тип") designate a column without ever scoring.
var columnFields = map[domain.Kind]map[string][]string{
	domain.KindRequests: {
		FieldStation:  stationGroup.terms,
		FieldVessel:   vesselGroup.terms,
		FieldMMSI:     mmsiGroup.terms,
		FieldIMO:      imoGroup.terms,
		FieldOwner:    ownerGroup.terms,
		FieldContact:  contactGroup.terms,
		FieldEmail:    emailGroup.terms,
		FieldPhone:    phoneGroup.terms,
		FieldTestDate: []string{"дата теста", "test date", "дата"},
		FieldStatus:   statusGroup.terms,
	},
	domain.KindSignals: {
		FieldStation:      stationGroup.terms,
		FieldVessel:       vesselGroup.terms,
		FieldMMSI:         mmsiGroup.terms,
		FieldSignalType:   []string{"тип сигнала", "signal type", "тип"},
		FieldReceived:     []string{"получен", "received", "дата/время", "дата получения", "date received", "дата"},
		FieldReceivedTime: receivedTimeGroup.terms,
		FieldLat:          []string{"широта", "latitude", "lat"},
		FieldLon:          []string{"долгота", "longitude", "lon", "lng"},
		FieldPosition:     []string{"координаты", "coordinates", "позиция", "position"},
		FieldStatus:       statusGroup.terms,
	},
	domain.KindTerminals: {
		FieldStation:      stationGroup.terms,
		FieldVessel:       vesselGroup.terms,
		FieldMMSI:         mmsiGroup.terms,
		FieldTerminalType: terminalTypeGroup.terms,
		FieldOwner:        ownerGroup.terms,
		FieldLastTest:     lastTestGroup.terms,
		FieldNextTest:     nextTestGroup.terms,
		FieldStatus:       statusGroup.terms,
	},
}

// FieldColumns returns the designated-column synonym table for a kind.
// The returned map must be treated as read-only.
func FieldColumns(kind domain.Kind) map[string][]string {
	return columnFields[kind]
}

// sheet-name substrings used as a secondary classification signal when the
// header row is uninformative (e.g. many unnamed columns).
var nameHints = []struct {
	kind domain.Kind
	subs []string
}{
	{domain.KindRequests, []string{"заявк", "request"}},
	{domain.KindSignals, []string{"сигнал", "signal", "alert", "тревог"}},
	{domain.KindTerminals, []string{"терминал", "terminal", "стойк", "vessel", "судн"}},
}
