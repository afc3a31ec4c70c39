// Package normalize converts raw spreadsheet rows into canonical records.
//
// The source workbooks are inconsistent about which column holds what, mix
// Russian and English headers, and routinely embed MMSI/IMO numbers inside
// the vessel-name cell. The helpers in this file implement the shared
// field-extraction rules: standalone digit-run scanning, embedded identifier
// stripping, date/time/coordinate parsing, and token-based enum matching.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	nineDigitsRE  = regexp.MustCompile(`\b\d{9}\b`)
	sevenDigitsRE = regexp.MustCompile(`\b\d{7}\b`)

	// Labeled identifier forms seen in vessel cells:
	// "Academic Ivanov MMSI:273456789", "Vessel (MMSI 27345678)", "IMO: 9123456".
	// MMSI occasionally arrives with 8 digits and is left-padded to 9.
	mmsiLabelRE = regexp.MustCompile(`(?i)\(?\s*MMSI[\s:№]*(\d{8,9})\s*\)?`)
	imoLabelRE  = regexp.MustCompile(`(?i)\(?\s*IMO[\s:№]*(\d{7})\s*\)?`)

	trailingSepRE = regexp.MustCompile(`[,;:\-\s]+$`)
	emptyParensRE = regexp.MustCompile(`\(\s*\)`)

	dmyDateRE = regexp.MustCompile(`^(\d{1,2})[./](\d{1,2})[./](\d{4})$`)
	isoDateRE = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
	timeRE    = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)

	// Combined position strings: "55.75° N 37.61° E", "43,1 С 131,9 В".
	// Cyrillic hemisphere letters follow the с.ш./ю.ш./в.д./з.д. convention.
	positionRE = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*°?\s*([NSСЮН])[.ш\s]*[,;]?\s*(\d+(?:[.,]\d+)?)\s*°?\s*([EWВЗ])`)
)

// FindDigits returns the first standalone run of exactly n digits found in
// any of the cells, scanning left to right. This is the fallback used when
// the designated identifier column is absent or holds something else — the
// source spreadsheets are inconsistent about which column carries the
// station number.
func FindDigits(cells []string, n int) string {
	re := nineDigitsRE
	if n == 7 {
		re = sevenDigitsRE
	}
	for _, c := range cells {
		if m := re.FindString(c); m != "" {
			return m
		}
	}
	return ""
}

// Digits extracts a standalone run of exactly n digits from a single value,
// or "" when none is present.
func Digits(v string, n int) string {
	re := nineDigitsRE
	if n == 7 {
		re = sevenDigitsRE
	}
	return re.FindString(v)
}

// PadMMSI left-pads an 8-digit MMSI with a zero; other values pass through.
func PadMMSI(v string) string {
	if len(v) == 8 {
		return "0" + v
	}
	return v
}

// VesselParts is the result of splitting a composite vessel cell.
type VesselParts struct {
	Name string
	MMSI string
	IMO  string
}

// SplitVesselCell extracts identifiers embedded in a vessel-name cell and
// strips them (plus trailing separators) from the display name. Labeled
// forms ("MMSI:273456789") are preferred; bare 9- and 7-digit runs are the
// fallback.
func SplitVesselCell(raw string) VesselParts {
	s := strings.TrimSpace(raw)
	if s == "" {
		return VesselParts{}
	}
	var p VesselParts

	if m := mmsiLabelRE.FindStringSubmatch(s); m != nil {
		p.MMSI = PadMMSI(m[1])
		s = strings.Replace(s, m[0], "", 1)
	}
	if m := imoLabelRE.FindStringSubmatch(s); m != nil {
		p.IMO = m[1]
		s = strings.Replace(s, m[0], "", 1)
	}
	if p.MMSI == "" {
		if m := nineDigitsRE.FindString(s); m != "" {
			p.MMSI = m
			s = strings.Replace(s, m, "", 1)
		}
	}
	if p.IMO == "" {
		if m := sevenDigitsRE.FindString(s); m != "" {
			p.IMO = m
			s = strings.Replace(s, m, "", 1)
		}
	}

	s = emptyParensRE.ReplaceAllString(s, "")
	s = trailingSepRE.ReplaceAllString(strings.TrimSpace(s), "")
	p.Name = DisplayName(strings.TrimSpace(s))
	return p
}

var titleCaser = cases.Title(language.Und)

// DisplayName softens all-caps vessel names ("ACADEMIC IVANOV" becomes
// "Academic Ivanov"); names with any lower-case letter pass through as-is.
func DisplayName(name string) string {
	hasLetter, hasLower := false, false
	for _, r := range name {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				hasLower = true
				break
			}
		}
	}
	if !hasLetter || hasLower {
		return name
	}
	return titleCaser.String(strings.ToLower(name))
}

// excelEpoch is day zero of the 1900 date system (accounting for the
// fictitious 1900-02-29 the format inherited from Lotus).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseDate normalizes a raw cell to "YYYY-MM-DD". Accepted inputs: numeric
// spreadsheet date serials, DD.MM.YYYY, DD/MM/YYYY and ISO YYYY-MM-DD
// (optionally with a time suffix). Unparseable values yield "" — a dirty
// date never fails the row.
func ParseDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if m := isoDateRE.FindStringSubmatch(s); m != nil {
		return m[1] + "-" + m[2] + "-" + m[3]
	}
	if m := dmyDateRE.FindStringSubmatch(s); m != nil {
		d, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		if d >= 1 && d <= 31 && mo >= 1 && mo <= 12 {
			return time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		}
		return ""
	}
	// Date serial: days since the Excel epoch. The plausible range keeps
	// station numbers and MMSIs from being misread as dates.
	if serial, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil {
		if serial >= 1000 && serial < 200000 {
			return excelEpoch.AddDate(0, 0, int(serial)).Format("2006-01-02")
		}
	}
	return ""
}

// ParseTime normalizes "HH:MM" or "HH:MM:SS" to "HH:MM:SS" (missing seconds
// default to ":00"). Unparseable values yield "".
func ParseTime(raw string) string {
	s := strings.TrimSpace(raw)
	m := timeRE.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	h, _ := strconv.Atoi(m[1])
	if h > 23 {
		return ""
	}
	sec := m[3]
	if sec == "" {
		sec = "00"
	}
	return two(m[1]) + ":" + m[2] + ":" + sec
}

// ParseTimestamp handles combined date/time cells ("15.01.2025 10:30") and
// returns "YYYY-MM-DD HH:MM:SS". A date without a time gets "00:00:00"; an
// unparseable date yields "".
func ParseTimestamp(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	date, rest := s, ""
	if i := strings.IndexAny(s, " T"); i > 0 {
		date, rest = s[:i], strings.TrimSpace(s[i+1:])
	}
	d := ParseDate(date)
	if d == "" {
		return ""
	}
	t := ParseTime(rest)
	if t == "" {
		t = "00:00:00"
	}
	return d + " " + t
}

// JoinTimestamp builds "YYYY-MM-DD HH:MM:SS" from already-normalized parts.
func JoinTimestamp(date, tm string) string {
	if date == "" {
		return ""
	}
	if tm == "" {
		tm = "00:00:00"
	}
	return date + " " + tm
}

// ParsePosition parses either a plain float cell or a combined position
// string with hemisphere letters (Latin or Cyrillic). Unmatched input yields
// (nil, nil).
func ParsePosition(raw string) (lat, lon *float64) {
	m := positionRE.FindStringSubmatch(raw)
	if m == nil {
		return nil, nil
	}
	la, err1 := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	lo, err2 := strconv.ParseFloat(strings.ReplaceAll(m[3], ",", "."), 64)
	if err1 != nil || err2 != nil {
		return nil, nil
	}
	if strings.ContainsAny(strings.ToUpper(m[2]), "SЮ") {
		la = -la
	}
	if strings.ContainsAny(strings.ToUpper(m[4]), "WЗ") {
		lo = -lo
	}
	return &la, &lo
}

// ParseFloat parses a single numeric coordinate cell, tolerating decimal
// commas. Returns nil when the cell is not a number.
func ParseFloat(raw string) *float64 {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// TerminalType maps a free-form satcom cell to one of the known terminal
// types by case-insensitive token matching; INMARSAT is the baseline.
func TerminalType(raw string) string {
	v := strings.ToUpper(raw)
	switch {
	case strings.Contains(v, "IRID") || strings.Contains(v, "ИРИД"):
		return "IRIDIUM"
	case strings.Contains(v, "TEST") || strings.Contains(v, "ТЕСТ"):
		return "TEST"
	default:
		return "INMARSAT"
	}
}

// SignalType maps a free-form signal-type cell to TEST or REAL; REAL is the
// baseline.
func SignalType(raw string) string {
	v := strings.ToUpper(raw)
	if strings.Contains(v, "TEST") || strings.Contains(v, "ТЕСТ") {
		return "TEST"
	}
	return "REAL"
}

// TerminalStatus maps a free-form status cell onto the known terminal
// statuses; unrecognized values fall back to active. "inactive" tokens are
// checked before "active" ones since the former contain the latter.
func TerminalStatus(raw string) string {
	v := strings.ToLower(raw)
	switch {
	case strings.Contains(v, "inactiv") || strings.Contains(v, "неактив") || strings.Contains(v, "не актив"):
		return "inactive"
	case strings.Contains(v, "tested") || strings.Contains(v, "протестир"):
		return "tested"
	case strings.Contains(v, "pend") || strings.Contains(v, "ожида"):
		return "pending"
	default:
		return "active"
	}
}

func two(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
