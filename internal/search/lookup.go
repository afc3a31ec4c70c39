// Package search provides a simple, deterministic, concurrency-safe in-memory
// lookup over the persisted record collections. It is intentionally small and
// dependency-free:
//
//   - No logging in the library (callers decide how/what to log)
//   - Unicode-aware tokenization, Latin and Cyrillic alike
//   - Immutable, read-only lookup after construction (safe for concurrent use)
//   - Deterministic scoring and sorting (stable order for ties)
//   - Digit-prefix matching so a partial station number or MMSI still finds
//     its record
//
// Scoring uses Jaccard similarity between the query token set and each
// record's token set, with prefix hits on digit runs counted as half matches.
package search

import (
	"sort"
	"strings"
	"unicode"
)

// Hit is one ranked record reference with its similarity score.
type Hit struct {
	Kind          string  `json:"kind"`
	ID            string  `json:"id"`
	StationNumber string  `json:"stationNumber"`
	VesselName    string  `json:"vesselName,omitempty"`
	Score         float64 `json:"score"`
}

// Record is the searchable projection of one persisted record. Extra carries
// any additional fields worth matching on (owner, contact, signal type).
type Record struct {
	Kind          string
	ID            string
	StationNumber string
	VesselName    string
	MMSI          string
	IMO           string
	Extra         []string
}

type entry struct {
	hit    Hit
	tokens map[string]struct{}
	tLen   int
}

// Lookup is an immutable token index over a snapshot of records.
type Lookup struct {
	docs []entry
}

// NewLookup builds a Lookup from a record snapshot. Records without any
// tokens are dropped.
func NewLookup(records []Record) *Lookup {
	docs := make([]entry, 0, len(records))
	for _, r := range records {
		parts := []string{r.StationNumber, r.VesselName, r.MMSI, r.IMO}
		parts = append(parts, r.Extra...)
		toks := tokenize(strings.Join(parts, " "))
		if len(toks) == 0 {
			continue
		}
		docs = append(docs, entry{
			hit: Hit{
				Kind:          r.Kind,
				ID:            r.ID,
				StationNumber: r.StationNumber,
				VesselName:    r.VesselName,
			},
			tokens: toks,
			tLen:   len(toks),
		})
	}
	return &Lookup{docs: docs}
}

// Find returns up to k best-matching records for the query.
func (l *Lookup) Find(q string, k int) []Hit {
	if len(l.docs) == 0 || strings.TrimSpace(q) == "" {
		return nil
	}
	if k <= 0 {
		k = 10
	}
	qTokens := tokenize(q)
	if len(qTokens) == 0 {
		return nil
	}
	qLen := len(qTokens)

	buf := make([]entry, 0, min(k*4, len(l.docs)))
	for _, d := range l.docs {
		over := overlap(qTokens, d.tokens)
		if over == 0 {
			continue
		}
		union := float64(qLen+d.tLen) - over
		if union <= 0 {
			continue
		}
		e := d
		e.hit.Score = over / union
		buf = append(buf, e)
	}
	if len(buf) == 0 {
		return nil
	}

	sort.SliceStable(buf, func(a, b int) bool {
		if buf[a].hit.Score != buf[b].hit.Score {
			return buf[a].hit.Score > buf[b].hit.Score
		}
		if buf[a].hit.StationNumber != buf[b].hit.StationNumber {
			return buf[a].hit.StationNumber < buf[b].hit.StationNumber
		}
		return buf[a].hit.Kind < buf[b].hit.Kind
	})

	if k > len(buf) {
		k = len(buf)
	}
	out := make([]Hit, k)
	for i := range out {
		out[i] = buf[i].hit
	}
	return out
}

// overlap counts query tokens present in the record token set. An exact hit
// counts as one; a digit-run query token that prefixes a stored digit run
// counts as a half.
func overlap(q, d map[string]struct{}) float64 {
	var over float64
	for t := range q {
		if _, ok := d[t]; ok {
			over++
			continue
		}
		if !allDigits(t) || len(t) < 3 {
			continue
		}
		for dt := range d {
			if allDigits(dt) && strings.HasPrefix(dt, t) {
				over += 0.5
				break
			}
		}
	}
	return over
}

// tokenize lowercases s and splits it into letter or digit runs.
func tokenize(s string) map[string]struct{} {
	out := make(map[string]struct{})
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			out[b.String()] = struct{}{}
			b.Reset()
		}
	}
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return out
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
