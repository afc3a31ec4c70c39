package classify

import (
	"strings"

	"github.com/dkomarov/go-ssto-backend/internal/domain"
)

// minScore is the minimum number of satisfied synonym groups a vocabulary
// needs before header evidence is trusted on its own.
const minScore = 2

// Result describes one classified sheet.
type Result struct {
	Kind domain.Kind
	// HeaderRow is the index of the located header row within the sheet,
	// -1 when the sheet is empty or headerless.
	HeaderRow int
	// Headers holds the normalized header cells, aligned by column.
	Headers []string
	// Score is the winning vocabulary's group-match count (0 for unknown).
	Score int
}

// NormalizeHeader lowercases a header cell, collapses internal whitespace
// and trims it. All header matching operates on this form.
func NormalizeHeader(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// HeaderRow locates the header row of a sheet: the first row with at least
// two non-blank cells. Workbooks in this domain routinely carry one or more
// title-banner rows (a merged report caption, a date line) above the real
// header, so the scan skips forward past blank-ish rows instead of trusting
// row zero. Returns -1 when no such row exists.
func HeaderRow(rows [][]string) int {
	firstNonEmpty := -1
	for i, row := range rows {
		n := 0
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				n++
			}
		}
		if n >= 2 {
			return i
		}
		if n == 1 && firstNonEmpty < 0 {
			firstNonEmpty = i
		}
	}
	return firstNonEmpty
}

// Sheet classifies one sheet by header vocabulary scoring with a sheet-name
// fallback.
//
// Scoring: for each kind's vocabulary, count the synonym groups with at
// least one match among the normalized headers. The sheet's kind is the
// vocabulary with the strictly highest score, provided it reaches minScore.
// Ties, or all scores below minScore, fall through to the sheet-name hint;
// when that is silent too the sheet is unknown and its rows are skipped.
// Header evidence always wins over a contradictory sheet name once it clears
// the threshold.
func Sheet(sheetName string, rows [][]string) Result {
	hi := HeaderRow(rows)
	if hi < 0 {
		return Result{Kind: kindFromName(sheetName), HeaderRow: -1}
	}

	headers := make([]string, len(rows[hi]))
	for i, c := range rows[hi] {
		headers[i] = NormalizeHeader(c)
	}

	best, bestScore, tie := domain.KindUnknown, 0, false
	for kind, groups := range vocabularies {
		score := scoreHeaders(headers, groups)
		switch {
		case score > bestScore:
			best, bestScore, tie = kind, score, false
		case score == bestScore && score > 0:
			tie = true
		}
	}

	if bestScore >= minScore && !tie {
		return Result{Kind: best, HeaderRow: hi, Headers: headers, Score: bestScore}
	}
	if k := kindFromName(sheetName); k != domain.KindUnknown {
		return Result{Kind: k, HeaderRow: hi, Headers: headers, Score: bestScore}
	}
	return Result{Kind: domain.KindUnknown, HeaderRow: hi, Headers: headers}
}

// scoreHeaders counts synonym groups satisfied by the header set.
func scoreHeaders(headers []string, groups []group) int {
	score := 0
	for _, g := range groups {
		if groupMatches(headers, g) {
			score++
		}
	}
	return score
}

func groupMatches(headers []string, g group) bool {
	for _, h := range headers {
		if h == "" {
			continue
		}
		for _, term := range g.terms {
			if strings.Contains(h, term) {
				return true
			}
		}
	}
	return false
}

// kindFromName inspects the sheet name itself for recognizable substrings.
func kindFromName(name string) domain.Kind {
	n := strings.ToLower(name)
	for _, hint := range nameHints {
		for _, sub := range hint.subs {
			if strings.Contains(n, sub) {
				return hint.kind
			}
		}
	}
	return domain.KindUnknown
}

// Column returns the index of the first header matching any synonym of the
// given canonical field for the kind, or -1 when no column is designated.
// Exact matches are preferred over substring matches so that "terminal type"
// cannot shadow "terminal number" as the station column.
func Column(kind domain.Kind, headers []string, field string) int {
	terms := columnFields[kind][field]
	for i, h := range headers {
		if h == "" {
			continue
		}
		for _, term := range terms {
			if h == term {
				return i
			}
		}
	}
	for i, h := range headers {
		if h == "" {
			continue
		}
		for _, term := range terms {
			if strings.Contains(h, term) {
				return i
			}
		}
	}
	return -1
}
