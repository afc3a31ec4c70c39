// Package excel is the spreadsheet-reader collaborator: it turns uploaded
// xlsx bytes into plain sheets of string cells and knows nothing about the
// entities they contain. All classification and field mapping happens
// downstream on the returned rows.
package excel

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet: its name and the raw cell grid. Cells are raw
// values (dates arrive as numeric serials), rows may be ragged.
type Sheet struct {
	Name string
	Rows [][]string
}

// Workbook parses an xlsx workbook held in memory and returns every sheet in
// workbook order. A workbook that cannot be opened, or that contains no
// sheets, is malformed input: the caller reports "import failed, 0 sheets
// processed" and nothing is partially applied.
func Workbook(data []byte) ([]Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	sheets := make([]Sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		sheets = append(sheets, Sheet{Name: name, Rows: trimEmptyRows(rows)})
	}
	return sheets, nil
}

// trimEmptyRows drops fully blank rows from both ends of the grid; interior
// blank rows stay, the classifier and normalizer handle those.
func trimEmptyRows(rows [][]string) [][]string {
	isEmpty := func(r []string) bool {
		for _, v := range r {
			if strings.TrimSpace(v) != "" {
				return false
			}
		}
		return true
	}
	for len(rows) > 0 && isEmpty(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	for len(rows) > 0 && isEmpty(rows[0]) {
		rows = rows[1:]
	}
	return rows
}
