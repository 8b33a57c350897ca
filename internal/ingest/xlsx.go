// Package ingest reads weakly-structured tabular sources and infers
// candidate records from them.
package ingest

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Table is one sheet of an ingested workbook: ordered rows under arbitrary,
// possibly empty or duplicated, header strings. No fixed schema is assumed.
type Table struct {
	Source  string
	Sheet   string
	Headers []string
	Rows    [][]string
}

// ReadWorkbook reads every sheet of an XLSX file. The first row of each
// sheet is taken as the header row. Sheets with no data rows are returned
// empty rather than skipped so the job summary can account for them.
func ReadWorkbook(path, source string) ([]Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open workbook %s", path)
	}
	if source == "" {
		source = SourceTag(path)
	}

	tables := make([]Table, 0, len(f.Sheets))
	for _, sheet := range f.Sheets {
		t := Table{Source: source, Sheet: sheet.Name}
		for i, row := range sheet.Rows {
			cells := rowToStrings(row)
			if i == 0 {
				t.Headers = cells
				continue
			}
			t.Rows = append(t.Rows, cells)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// SourceTag derives a source identifier from a file path.
func SourceTag(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
