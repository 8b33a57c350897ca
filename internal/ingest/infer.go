package ingest

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/boutique-crm/clientele-cli/internal/model"
)

// maxNoteFields bounds how many unclassified columns are folded into the
// notes line; the full row is always preserved under Raw regardless.
const maxNoteFields = 5

// Header keyword sets for identity field classification. Matching is
// case-insensitive substring containment; the first matching column in
// header order wins and a header may satisfy only one category.
var (
	nameKeywords  = []string{"name", "client", "customer"}
	phoneKeywords = []string{"phone", "mobile", "tel", "contact"}
	emailKeywords = []string{"email"}
)

// InferCandidates converts every row of a table into a candidate record.
// This never fails on malformed rows: a row with zero usable data still
// yields a minimal candidate carrying only provenance.
func InferCandidates(t Table) []model.CandidateRecord {
	cands := make([]model.CandidateRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		cands = append(cands, inferRow(t, i, row))
	}
	zap.L().Debug("ingest: inferred candidates",
		zap.String("source", t.Source),
		zap.String("sheet", t.Sheet),
		zap.Int("rows", len(t.Rows)),
	)
	return cands
}

func inferRow(t Table, rowIdx int, row []string) model.CandidateRecord {
	cand := model.CandidateRecord{
		Source: t.Source,
		Sheet:  t.Sheet,
		Row:    rowIdx,
		Raw:    rawRow(t.Headers, row),
	}

	claimed := make(map[int]bool, 3)
	if col := classifyColumn(t.Headers, row, nameKeywords, claimed); col >= 0 {
		cand.Name = strings.TrimSpace(row[col])
		claimed[col] = true
	}
	if col := classifyColumn(t.Headers, row, phoneKeywords, claimed); col >= 0 {
		cand.Phone = strings.TrimSpace(row[col])
		claimed[col] = true
	}
	if col := classifyColumn(t.Headers, row, emailKeywords, claimed); col >= 0 {
		cand.Email = strings.TrimSpace(row[col])
		claimed[col] = true
	}

	cand.Notes = buildNotes(t, row, claimed)

	if cand.Name == "" {
		cand.Name = model.PlaceholderName(t.Source, rowIdx)
		cand.PlaceholderName = true
	}
	return cand
}

// classifyColumn returns the index of the first unclaimed column whose
// header contains any keyword and whose cell holds a usable value, or -1.
func classifyColumn(headers, row []string, keywords []string, claimed map[int]bool) int {
	for col, header := range headers {
		if claimed[col] || col >= len(row) || IsBlank(row[col]) {
			continue
		}
		lower := strings.ToLower(header)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return col
			}
		}
	}
	return -1
}

// buildNotes folds the first maxNoteFields unclassified, non-blank columns
// into a readable "label: value" notes line prefixed with provenance.
func buildNotes(t Table, row []string, claimed map[int]bool) string {
	parts := []string{"Source: " + t.Source}
	if t.Sheet != "" {
		parts = append(parts, "Sheet: "+t.Sheet)
	}

	kept := 0
	for col, header := range t.Headers {
		if kept >= maxNoteFields {
			break
		}
		if claimed[col] || col >= len(row) || IsBlank(row[col]) {
			continue
		}
		label := strings.TrimSpace(header)
		if label == "" {
			continue
		}
		parts = append(parts, label+": "+strings.TrimSpace(row[col]))
		kept++
	}
	return strings.Join(parts, " | ")
}

// rawRow preserves the entire original row verbatim for audit. Duplicate
// headers are disambiguated with a numeric suffix, and cells beyond the
// header count get synthetic column keys, so no cell is lost.
func rawRow(headers, row []string) map[string]string {
	raw := make(map[string]string, len(headers))
	for col, header := range headers {
		val := ""
		if col < len(row) {
			val = row[col]
		}
		key := header
		for n := 2; ; n++ {
			if _, dup := raw[key]; !dup {
				break
			}
			key = header + "_" + strconv.Itoa(n)
		}
		raw[key] = val
	}
	for col := len(headers); col < len(row); col++ {
		raw["_col_"+strconv.Itoa(col+1)] = row[col]
	}
	return raw
}

// IsBlank reports whether a cell contributes no usable data. Spreadsheet
// exports render missing values as empty strings or pandas-style NaN
// markers.
func IsBlank(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "", "nan", "n/a", "null", "none":
		return true
	}
	return false
}
