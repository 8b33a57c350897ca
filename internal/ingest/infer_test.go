package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferCandidates(t *testing.T) {
	t.Parallel()

	t.Run("labeled columns are classified", func(t *testing.T) {
		t.Parallel()
		table := Table{
			Source:  "vip_list",
			Sheet:   "Clients",
			Headers: []string{"Client Name", "Mobile Number", "Email Address", "Budget"},
			Rows: [][]string{
				{"Ahmed Hassan", "+971501234567", "ahmed@example.com", "50k"},
			},
		}

		cands := InferCandidates(table)
		require.Len(t, cands, 1)
		c := cands[0]
		assert.Equal(t, "Ahmed Hassan", c.Name)
		assert.False(t, c.PlaceholderName)
		assert.Equal(t, "+971501234567", c.Phone)
		assert.Equal(t, "ahmed@example.com", c.Email)
		assert.Equal(t, "Source: vip_list | Sheet: Clients | Budget: 50k", c.Notes)
	})

	t.Run("a header satisfies only one category", func(t *testing.T) {
		t.Parallel()
		// "Contact Name" contains both a name and a phone keyword; once
		// claimed for name it must not also become the phone.
		table := Table{
			Source:  "walkins",
			Headers: []string{"Contact Name", "Tel"},
			Rows:    [][]string{{"Fatima Al-Rashid", "0529876543"}},
		}

		cands := InferCandidates(table)
		require.Len(t, cands, 1)
		assert.Equal(t, "Fatima Al-Rashid", cands[0].Name)
		assert.Equal(t, "0529876543", cands[0].Phone)
	})

	t.Run("missing name yields placeholder", func(t *testing.T) {
		t.Parallel()
		table := Table{
			Source:  "walkins",
			Headers: []string{"Tel", "Notes"},
			Rows: [][]string{
				{"0501234567", "asked about Nautilus"},
				{"0529876543", ""},
			},
		}

		cands := InferCandidates(table)
		require.Len(t, cands, 2)
		assert.Equal(t, "walkins_Record_1", cands[0].Name)
		assert.True(t, cands[0].PlaceholderName)
		assert.Equal(t, "walkins_Record_2", cands[1].Name)
	})

	t.Run("blank markers are not usable values", func(t *testing.T) {
		t.Parallel()
		table := Table{
			Source:  "export",
			Headers: []string{"Name", "Phone"},
			Rows:    [][]string{{"NaN", "null"}},
		}

		cands := InferCandidates(table)
		require.Len(t, cands, 1)
		assert.True(t, cands[0].PlaceholderName)
		assert.Empty(t, cands[0].Phone)
	})

	t.Run("notes bounded at five extra fields", func(t *testing.T) {
		t.Parallel()
		table := Table{
			Source:  "export",
			Headers: []string{"Name", "A", "B", "C", "D", "E", "F", "G"},
			Rows:    [][]string{{"Ahmed", "1", "2", "3", "4", "5", "6", "7"}},
		}

		cands := InferCandidates(table)
		require.Len(t, cands, 1)
		assert.Equal(t,
			"Source: export | A: 1 | B: 2 | C: 3 | D: 4 | E: 5",
			cands[0].Notes,
		)
		// Raw still carries everything.
		assert.Equal(t, "7", cands[0].Raw["G"])
	})

	t.Run("short rows are padded, long headers preserved", func(t *testing.T) {
		t.Parallel()
		table := Table{
			Source:  "export",
			Headers: []string{"Name", "Phone", "Email"},
			Rows:    [][]string{{"Ahmed"}},
		}

		cands := InferCandidates(table)
		require.Len(t, cands, 1)
		assert.Equal(t, "Ahmed", cands[0].Name)
		assert.Empty(t, cands[0].Phone)
		assert.Equal(t, "", cands[0].Raw["Phone"])
	})

	t.Run("cells beyond the headers preserved in raw", func(t *testing.T) {
		t.Parallel()
		table := Table{
			Source:  "export",
			Headers: []string{"Name", "Phone"},
			Rows:    [][]string{{"Ahmed", "0501234567", "VIP lounge", "ref 5711"}},
		}

		cands := InferCandidates(table)
		require.Len(t, cands, 1)
		assert.Equal(t, "VIP lounge", cands[0].Raw["_col_3"])
		assert.Equal(t, "ref 5711", cands[0].Raw["_col_4"])
	})

	t.Run("duplicate headers disambiguated in raw", func(t *testing.T) {
		t.Parallel()
		table := Table{
			Source:  "export",
			Headers: []string{"Phone", "Phone"},
			Rows:    [][]string{{"0501234567", "0529876543"}},
		}

		cands := InferCandidates(table)
		require.Len(t, cands, 1)
		assert.Equal(t, "0501234567", cands[0].Raw["Phone"])
		assert.Equal(t, "0529876543", cands[0].Raw["Phone_2"])
	})

	t.Run("provenance always recorded", func(t *testing.T) {
		t.Parallel()
		table := Table{
			Source:  "export",
			Sheet:   "S2",
			Headers: []string{"Name"},
			Rows:    [][]string{{"Ahmed"}, {"Fatima"}},
		}

		cands := InferCandidates(table)
		require.Len(t, cands, 2)
		assert.Equal(t, "export", cands[1].Source)
		assert.Equal(t, "S2", cands[1].Sheet)
		assert.Equal(t, 1, cands[1].Row)
	})
}

func TestIsBlank(t *testing.T) {
	t.Parallel()

	for _, blank := range []string{"", "  ", "nan", "NaN", "N/A", "null", "NONE"} {
		assert.True(t, IsBlank(blank), blank)
	}
	assert.False(t, IsBlank("0"))
	assert.False(t, IsBlank("Ahmed"))
}

func TestSourceTag(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "vip_list", SourceTag("/data/imports/vip_list.xlsx"))
	assert.Equal(t, "clients", SourceTag("clients.XLSX"))
}
