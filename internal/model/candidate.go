package model

import "fmt"

// CandidateRecord is a transient, schema-inferred representation of one
// incoming row or extracted identity. It exists only for the duration of a
// single resolution pass and is never persisted directly.
type CandidateRecord struct {
	Name            string            `json:"name"`
	PlaceholderName bool              `json:"placeholder_name,omitempty"`
	Phone           string            `json:"phone,omitempty"`
	Email           string            `json:"email,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	Source          string            `json:"source"`
	Sheet           string            `json:"sheet,omitempty"`
	Row             int               `json:"row"`
	Raw             map[string]string `json:"raw,omitempty"`
}

// PlaceholderName synthesizes a name from the source identifier and row
// position so every candidate carries a non-empty name.
func PlaceholderName(source string, row int) string {
	return fmt.Sprintf("%s_Record_%d", source, row+1)
}
