// Package identity canonicalizes phone numbers and names into comparable
// forms and resolves candidates to at most one existing client.
package identity

import (
	"strings"

	"golang.org/x/text/cases"
)

// PhoneSuffixLen is the number of trailing digits two phone numbers are
// compared on. Comparing suffixes accommodates inconsistent country-code
// presence across sources ("+971 50-123-4567" vs "0501234567").
const PhoneSuffixLen = 9

// NormalizePhone strips every character that is not a digit or a leading
// "+". Returns "" when fewer than PhoneSuffixLen digits remain, so callers
// can treat the result as "no usable phone".
func NormalizePhone(raw string) string {
	var b strings.Builder
	digits := 0
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			digits++
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	if digits < PhoneSuffixLen {
		return ""
	}
	return b.String()
}

// PhoneSuffix returns the trailing PhoneSuffixLen digits of a normalized
// phone number, or "" when the number is unusable. This suffix is the dedup
// key candidates are checked against.
func PhoneSuffix(normalized string) string {
	digits := strings.TrimPrefix(normalized, "+")
	if len(digits) < PhoneSuffixLen {
		return ""
	}
	return digits[len(digits)-PhoneSuffixLen:]
}

// FoldName produces the comparison key for a client name: trimmed and
// Unicode case-folded. Display casing is preserved by callers; folding is
// only ever applied to comparison keys.
func FoldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
