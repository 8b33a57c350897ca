package resolve

import (
	"sort"
	"strings"
	"time"

	"github.com/boutique-crm/clientele-cli/internal/identity"
	"github.com/boutique-crm/clientele-cli/internal/model"
)

// DefaultFollowUpHorizon is applied when a signal requests follow-up
// without suggesting a date.
const DefaultFollowUpHorizon = 3 * 24 * time.Hour

// MergeCandidate applies a candidate record into the target entity.
// Non-empty incoming fields replace the target's; empty fields never erase
// existing knowledge. A synthesized placeholder name only fills a blank
// target name, never replaces a real one.
func MergeCandidate(target *model.Client, cand model.CandidateRecord, now time.Time) {
	if cand.Name != "" && (!cand.PlaceholderName || target.Name == "") {
		target.Name = cand.Name
	}
	if cand.Phone != "" {
		target.Phone = cand.Phone
		target.PhoneNormalized = identity.NormalizePhone(cand.Phone)
	}
	if cand.Email != "" {
		target.Email = cand.Email
	}
	if cand.Notes != "" {
		target.Notes = cand.Notes
	}
	if cand.Source != "" {
		target.Source = cand.Source
	}
	target.UpdatedAt = now
}

// MergeSignal applies an interaction signal into the target entity at
// resolution time now. Priority and status are recomputed from the signal's
// urgency and intent; last-contact is always stamped; next-follow-up is set
// only when the signal requests it, horizon days out when no date is
// suggested.
func MergeSignal(target *model.Client, sig model.InteractionSignal, source string, now time.Time, horizon time.Duration) {
	if sig.ClientName != "" && sig.ClientName != model.UnknownClientName {
		target.Name = sig.ClientName
	}
	if sig.ClientPhone != "" {
		target.Phone = sig.ClientPhone
		target.PhoneNormalized = identity.NormalizePhone(sig.ClientPhone)
		target.WhatsAppNumber = sig.ClientPhone
	}
	if sig.ClientEmail != "" {
		target.Email = sig.ClientEmail
	}
	if sig.BudgetRange != "" {
		target.BudgetRange = sig.BudgetRange
	}
	if interests := sig.Interests(); len(interests) > 0 {
		target.Interests = unionStrings(target.Interests, interests)
	}
	if notes := composeNotes(sig); notes != "" {
		target.Notes = notes
	}
	if source != "" {
		target.Source = source
	}

	target.Priority = Classify(sig.UrgencyLevel, sig.PurchaseIntent)
	target.Status = DeriveStatus(sig.PurchaseIntent)
	target.UrgencyScore = sig.UrgencyLevel.Score()

	contact := now
	target.LastContact = &contact

	if sig.FollowUpRequired {
		due := parseFollowUpDate(sig.FollowUpDate)
		if due.IsZero() {
			if horizon <= 0 {
				horizon = DefaultFollowUpHorizon
			}
			due = now.Add(horizon)
		}
		target.NextFollowUp = &due
	}
	target.UpdatedAt = now
}

// Override is the privileged manual-edit path. It bypasses classification
// entirely and is exempt from re-classification until the next signal
// arrives.
type Override struct {
	Priority     model.PriorityTier
	Status       model.LifecycleStatus
	DealValue    *float64
	NextFollowUp *time.Time
	Note         string
}

// ApplyOverride applies a manual override to the target entity.
func ApplyOverride(target *model.Client, o Override, now time.Time) {
	if o.Priority != "" {
		target.Priority = o.Priority
	}
	if o.Status != "" {
		target.Status = o.Status
	}
	if o.DealValue != nil {
		target.DealValue = *o.DealValue
	}
	if o.NextFollowUp != nil {
		target.NextFollowUp = o.NextFollowUp
	}
	if o.Note != "" {
		target.Notes = o.Note
	}
	target.UpdatedAt = now
}

// composeNotes builds the notes text a signal contributes: its own notes
// plus a one-line interaction summary. Composed as a whole so re-merging
// the same signal is idempotent.
func composeNotes(sig model.InteractionSignal) string {
	var parts []string
	if sig.Notes != "" {
		parts = append(parts, sig.Notes)
	}
	if summary := sig.Summary(); summary != "" {
		parts = append(parts, summary)
	}
	return strings.Join(parts, "\n")
}

// unionStrings merges two interest lists, preserving existing order,
// deduplicating case-insensitively, and sorting new additions for
// determinism.
func unionStrings(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing)+len(incoming))
	out := make([]string, 0, len(existing)+len(incoming))
	for _, s := range existing {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	var added []string
	for _, s := range incoming {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		added = append(added, strings.TrimSpace(s))
	}
	sort.Strings(added)
	return append(out, added...)
}

// parseFollowUpDate accepts the date shapes extraction produces.
func parseFollowUpDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
