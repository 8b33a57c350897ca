package model

import "strings"

// UrgencyLevel is how urgent a client's request is, as extracted from a
// conversation.
type UrgencyLevel string

const (
	UrgencyLow    UrgencyLevel = "low"
	UrgencyMedium UrgencyLevel = "medium"
	UrgencyHigh   UrgencyLevel = "high"
	UrgencyUrgent UrgencyLevel = "urgent"
)

// Score maps an urgency level to the integer sort weight stored on the
// client entity and used by the follow-up queue.
func (u UrgencyLevel) Score() int {
	switch u {
	case UrgencyUrgent:
		return 9
	case UrgencyHigh:
		return 7
	case UrgencyMedium:
		return 5
	case UrgencyLow:
		return 3
	default:
		return 0
	}
}

// Sentiment is the overall tone of a conversation.
type Sentiment string

const (
	SentimentVeryNegative Sentiment = "very_negative"
	SentimentNegative     Sentiment = "negative"
	SentimentNeutral      Sentiment = "neutral"
	SentimentPositive     Sentiment = "positive"
	SentimentVeryPositive Sentiment = "very_positive"
)

// PurchaseIntent is a client's buying readiness.
type PurchaseIntent string

const (
	IntentBrowsing   PurchaseIntent = "browsing"
	IntentInterested PurchaseIntent = "interested"
	IntentReadyToBuy PurchaseIntent = "ready_to_buy"
	IntentConfirmed  PurchaseIntent = "confirmed"
)

// UnknownClientName is the placeholder used when extraction cannot identify
// the client.
const UnknownClientName = "Unknown Client"

// InteractionSignal is the structured output of conversation analysis.
// Immutable once produced; consumed exactly once by the merge engine.
type InteractionSignal struct {
	ClientName          string         `json:"client_name"`
	ClientPhone         string         `json:"client_phone"`
	ClientEmail         string         `json:"client_email,omitempty"`
	CollectionInterests []string       `json:"collection_interests"`
	TimepieceReferences []string       `json:"timepiece_references"`
	OwnedWatches        []string       `json:"owned_watches,omitempty"`
	CollectionValueUSD  int            `json:"estimated_collection_value_usd,omitempty"`
	BudgetRange         string         `json:"budget_range,omitempty"`
	UrgencyLevel        UrgencyLevel   `json:"urgency_level"`
	Sentiment           Sentiment      `json:"sentiment"`
	PurchaseIntent      PurchaseIntent `json:"purchase_intent"`
	KeyInteractions     []string       `json:"key_interactions"`
	FollowUpRequired    bool           `json:"follow_up_required"`
	FollowUpDate        string         `json:"follow_up_date,omitempty"`
	Notes               string         `json:"notes"`
}

// DefaultSignal returns a fully-populated "unknown" signal. A failed or
// malformed extraction degrades to this shape rather than raising.
func DefaultSignal() InteractionSignal {
	return InteractionSignal{
		ClientName:     UnknownClientName,
		UrgencyLevel:   UrgencyMedium,
		Sentiment:      SentimentNeutral,
		PurchaseIntent: IntentBrowsing,
	}
}

// ApplyDefaults replaces empty or out-of-range enum fields with their safe
// defaults so downstream consumers never see an unvalidated signal.
func (s *InteractionSignal) ApplyDefaults() {
	if strings.TrimSpace(s.ClientName) == "" {
		s.ClientName = UnknownClientName
	}
	switch s.UrgencyLevel {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyUrgent:
	default:
		s.UrgencyLevel = UrgencyMedium
	}
	switch s.Sentiment {
	case SentimentVeryNegative, SentimentNegative, SentimentNeutral,
		SentimentPositive, SentimentVeryPositive:
	default:
		s.Sentiment = SentimentNeutral
	}
	switch s.PurchaseIntent {
	case IntentBrowsing, IntentInterested, IntentReadyToBuy, IntentConfirmed:
	default:
		s.PurchaseIntent = IntentBrowsing
	}
}

// Interests returns the combined collection interests and timepiece
// references carried by the signal.
func (s InteractionSignal) Interests() []string {
	out := make([]string, 0, len(s.CollectionInterests)+len(s.TimepieceReferences))
	out = append(out, s.CollectionInterests...)
	out = append(out, s.TimepieceReferences...)
	return out
}

// Summary renders a one-line interaction summary for logging on the client
// record.
func (s InteractionSignal) Summary() string {
	var parts []string
	if len(s.CollectionInterests) > 0 {
		parts = append(parts, "Interested in: "+strings.Join(s.CollectionInterests, ", "))
	}
	if len(s.TimepieceReferences) > 0 {
		parts = append(parts, "Models: "+strings.Join(s.TimepieceReferences, ", "))
	}
	if s.BudgetRange != "" {
		parts = append(parts, "Budget: "+s.BudgetRange)
	}
	parts = append(parts, "Intent: "+string(s.PurchaseIntent))
	return strings.Join(parts, " | ")
}
