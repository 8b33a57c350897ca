// Package resolve matches, merges, and prioritizes incoming client records.
package resolve

import "github.com/boutique-crm/clientele-cli/internal/model"

// Classify maps an (urgency, intent) pair to a priority tier. The mapping
// is a pure function; pairs outside the table default to medium.
func Classify(urgency model.UrgencyLevel, intent model.PurchaseIntent) model.PriorityTier {
	switch {
	case urgency == model.UrgencyUrgent && intent == model.IntentConfirmed:
		return model.PriorityVIP
	case urgency == model.UrgencyUrgent && intent == model.IntentReadyToBuy:
		return model.PriorityCritical
	case urgency == model.UrgencyHigh && intent == model.IntentConfirmed:
		return model.PriorityCritical
	case urgency == model.UrgencyHigh && intent == model.IntentReadyToBuy:
		return model.PriorityHigh
	case urgency == model.UrgencyMedium && intent == model.IntentReadyToBuy:
		return model.PriorityHigh
	case intent == model.IntentInterested && (urgency == model.UrgencyMedium || urgency == model.UrgencyLow):
		return model.PriorityMedium
	case urgency == model.UrgencyLow && intent == model.IntentBrowsing:
		return model.PriorityLow
	default:
		return model.PriorityMedium
	}
}

// DeriveStatus maps purchase intent to a lifecycle status: clients still
// browsing or merely interested remain prospects.
func DeriveStatus(intent model.PurchaseIntent) model.LifecycleStatus {
	switch intent {
	case model.IntentBrowsing, model.IntentInterested:
		return model.StatusProspect
	default:
		return model.StatusActive
	}
}
