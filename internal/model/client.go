package model

import "time"

// PriorityTier is the sales priority assigned to a client.
type PriorityTier string

const (
	PriorityLow      PriorityTier = "low"
	PriorityMedium   PriorityTier = "medium"
	PriorityHigh     PriorityTier = "high"
	PriorityCritical PriorityTier = "critical"
	PriorityVIP      PriorityTier = "vip"
)

// LifecycleStatus is a client's position in the sales lifecycle.
// Clients are never deleted; removal is modeled as a status transition.
type LifecycleStatus string

const (
	StatusProspect LifecycleStatus = "prospect"
	StatusActive   LifecycleStatus = "active"
	StatusInactive LifecycleStatus = "inactive"
	StatusVIP      LifecycleStatus = "vip"
	StatusChurned  LifecycleStatus = "churned"
)

// Client is the canonical client entity. It is owned by the store; the
// resolution pipeline only holds one instance for the duration of a merge.
type Client struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Phone           string          `json:"phone,omitempty"`
	PhoneNormalized string          `json:"phone_normalized,omitempty"`
	WhatsAppNumber  string          `json:"whatsapp_number,omitempty"`
	Email           string          `json:"email,omitempty"`
	Priority        PriorityTier    `json:"priority"`
	Status          LifecycleStatus `json:"status"`
	Interests       []string        `json:"interests,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	BudgetRange     string          `json:"budget_range,omitempty"`
	LeadScore       int             `json:"lead_score"`
	UrgencyScore    int             `json:"urgency_score"`
	DealValue       float64         `json:"deal_value"`
	LastContact     *time.Time      `json:"last_contact,omitempty"`
	NextFollowUp    *time.Time      `json:"next_follow_up,omitempty"`
	Source          string          `json:"source,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewClient returns a client initialized with placeholder defaults, ready
// to receive its first merge.
func NewClient(id string) *Client {
	return &Client{
		ID:        id,
		Priority:  PriorityMedium,
		Status:    StatusProspect,
		LeadScore: 50,
	}
}

// HasFollowUp reports whether the client carries a scheduled follow-up.
func (c *Client) HasFollowUp() bool {
	return c.NextFollowUp != nil && !c.NextFollowUp.IsZero()
}
