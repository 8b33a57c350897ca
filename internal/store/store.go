// Package store persists canonical client entities. It is the only owner
// of client state; the resolution pipeline holds entities for at most one
// merge operation.
package store

import (
	"context"

	"github.com/boutique-crm/clientele-cli/internal/model"
)

// ClientFilter specifies criteria for listing clients.
type ClientFilter struct {
	Status   model.LifecycleStatus `json:"status,omitempty"`
	Priority model.PriorityTier    `json:"priority,omitempty"`
	Limit    int                   `json:"limit,omitempty"`
}

// Store defines the persistence boundary consumed by the resolution
// pipeline and the follow-up queue builder.
type Store interface {
	// FindByPhoneSuffix returns clients whose indexed phone or whatsapp
	// suffix equals the given dedup key, oldest first.
	FindByPhoneSuffix(ctx context.Context, suffix string) ([]model.Client, error)
	// FindByNameExact returns the oldest client whose folded name equals
	// foldedName, or nil when none exists.
	FindByNameExact(ctx context.Context, foldedName string) (*model.Client, error)
	// Upsert atomically creates or replaces a client by ID.
	Upsert(ctx context.Context, client *model.Client) (*model.Client, error)
	// GetClient returns a client by ID.
	GetClient(ctx context.Context, id string) (*model.Client, error)
	// ListClients returns clients matching the filter, newest first.
	ListClients(ctx context.Context, filter ClientFilter) ([]model.Client, error)
	// ListWithFollowUp returns every client with a scheduled follow-up.
	ListWithFollowUp(ctx context.Context) ([]model.Client, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
