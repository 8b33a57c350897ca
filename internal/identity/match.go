package identity

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/boutique-crm/clientele-cli/internal/model"
)

// Finder is the slice of the store the matcher needs.
type Finder interface {
	FindByPhoneSuffix(ctx context.Context, suffix string) ([]model.Client, error)
	FindByNameExact(ctx context.Context, foldedName string) (*model.Client, error)
}

// Matcher resolves a candidate to zero or exactly one existing client.
// Phone-suffix matches take precedence over exact name matches; no fuzzy
// matching is performed, so ambiguous names stay unmatched rather than
// risking a merge of two distinct clients.
type Matcher struct {
	finder Finder
}

// NewMatcher creates a Matcher over the given finder.
func NewMatcher(finder Finder) *Matcher {
	return &Matcher{finder: finder}
}

// Match returns the client the candidate refers to, or nil when the
// candidate should be treated as a new entity. Absence of a match is a
// normal outcome, not an error.
func (m *Matcher) Match(ctx context.Context, cand model.CandidateRecord) (*model.Client, error) {
	if suffix := PhoneSuffix(NormalizePhone(cand.Phone)); suffix != "" {
		clients, err := m.finder.FindByPhoneSuffix(ctx, suffix)
		if err != nil {
			return nil, eris.Wrap(err, "identity: find by phone suffix")
		}
		for i := range clients {
			if matchesSuffix(&clients[i], suffix) {
				zap.L().Debug("identity: phone match",
					zap.String("client_id", clients[i].ID),
					zap.String("suffix", suffix),
				)
				return &clients[i], nil
			}
		}
	}

	if cand.PlaceholderName || strings.TrimSpace(cand.Name) == "" || cand.Name == model.UnknownClientName {
		return nil, nil
	}

	client, err := m.finder.FindByNameExact(ctx, FoldName(cand.Name))
	if err != nil {
		return nil, eris.Wrap(err, "identity: find by name")
	}
	return client, nil
}

// matchesSuffix checks the client's normalized phone or whatsapp number
// against the candidate suffix.
func matchesSuffix(c *model.Client, suffix string) bool {
	if phone := c.PhoneNormalized; phone != "" && strings.HasSuffix(strings.TrimPrefix(phone, "+"), suffix) {
		return true
	}
	if wa := NormalizePhone(c.WhatsAppNumber); wa != "" && strings.HasSuffix(strings.TrimPrefix(wa, "+"), suffix) {
		return true
	}
	return false
}
