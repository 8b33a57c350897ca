package resolve

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/boutique-crm/clientele-cli/internal/identity"
	"github.com/boutique-crm/clientele-cli/internal/ingest"
	"github.com/boutique-crm/clientele-cli/internal/model"
)

// Store is the persistence boundary the resolver consumes. Schema,
// indexing, and transport are the store's concern; the resolver issues one
// logical read-modify-write per record.
type Store interface {
	identity.Finder
	Upsert(ctx context.Context, client *model.Client) (*model.Client, error)
}

// Summary reports the outcome of one ingestion job. Persistence failures
// are counted, never allowed to abort the remaining records.
type Summary struct {
	Source  string `json:"source"`
	Sheet   string `json:"sheet,omitempty"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

// Add accumulates another summary into s.
func (s *Summary) Add(other Summary) {
	s.Created += other.Created
	s.Updated += other.Updated
	s.Skipped += other.Skipped
	s.Failed += other.Failed
}

// Resolver runs the resolution pipeline: normalize, match, merge, upsert.
// Processing is synchronous; records of one job are never interleaved.
type Resolver struct {
	store   Store
	matcher *identity.Matcher
	horizon time.Duration
	now     func() time.Time
}

// NewResolver creates a Resolver over the given store.
func NewResolver(store Store) *Resolver {
	return &Resolver{
		store:   store,
		matcher: identity.NewMatcher(store),
		horizon: DefaultFollowUpHorizon,
		now:     time.Now,
	}
}

// SetFollowUpHorizon overrides the default horizon applied when a signal
// requests follow-up without suggesting a date. Non-positive values are
// ignored.
func (r *Resolver) SetFollowUpHorizon(d time.Duration) {
	if d > 0 {
		r.horizon = d
	}
}

// ResolveCandidate resolves a single candidate record to a client entity,
// creating one when no match exists. Returns the persisted entity and
// whether it was created.
func (r *Resolver) ResolveCandidate(ctx context.Context, cand model.CandidateRecord) (*model.Client, bool, error) {
	target, err := r.matcher.Match(ctx, cand)
	if err != nil {
		return nil, false, err
	}
	created := target == nil
	if created {
		target = model.NewClient(uuid.New().String())
		target.CreatedAt = r.now()
	}

	MergeCandidate(target, cand, r.now())

	saved, err := r.store.Upsert(ctx, target)
	if err != nil {
		return nil, false, eris.Wrap(err, "resolve: upsert client")
	}
	return saved, created, nil
}

// ResolveSignal resolves an interaction signal to a client entity. The
// signal's identity guesses are matched exactly like a candidate record;
// the merge additionally recomputes priority and schedules follow-up.
func (r *Resolver) ResolveSignal(ctx context.Context, sig model.InteractionSignal, source string) (*model.Client, bool, error) {
	cand := model.CandidateRecord{
		Name:            sig.ClientName,
		PlaceholderName: sig.ClientName == model.UnknownClientName,
		Phone:           sig.ClientPhone,
		Email:           sig.ClientEmail,
		Source:          source,
	}

	target, err := r.matcher.Match(ctx, cand)
	if err != nil {
		return nil, false, err
	}
	created := target == nil
	if created {
		target = model.NewClient(uuid.New().String())
		target.CreatedAt = r.now()
	}

	MergeSignal(target, sig, source, r.now(), r.horizon)

	saved, err := r.store.Upsert(ctx, target)
	if err != nil {
		return nil, false, eris.Wrap(err, "resolve: upsert client")
	}
	return saved, created, nil
}

// ResolveTable resolves every row of an ingested table. Records run to
// completion one at a time; a failure on one record is counted and the job
// continues with the next. Rows with no usable cells at all are skipped.
func (r *Resolver) ResolveTable(ctx context.Context, t ingest.Table) Summary {
	summary := Summary{Source: t.Source, Sheet: t.Sheet}

	for _, cand := range ingest.InferCandidates(t) {
		if emptyCandidate(cand) {
			summary.Skipped++
			continue
		}

		_, created, err := r.ResolveCandidate(ctx, cand)
		if err != nil {
			summary.Failed++
			zap.L().Error("resolve: record failed",
				zap.String("source", t.Source),
				zap.String("sheet", t.Sheet),
				zap.Int("row", cand.Row),
				zap.Error(err),
			)
			continue
		}
		if created {
			summary.Created++
		} else {
			summary.Updated++
		}
	}

	zap.L().Info("resolve: table complete",
		zap.String("source", t.Source),
		zap.String("sheet", t.Sheet),
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	return summary
}

// emptyCandidate reports whether a candidate carries nothing beyond its
// synthesized provenance. Spreadsheet padding rows, including rows of
// exported NaN markers, would otherwise mint placeholder entities on
// every import.
func emptyCandidate(cand model.CandidateRecord) bool {
	if !cand.PlaceholderName || cand.Phone != "" || cand.Email != "" {
		return false
	}
	for _, v := range cand.Raw {
		if !ingest.IsBlank(v) {
			return false
		}
	}
	return true
}
