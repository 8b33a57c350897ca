// Package followup derives the time-ordered action queue from client
// entities carrying a next-follow-up date.
package followup

import (
	"context"
	"sort"
	"time"

	"github.com/rotisserie/eris"

	"github.com/boutique-crm/clientele-cli/internal/model"
)

// Lister is the slice of the store the queue builder needs.
type Lister interface {
	ListWithFollowUp(ctx context.Context) ([]model.Client, error)
}

// BucketFor classifies a due time against now. A due time strictly in the
// past is overdue even when it falls on today's calendar date.
func BucketFor(due, now time.Time) model.FollowUpBucket {
	if due.Before(now) {
		return model.BucketOverdue
	}
	dueDay := due.In(now.Location())
	switch {
	case sameDay(dueDay, now):
		return model.BucketDueToday
	case sameDay(dueDay, now.AddDate(0, 0, 1)):
		return model.BucketDueTomorrow
	default:
		return model.BucketUpcoming
	}
}

// Build recomputes the follow-up queue from current entity state. The
// queue holds no state of its own; it is rebuilt in full on every request
// rather than incrementally patched.
func Build(ctx context.Context, lister Lister, now time.Time) ([]model.FollowUpTask, error) {
	clients, err := lister.ListWithFollowUp(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "followup: list clients")
	}

	tasks := make([]model.FollowUpTask, 0, len(clients))
	for i := range clients {
		c := &clients[i]
		if !c.HasFollowUp() {
			continue
		}
		due := *c.NextFollowUp
		bucket := BucketFor(due, now)
		tasks = append(tasks, model.FollowUpTask{
			ClientID:     c.ID,
			Name:         c.Name,
			Phone:        c.Phone,
			Due:          due,
			Bucket:       bucket,
			UrgencyScore: c.UrgencyScore,
			DealValue:    c.DealValue,
			NextAction:   nextAction(bucket, c),
		})
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if ra, rb := a.Bucket.Rank(), b.Bucket.Rank(); ra != rb {
			return ra < rb
		}
		if a.UrgencyScore != b.UrgencyScore {
			return a.UrgencyScore > b.UrgencyScore
		}
		if a.DealValue != b.DealValue {
			return a.DealValue > b.DealValue
		}
		return a.Due.Before(b.Due)
	})
	return tasks, nil
}

// nextAction renders the suggested action text for a task.
func nextAction(bucket model.FollowUpBucket, c *model.Client) string {
	switch bucket {
	case model.BucketOverdue:
		return "Call immediately: follow-up is overdue"
	case model.BucketDueToday:
		if c.Priority == model.PriorityVIP || c.Priority == model.PriorityCritical {
			return "Priority contact due today"
		}
		return "Contact due today"
	case model.BucketDueTomorrow:
		return "Prepare outreach for tomorrow"
	default:
		return "Scheduled check-in"
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
