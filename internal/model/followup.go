package model

import "time"

// FollowUpBucket groups follow-up tasks by how soon they are due.
type FollowUpBucket string

const (
	BucketOverdue     FollowUpBucket = "overdue"
	BucketDueToday    FollowUpBucket = "due_today"
	BucketDueTomorrow FollowUpBucket = "due_tomorrow"
	BucketUpcoming    FollowUpBucket = "upcoming"
)

// Rank orders buckets for sorting; earlier buckets sort first.
func (b FollowUpBucket) Rank() int {
	switch b {
	case BucketOverdue:
		return 0
	case BucketDueToday:
		return 1
	case BucketDueTomorrow:
		return 2
	default:
		return 3
	}
}

// FollowUpTask is a derived scheduling unit. It has no independent identity
// or lifecycle: the queue is recomputed from client entities on every
// request.
type FollowUpTask struct {
	ClientID     string         `json:"client_id"`
	Name         string         `json:"name"`
	Phone        string         `json:"phone,omitempty"`
	Due          time.Time      `json:"due"`
	Bucket       FollowUpBucket `json:"bucket"`
	UrgencyScore int            `json:"urgency_score"`
	DealValue    float64        `json:"deal_value"`
	NextAction   string         `json:"next_action"`
}
