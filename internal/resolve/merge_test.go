package resolve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boutique-crm/clientele-cli/internal/model"
)

var mergeNow = time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

func TestMergeCandidate(t *testing.T) {
	t.Parallel()

	t.Run("non-empty fields replace target", func(t *testing.T) {
		t.Parallel()
		target := model.NewClient("c1")
		target.Name = "Old Name"

		MergeCandidate(target, model.CandidateRecord{
			Name:   "Ahmed Hassan",
			Phone:  "+971 50-123-4567",
			Email:  "ahmed@example.com",
			Source: "vip_list",
		}, mergeNow)

		assert.Equal(t, "Ahmed Hassan", target.Name)
		assert.Equal(t, "+971 50-123-4567", target.Phone)
		assert.Equal(t, "+971501234567", target.PhoneNormalized)
		assert.Equal(t, "ahmed@example.com", target.Email)
		assert.Equal(t, "vip_list", target.Source)
		assert.Equal(t, mergeNow, target.UpdatedAt)
	})

	t.Run("empty fields never erase", func(t *testing.T) {
		t.Parallel()
		target := model.NewClient("c1")
		target.Name = "Ahmed Hassan"
		target.Email = "ahmed@example.com"
		target.Notes = "existing notes"

		MergeCandidate(target, model.CandidateRecord{Phone: "0501234567"}, mergeNow)

		assert.Equal(t, "Ahmed Hassan", target.Name)
		assert.Equal(t, "ahmed@example.com", target.Email)
		assert.Equal(t, "existing notes", target.Notes)
	})

	t.Run("placeholder name never overwrites a real one", func(t *testing.T) {
		t.Parallel()
		target := model.NewClient("c1")
		target.Name = "Ahmed Hassan"

		MergeCandidate(target, model.CandidateRecord{
			Name:            "vip_list_Record_3",
			PlaceholderName: true,
		}, mergeNow)

		assert.Equal(t, "Ahmed Hassan", target.Name)
	})

	t.Run("placeholder name fills a blank one", func(t *testing.T) {
		t.Parallel()
		target := model.NewClient("c1")

		MergeCandidate(target, model.CandidateRecord{
			Name:            "vip_list_Record_3",
			PlaceholderName: true,
		}, mergeNow)

		assert.Equal(t, "vip_list_Record_3", target.Name)
	})
}

func TestMergeSignal(t *testing.T) {
	t.Parallel()

	sig := model.InteractionSignal{
		ClientName:          "Fatima Al-Rashid",
		ClientPhone:         "+971501234567",
		CollectionInterests: []string{"Nautilus"},
		TimepieceReferences: []string{"5711/1A"},
		BudgetRange:         "50k-100k",
		UrgencyLevel:        model.UrgencyUrgent,
		Sentiment:           model.SentimentPositive,
		PurchaseIntent:      model.IntentConfirmed,
		FollowUpRequired:    true,
		FollowUpDate:        "2026-09-03",
		Notes:               "Wants the steel version.",
	}

	t.Run("recomputes priority, status, urgency", func(t *testing.T) {
		t.Parallel()
		target := model.NewClient("c1")
		MergeSignal(target, sig, "whatsapp", mergeNow, DefaultFollowUpHorizon)

		assert.Equal(t, model.PriorityVIP, target.Priority)
		assert.Equal(t, model.StatusActive, target.Status)
		assert.Equal(t, 9, target.UrgencyScore)
		assert.Equal(t, "Fatima Al-Rashid", target.Name)
		assert.Equal(t, "+971501234567", target.WhatsAppNumber)
		require.NotNil(t, target.LastContact)
		assert.Equal(t, mergeNow, *target.LastContact)
	})

	t.Run("follow-up date from signal", func(t *testing.T) {
		t.Parallel()
		target := model.NewClient("c1")
		MergeSignal(target, sig, "whatsapp", mergeNow, DefaultFollowUpHorizon)

		require.NotNil(t, target.NextFollowUp)
		assert.Equal(t, time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC), *target.NextFollowUp)
	})

	t.Run("follow-up horizon when no date suggested", func(t *testing.T) {
		t.Parallel()
		s := sig
		s.FollowUpDate = ""
		target := model.NewClient("c1")
		MergeSignal(target, s, "whatsapp", mergeNow, DefaultFollowUpHorizon)

		require.NotNil(t, target.NextFollowUp)
		assert.Equal(t, mergeNow.Add(DefaultFollowUpHorizon), *target.NextFollowUp)
	})

	t.Run("configured horizon overrides the default", func(t *testing.T) {
		t.Parallel()
		s := sig
		s.FollowUpDate = ""
		target := model.NewClient("c1")
		MergeSignal(target, s, "whatsapp", mergeNow, 7*24*time.Hour)

		require.NotNil(t, target.NextFollowUp)
		assert.Equal(t, mergeNow.Add(7*24*time.Hour), *target.NextFollowUp)
	})

	t.Run("non-positive horizon falls back to default", func(t *testing.T) {
		t.Parallel()
		s := sig
		s.FollowUpDate = ""
		target := model.NewClient("c1")
		MergeSignal(target, s, "whatsapp", mergeNow, 0)

		require.NotNil(t, target.NextFollowUp)
		assert.Equal(t, mergeNow.Add(DefaultFollowUpHorizon), *target.NextFollowUp)
	})

	t.Run("no follow-up requested leaves schedule alone", func(t *testing.T) {
		t.Parallel()
		s := sig
		s.FollowUpRequired = false
		target := model.NewClient("c1")
		MergeSignal(target, s, "whatsapp", mergeNow, DefaultFollowUpHorizon)

		assert.Nil(t, target.NextFollowUp)
	})

	t.Run("unknown client name never overwrites", func(t *testing.T) {
		t.Parallel()
		s := sig
		s.ClientName = model.UnknownClientName
		target := model.NewClient("c1")
		target.Name = "Ahmed Hassan"
		MergeSignal(target, s, "whatsapp", mergeNow, DefaultFollowUpHorizon)

		assert.Equal(t, "Ahmed Hassan", target.Name)
	})

	t.Run("interests union is deduplicated", func(t *testing.T) {
		t.Parallel()
		target := model.NewClient("c1")
		target.Interests = []string{"Nautilus", "Royal Oak"}
		MergeSignal(target, sig, "whatsapp", mergeNow, DefaultFollowUpHorizon)

		assert.Equal(t, []string{"Nautilus", "Royal Oak", "5711/1A"}, target.Interests)
	})

	t.Run("re-merging the same signal is idempotent", func(t *testing.T) {
		t.Parallel()
		target := model.NewClient("c1")
		MergeSignal(target, sig, "whatsapp", mergeNow, DefaultFollowUpHorizon)
		first := *target
		firstInterests := append([]string(nil), target.Interests...)

		MergeSignal(target, sig, "whatsapp", mergeNow, DefaultFollowUpHorizon)
		assert.Equal(t, first.Notes, target.Notes)
		assert.Equal(t, firstInterests, target.Interests)
		assert.Equal(t, first.Priority, target.Priority)
	})
}

func TestApplyOverride(t *testing.T) {
	t.Parallel()

	deal := 85000.0
	due := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	target := model.NewClient("c1")
	target.Priority = model.PriorityLow

	ApplyOverride(target, Override{
		Priority:     model.PriorityVIP,
		Status:       model.StatusVIP,
		DealValue:    &deal,
		NextFollowUp: &due,
		Note:         "Personal shopper request.",
	}, mergeNow)

	assert.Equal(t, model.PriorityVIP, target.Priority)
	assert.Equal(t, model.StatusVIP, target.Status)
	assert.Equal(t, 85000.0, target.DealValue)
	require.NotNil(t, target.NextFollowUp)
	assert.Equal(t, due, *target.NextFollowUp)
	assert.Equal(t, "Personal shopper request.", target.Notes)
}

func TestUnionStrings(t *testing.T) {
	t.Parallel()

	t.Run("case-insensitive dedup keeps existing spelling", func(t *testing.T) {
		t.Parallel()
		got := unionStrings([]string{"Nautilus"}, []string{"nautilus", "Daytona"})
		assert.Equal(t, []string{"Nautilus", "Daytona"}, got)
	})

	t.Run("additions are sorted", func(t *testing.T) {
		t.Parallel()
		got := unionStrings(nil, []string{"Zenith", "Aquanaut"})
		assert.Equal(t, []string{"Aquanaut", "Zenith"}, got)
	})

	t.Run("blank entries dropped", func(t *testing.T) {
		t.Parallel()
		got := unionStrings([]string{"", "Nautilus"}, []string{"  "})
		assert.Equal(t, []string{"Nautilus"}, got)
	})
}

func TestParseFollowUpDate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC), parseFollowUpDate("2026-09-03"))
	assert.False(t, parseFollowUpDate("2026-09-03T15:00:00Z").IsZero())
	assert.False(t, parseFollowUpDate("2026-09-03 15:00:00").IsZero())
	assert.True(t, parseFollowUpDate("next tuesday").IsZero())
	assert.True(t, parseFollowUpDate("").IsZero())
}
