package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boutique-crm/clientele-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testClient(id, name, phone string) *model.Client {
	c := model.NewClient(id)
	c.Name = name
	c.Phone = phone
	c.PhoneNormalized = phone
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	return c
}

func TestSQLite_UpsertAndGet(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	c := testClient("c1", "Ahmed Hassan", "+971501234567")
	c.Interests = []string{"Overseas", "Patrimony"}
	c.Priority = model.PriorityHigh
	c.UrgencyScore = 7
	due := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
	c.NextFollowUp = &due

	_, err := st.Upsert(ctx, c)
	require.NoError(t, err)

	got, err := st.GetClient(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Ahmed Hassan", got.Name)
	assert.Equal(t, "+971501234567", got.PhoneNormalized)
	assert.Equal(t, []string{"Overseas", "Patrimony"}, got.Interests)
	assert.Equal(t, model.PriorityHigh, got.Priority)
	assert.Equal(t, 7, got.UrgencyScore)
	require.NotNil(t, got.NextFollowUp)
	assert.True(t, due.Equal(*got.NextFollowUp))
}

func TestSQLite_UpsertReplacesExisting(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	c := testClient("c1", "Ahmed Hassan", "+971501234567")
	_, err := st.Upsert(ctx, c)
	require.NoError(t, err)

	c.Name = "Ahmed H. Hassan"
	c.Priority = model.PriorityVIP
	_, err = st.Upsert(ctx, c)
	require.NoError(t, err)

	got, err := st.GetClient(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Ahmed H. Hassan", got.Name)
	assert.Equal(t, model.PriorityVIP, got.Priority)

	clients, err := st.ListClients(ctx, ClientFilter{})
	require.NoError(t, err)
	assert.Len(t, clients, 1)
}

func TestSQLite_GetClientMissing(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetClient(context.Background(), "missing")
	assert.Error(t, err)
}

func TestSQLite_FindByPhoneSuffix(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	c := testClient("c1", "Ahmed Hassan", "+971501234567")
	_, err := st.Upsert(ctx, c)
	require.NoError(t, err)

	t.Run("matches the indexed suffix", func(t *testing.T) {
		clients, err := st.FindByPhoneSuffix(ctx, "501234567")
		require.NoError(t, err)
		require.Len(t, clients, 1)
		assert.Equal(t, "c1", clients[0].ID)
	})

	t.Run("matches the whatsapp suffix", func(t *testing.T) {
		w := testClient("c2", "Fatima Al-Rashid", "")
		w.PhoneNormalized = ""
		w.WhatsAppNumber = "+971 52 987 6543"
		_, err := st.Upsert(ctx, w)
		require.NoError(t, err)

		clients, err := st.FindByPhoneSuffix(ctx, "529876543")
		require.NoError(t, err)
		require.Len(t, clients, 1)
		assert.Equal(t, "c2", clients[0].ID)
	})

	t.Run("no match", func(t *testing.T) {
		clients, err := st.FindByPhoneSuffix(ctx, "999999999")
		require.NoError(t, err)
		assert.Empty(t, clients)
	})

	t.Run("empty suffix", func(t *testing.T) {
		clients, err := st.FindByPhoneSuffix(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, clients)
	})
}

func TestSQLite_FindByNameExact(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	c := testClient("c1", "Ahmed Hassan", "")
	_, err := st.Upsert(ctx, c)
	require.NoError(t, err)

	t.Run("folded name matches", func(t *testing.T) {
		got, err := st.FindByNameExact(ctx, "ahmed hassan")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "c1", got.ID)
	})

	t.Run("no match returns nil without error", func(t *testing.T) {
		got, err := st.FindByNameExact(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("empty name returns nil", func(t *testing.T) {
		got, err := st.FindByNameExact(ctx, "")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestSQLite_ListClients(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	a := testClient("c1", "Ahmed Hassan", "")
	a.Status = model.StatusActive
	a.Priority = model.PriorityVIP
	b := testClient("c2", "Fatima Al-Rashid", "")
	b.Status = model.StatusProspect

	for _, c := range []*model.Client{a, b} {
		_, err := st.Upsert(ctx, c)
		require.NoError(t, err)
	}

	t.Run("no filter returns all", func(t *testing.T) {
		clients, err := st.ListClients(ctx, ClientFilter{})
		require.NoError(t, err)
		assert.Len(t, clients, 2)
	})

	t.Run("status filter", func(t *testing.T) {
		clients, err := st.ListClients(ctx, ClientFilter{Status: model.StatusActive})
		require.NoError(t, err)
		require.Len(t, clients, 1)
		assert.Equal(t, "c1", clients[0].ID)
	})

	t.Run("priority filter", func(t *testing.T) {
		clients, err := st.ListClients(ctx, ClientFilter{Priority: model.PriorityVIP})
		require.NoError(t, err)
		require.Len(t, clients, 1)
		assert.Equal(t, "c1", clients[0].ID)
	})

	t.Run("limit", func(t *testing.T) {
		clients, err := st.ListClients(ctx, ClientFilter{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, clients, 1)
	})
}

func TestSQLite_ListWithFollowUp(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	due := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
	later := due.AddDate(0, 0, 4)

	scheduled := testClient("c1", "Ahmed Hassan", "")
	scheduled.NextFollowUp = &later
	soonest := testClient("c2", "Fatima Al-Rashid", "")
	soonest.NextFollowUp = &due
	unscheduled := testClient("c3", "Omar Khalil", "")

	for _, c := range []*model.Client{scheduled, soonest, unscheduled} {
		_, err := st.Upsert(ctx, c)
		require.NoError(t, err)
	}

	clients, err := st.ListWithFollowUp(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	// Ordered by next_follow_up ascending.
	assert.Equal(t, "c2", clients[0].ID)
	assert.Equal(t, "c1", clients[1].ID)
}
