package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"library-catalog-service/internal/domain"
)

func queries(entries []HistoryEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Query
	}
	return out
}

func TestHistoryService_RecordAndRecent(t *testing.T) {
	store := newMemoryStore()
	h := NewHistoryService(store, 3, time.Hour, zap.NewNop())
	ctx := context.Background()

	for _, q := range []string{"gestão", "python", "  ", "finanças"} {
		require.NoError(t, h.Record(ctx, "s1", q, domain.SearchFilters{}))
	}
	assert.Equal(t, []string{"finanças", "python", "gestão"}, queries(h.Recent(ctx, "s1")))

	// Re-searching moves the query to the front without duplicating it.
	require.NoError(t, h.Record(ctx, "s1", "GESTAO", domain.SearchFilters{Year: "2020"}))
	recent := h.Recent(ctx, "s1")
	assert.Equal(t, []string{"GESTAO", "finanças", "python"}, queries(recent))
	assert.Equal(t, "2020", recent[0].Filters.Year)

	// Capped at the limit.
	require.NoError(t, h.Record(ctx, "s1", "direito", domain.SearchFilters{}))
	assert.Equal(t, []string{"direito", "GESTAO", "finanças"}, queries(h.Recent(ctx, "s1")))

	assert.Equal(t, time.Hour, store.ttls["history:s1"])
	assert.Empty(t, h.Recent(ctx, "other"))
}

func TestHistoryService_Clear(t *testing.T) {
	h := NewHistoryService(newMemoryStore(), 0, 0, zap.NewNop())
	ctx := context.Background()

	for i := range 12 {
		require.NoError(t, h.Record(ctx, "s1", fmt.Sprintf("q%d", i), domain.SearchFilters{}))
	}
	assert.Len(t, h.Recent(ctx, "s1"), DefaultHistoryLimit)

	require.NoError(t, h.Clear(ctx, "s1"))
	assert.Empty(t, h.Recent(ctx, "s1"))
}

func TestHistoryService_ClearAll(t *testing.T) {
	h := NewHistoryService(newMemoryStore(), 5, 0, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, h.Record(ctx, "s1", "gestão", domain.SearchFilters{}))
	require.NoError(t, h.Record(ctx, "s2", "python", domain.SearchFilters{}))

	require.NoError(t, h.ClearAll(ctx))
	assert.Empty(t, h.Recent(ctx, "s1"))
	assert.Empty(t, h.Recent(ctx, "s2"))
}

func TestHistoryService_DegradesWhenStoreFails(t *testing.T) {
	store := newMemoryStore()
	h := NewHistoryService(store, 5, time.Hour, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, h.Record(ctx, "s1", "gestão", domain.SearchFilters{}))
	store.broken = true

	recent := h.Recent(ctx, "s1")
	assert.NotNil(t, recent)
	assert.Empty(t, recent)

	assert.Error(t, h.Record(ctx, "s1", "python", domain.SearchFilters{}))
	assert.Error(t, h.Clear(ctx, "s1"))
}

func TestHistoryService_CorruptDataIsDiscarded(t *testing.T) {
	store := newMemoryStore()
	store.data["history:s1"] = []byte("not json")
	h := NewHistoryService(store, 5, time.Hour, zap.NewNop())

	assert.Empty(t, h.Recent(context.Background(), "s1"))
	require.NoError(t, h.Record(context.Background(), "s1", "x", domain.SearchFilters{}))
	assert.Equal(t, []string{"x"}, queries(h.Recent(context.Background(), "s1")))
}
