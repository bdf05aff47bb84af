package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	entries map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string]string)}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, bool) {
	v, ok := m.entries[key]
	return v, ok
}

func (m *memoryStore) Set(_ context.Context, key, value string, _ time.Duration) {
	m.entries[key] = value
}

func (m *memoryStore) Del(_ context.Context, keys ...string) {
	for _, k := range keys {
		delete(m.entries, k)
	}
}

type payload struct {
	Count int    `json:"count"`
	Name  string `json:"name"`
}

func TestJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()

	SetJSON(ctx, store, "k", payload{Count: 3, Name: "flour"}, time.Minute)

	var got payload
	require.True(t, GetJSON(ctx, store, "k", &got))
	assert.Equal(t, payload{Count: 3, Name: "flour"}, got)
}

func TestGetJSONMissReturnsFalse(t *testing.T) {
	var got payload
	assert.False(t, GetJSON(context.Background(), newMemoryStore(), "missing", &got))
}

func TestGetJSONDiscardsCorruptEntry(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	store.entries["k"] = `{not json`

	var got payload
	assert.False(t, GetJSON(ctx, store, "k", &got))

	_, ok := store.entries["k"]
	assert.False(t, ok, "corrupt entry removed")
}

func TestInvalidateInventoryDropsDerivedKeys(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()

	store.entries[KeyStockSummary] = `[]`
	for _, p := range StatsPeriods {
		store.entries[KeyDashboardStats(p)] = `{}`
	}
	store.entries["session:abc"] = "keep"

	InvalidateInventory(ctx, store)

	_, ok := store.entries[KeyStockSummary]
	assert.False(t, ok)
	for _, p := range StatsPeriods {
		_, ok := store.entries[KeyDashboardStats(p)]
		assert.False(t, ok, "period %s", p)
	}
	assert.Equal(t, "keep", store.entries["session:abc"])
}

func TestStatsKeyIsParameterizedByPeriod(t *testing.T) {
	assert.Equal(t, "dashboard:stats:today", KeyDashboardStats("today"))
	assert.NotEqual(t, KeyDashboardStats("week"), KeyDashboardStats("month"))
}
