package repository

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"StockTerm/internal/domain/models"
	"StockTerm/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoldingsRepositoryFirstRunIsEmpty(t *testing.T) {
	repo := NewStoreHoldingsRepository(store.NewMemoryStore())

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestHoldingsRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	repo := NewStoreHoldingsRepository(s)

	in := []models.Holding{{
		Symbol:  "TCS.NS",
		Name:    "Tata Consultancy Services",
		Shares:  10,
		AvgCost: 3500,
		Lots:    []models.Lot{{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Shares: 10, Price: 3500}},
	}}
	require.NoError(t, repo.Save(ctx, in))

	raw, ok, err := s.Get(ctx, HoldingsKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(raw, "["))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestHoldingsRepositoryCorruptValue(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	require.NoError(t, s.Set(ctx, HoldingsKey, "{not json"))

	_, err := NewStoreHoldingsRepository(s).Load(ctx)
	assert.ErrorIs(t, err, store.ErrCorrupt)
}

func TestShortcutsRepositoryDefaults(t *testing.T) {
	ctx := context.Background()
	repo := NewStoreShortcutsRepository(store.NewMemoryStore())

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultShortcuts, got)

	// Callers editing the result must not change the defaults.
	got[0].Key = "9"
	assert.Equal(t, "1", DefaultShortcuts[0].Key)

	custom := []models.Shortcut{{Action: "OPEN_SEARCH", Key: "k", Ctrl: true}}
	require.NoError(t, repo.Save(ctx, custom))
	got, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, custom, got)

	// An explicitly empty list is kept, not replaced by defaults.
	require.NoError(t, repo.Save(ctx, nil))
	got, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBuildInsertSkipsInvalidRows(t *testing.T) {
	q, args := buildInsert("stockterm.quote_snapshots", []models.QuoteSnapshot{
		{Symbol: "TCS.NS", Timestamp: 1700000000000, Price: 3500, PreviousClose: 3490, Volume: 1e6},
		{Symbol: "", Timestamp: 1700000000000},
		{Symbol: "INFY.NS", Timestamp: 0},
	})
	assert.Contains(t, q, "INSERT INTO stockterm.quote_snapshots")
	assert.Equal(t, 1, strings.Count(q, "(?, ?, ?, ?, ?)"))
	require.Len(t, args, 5)
	assert.Equal(t, "TCS.NS", args[1])

	q, args = buildInsert("t", nil)
	assert.Empty(t, q)
	assert.Nil(t, args)
}

func TestSchemaAndSelectUseTable(t *testing.T) {
	stmts := SchemaStatements("db.snap")
	require.Len(t, stmts, 1)
	assert.Contains(t, stmts[0], "CREATE TABLE IF NOT EXISTS db.snap")
	assert.Contains(t, buildSelect("db.snap"), "FROM db.snap")
	assert.Contains(t, buildSelect("db.snap"), "ORDER BY ts DESC")
}

func TestMemoryQuoteHistory(t *testing.T) {
	ctx := context.Background()
	h := NewMemoryQuoteHistory(3)
	for i := int64(1); i <= 5; i++ {
		require.NoError(t, h.Append(ctx, []models.QuoteSnapshot{{Symbol: "A", Timestamp: i * 1000, Price: float64(i)}}))
	}

	got, err := h.Query(ctx, "A", time.UnixMilli(0), time.UnixMilli(10_000), 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 5.0, got[0].Price)
	assert.Equal(t, 3.0, got[2].Price)

	got, err = h.Query(ctx, "A", time.UnixMilli(0), time.UnixMilli(10_000), 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = h.Query(ctx, "B", time.UnixMilli(0), time.UnixMilli(10_000), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

type capturePublisher struct {
	topic string
	key   []byte
	value interface{}
}

func (c *capturePublisher) Publish(_ context.Context, topic string, key []byte, value interface{}) error {
	c.topic, c.key, c.value = topic, key, value
	return nil
}

func (c *capturePublisher) Close() error { return nil }

func TestKafkaEventPublisherKeysBySymbol(t *testing.T) {
	cp := &capturePublisher{}
	p := NewKafkaEventPublisher(cp, "stockterm.holdings")

	ev := models.HoldingEvent{Type: models.EventHoldingRemoved, Symbol: "INFY.NS", At: 1}
	require.NoError(t, p.PublishHoldingEvent(context.Background(), ev))
	assert.Equal(t, "stockterm.holdings", cp.topic)
	assert.Equal(t, "INFY.NS", string(cp.key))

	b, err := json.Marshal(cp.value)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"holding_removed","symbol":"INFY.NS","at":1}`, string(b))
}
