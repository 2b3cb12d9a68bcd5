package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockTerm/internal/domain/models"
	drepo "StockTerm/internal/domain/repository"
	"StockTerm/internal/repository"
	"StockTerm/internal/service/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteBookExpires(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	c := cache.NewTTLCacheWithClock(func() time.Time { return now })
	book := NewQuoteBook(c, time.Minute)

	book.Put([]models.Quote{{Symbol: "B", Price: 2}, {Symbol: "A", Price: 1}, {Symbol: ""}}, now)
	all := book.All()
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].Symbol)
	assert.Equal(t, now, book.UpdatedAt())

	now = now.Add(2 * time.Minute)
	_, ok := book.Get("A")
	assert.False(t, ok)
	assert.Empty(t, book.All())
}

func TestQuotesUseCaseGet(t *testing.T) {
	ctx := context.Background()
	book := newBook()
	book.Put([]models.Quote{{Symbol: "TCS.NS", Price: 3500}}, time.Now())
	prov := &fakeProvider{single: map[string]models.Quote{"ZOMATO.NS": {Symbol: "ZOMATO.NS", Price: 200}}}
	uc := NewQuotesUseCase(book, prov)

	q, err := uc.Get(ctx, " tcs.ns ")
	require.NoError(t, err)
	assert.Equal(t, 3500.0, q.Price)
	assert.Empty(t, prov.singles, "book hit must not reach the provider")

	q, err = uc.Get(ctx, "ZOMATO.NS")
	require.NoError(t, err)
	assert.Equal(t, 200.0, q.Price)

	_, err = uc.Get(ctx, "NOPE.NS")
	assert.ErrorIs(t, err, drepo.ErrNotFound)
	_, err = uc.Get(ctx, "")
	assert.ErrorIs(t, err, drepo.ErrNotFound)

	list := uc.List()
	assert.Equal(t, 1, list.Count)
}

func TestRefresherFillsBookAndHistory(t *testing.T) {
	ctx := context.Background()
	repo := newHoldingsRepo()
	require.NoError(t, repo.Save(ctx, []models.Holding{{Symbol: "HELD.NS", Shares: 2, AvgCost: 10}}))

	prov := &fakeProvider{
		quotes: []models.Quote{{Symbol: "TCS.NS", Price: 3500, PreviousClose: 3400}},
		single: map[string]models.Quote{"HELD.NS": {Symbol: "HELD.NS", Price: 12}},
	}
	book := newBook()
	hist := repository.NewMemoryQuoteHistory(10)
	bc := &recordingBroadcaster{}

	r := NewQuoteRefresher(prov, book, repo, hist, nopMetrics, nil, nil)
	r.SetBroadcaster(bc)
	require.NoError(t, r.Run(ctx))

	_, ok := book.Get("TCS.NS")
	assert.True(t, ok)
	held, ok := book.Get("HELD.NS")
	require.True(t, ok)
	assert.Equal(t, 12.0, held.Price)
	assert.Equal(t, []string{"HELD.NS"}, prov.singles)

	snaps, err := hist.Query(ctx, "TCS.NS", time.Now().Add(-time.Hour), time.Now().Add(time.Hour), 10)
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
	assert.Equal(t, 1, bc.calls)
	assert.Len(t, bc.quotes, 2)
}

func TestRefresherFailureLeavesBookUntouched(t *testing.T) {
	ctx := context.Background()
	book := newBook()
	before := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	book.Put([]models.Quote{{Symbol: "TCS.NS", Price: 1}}, before)

	prov := &fakeProvider{err: errors.New("upstream 503")}
	bc := &recordingBroadcaster{}
	r := NewQuoteRefresher(prov, book, nil, nil, nopMetrics, nil, nil)
	r.SetBroadcaster(bc)

	require.NoError(t, r.Run(ctx))
	q, ok := book.Get("TCS.NS")
	require.True(t, ok)
	assert.Equal(t, 1.0, q.Price)
	assert.Equal(t, before, book.UpdatedAt())
	assert.Zero(t, bc.calls)
}

func TestRefresherIsIdempotent(t *testing.T) {
	ctx := context.Background()
	prov := &fakeProvider{quotes: []models.Quote{{Symbol: "A", Price: 1}, {Symbol: "B", Price: 2}}}
	book := newBook()
	r := NewQuoteRefresher(prov, book, nil, nil, nopMetrics, nil, nil)

	require.NoError(t, r.Run(ctx))
	first := book.All()
	require.NoError(t, r.Run(ctx))
	assert.Equal(t, first, book.All())
	assert.Equal(t, "quote_refresh", r.Name())
}
