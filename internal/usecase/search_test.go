package usecase

import (
	"context"
	"testing"
	"time"

	"StockTerm/internal/domain/models"
	drepo "StockTerm/internal/domain/repository"
	"StockTerm/internal/services/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLookup struct {
	entry models.CatalogEntry
	err   error
}

func (s stubLookup) Search(context.Context, string) (models.CatalogEntry, error) {
	return s.entry, s.err
}

func newMatcher(t *testing.T) *search.Matcher {
	t.Helper()
	m, err := search.NewMatcher(search.NewStaticCatalog(search.DefaultEntries))
	require.NoError(t, err)
	return m
}

func TestSearchUseCaseSearch(t *testing.T) {
	uc := NewSearchUseCase(newMatcher(t), nil, nopMetrics, nil, 0)

	res := uc.Search("reliance")
	assert.Equal(t, search.StateLocalHit, res.State)
	assert.Equal(t, "RELIANCE.NS", res.Candidates[0].Symbol)

	assert.Equal(t, search.StateEmpty, uc.Search("").State)
}

func TestSearchUseCaseLookup(t *testing.T) {
	ctx := context.Background()

	uc := NewSearchUseCase(newMatcher(t), nil, nopMetrics, nil, 0)
	_, err := uc.Lookup(ctx, "zomato")
	assert.ErrorIs(t, err, drepo.ErrNotFound)

	want := models.CatalogEntry{Symbol: "ZOMATO.NS", Name: "ZOMATO", Sector: "N/A"}
	uc = NewSearchUseCase(newMatcher(t), stubLookup{entry: want}, nopMetrics, nil, 0)
	got, err := uc.Lookup(ctx, "zomato")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = uc.Lookup(ctx, "   ")
	assert.ErrorIs(t, err, drepo.ErrNotFound)
}

func TestSearchUseCaseSessionUsesDebounce(t *testing.T) {
	var gotDelay time.Duration
	after := func(d time.Duration, f func()) search.Timer {
		gotDelay = d
		return time.AfterFunc(time.Hour, f)
	}
	uc := NewSearchUseCase(newMatcher(t), stubLookup{err: drepo.ErrNotFound}, nopMetrics, nil, 250*time.Millisecond)

	updates := make(chan search.Update, 4)
	s := uc.NewSession(context.Background(), func(u search.Update) { updates <- u }, search.WithAfterFunc(after))
	defer s.Close()

	s.Type("xqzvw")
	u := <-updates
	assert.Equal(t, search.PhaseWaiting, u.Phase)
	assert.Equal(t, 250*time.Millisecond, gotDelay)
}
