package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockTerm/internal/domain/models"
	drepo "StockTerm/internal/domain/repository"
	"StockTerm/internal/services/portfolio"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortfolioAddLotAndValue(t *testing.T) {
	ctx := context.Background()
	repo := newHoldingsRepo()
	book := newBook()
	events := &fakeEvents{}
	uc := NewPortfolioUseCase(repo, book, events, nopMetrics, nil)

	book.Put([]models.Quote{{Symbol: "TCS.NS", Name: "Tata Consultancy", Price: 120, PreviousClose: 110}}, time.Now())

	_, err := uc.AddLot(ctx, AddLotInput{Symbol: "tcs.ns", Shares: 10, Price: 100})
	require.NoError(t, err)
	h, err := uc.AddLot(ctx, AddLotInput{Symbol: "TCS.NS", Shares: 10, Price: 80})
	require.NoError(t, err)

	assert.Equal(t, 20.0, h.Shares)
	assert.InDelta(t, 90.0, h.AvgCost, 1e-9)
	assert.Equal(t, "Tata Consultancy", h.Name)
	assert.Equal(t, 120.0, h.CurrentPrice)
	require.Len(t, h.Lots, 2)

	v, err := uc.Valuation(ctx)
	require.NoError(t, err)
	require.Len(t, v.Holdings, 1)
	assert.InDelta(t, 2400, v.Summary.TotalEquity, 1e-9)
	assert.InDelta(t, 1800, v.Summary.InvestedCapital, 1e-9)
	assert.InDelta(t, 200, v.Summary.DayPL, 1e-9)
	assert.Equal(t, models.PriceSourceLive, v.Holdings[0].PriceSource)

	require.Len(t, events.events, 2)
	assert.Equal(t, models.EventLotAdded, events.events[0].Type)
}

func TestPortfolioAddLotRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	repo := newHoldingsRepo()
	uc := NewPortfolioUseCase(repo, newBook(), nil, nopMetrics, nil)

	tests := []struct {
		name string
		in   AddLotInput
		want error
	}{
		{name: "zero shares", in: AddLotInput{Symbol: "A", Shares: 0, Price: 1}, want: portfolio.ErrInvalidShares},
		{name: "negative shares", in: AddLotInput{Symbol: "A", Shares: -1, Price: 1}, want: portfolio.ErrInvalidShares},
		{name: "negative price", in: AddLotInput{Symbol: "A", Shares: 1, Price: -1}, want: portfolio.ErrInvalidPrice},
		{name: "blank symbol", in: AddLotInput{Symbol: "  ", Shares: 1, Price: 1}, want: portfolio.ErrInvalidSymbol},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.AddLot(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	hs, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, hs)
}

func TestPortfolioRemoveHolding(t *testing.T) {
	ctx := context.Background()
	repo := newHoldingsRepo()
	events := &fakeEvents{}
	uc := NewPortfolioUseCase(repo, newBook(), events, nopMetrics, nil)

	_, err := uc.AddLot(ctx, AddLotInput{Symbol: "INFY.NS", Shares: 5, Price: 1500})
	require.NoError(t, err)

	assert.ErrorIs(t, uc.RemoveHolding(ctx, "WIPRO.NS"), drepo.ErrNotFound)
	require.NoError(t, uc.RemoveHolding(ctx, "infy.ns"))

	hs, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, hs)
	require.Len(t, events.events, 2)
	assert.Equal(t, models.EventHoldingRemoved, events.events[1].Type)
}

func TestPortfolioEventFailureDoesNotFailWrite(t *testing.T) {
	ctx := context.Background()
	repo := newHoldingsRepo()
	uc := NewPortfolioUseCase(repo, newBook(), &fakeEvents{err: errors.New("broker down")}, nopMetrics, nil)

	_, err := uc.AddLot(ctx, AddLotInput{Symbol: "A", Shares: 1, Price: 1})
	require.NoError(t, err)
	hs, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, hs, 1)
}

func TestPortfolioStoreErrorsPropagate(t *testing.T) {
	uc := NewPortfolioUseCase(failingRepo{}, newBook(), nil, nopMetrics, nil)

	_, err := uc.Valuation(context.Background())
	assert.Error(t, err)
	_, err = uc.AddLot(context.Background(), AddLotInput{Symbol: "A", Shares: 1, Price: 1})
	assert.Error(t, err)
}

func TestPortfolioValuationFallsBackWithoutQuotes(t *testing.T) {
	ctx := context.Background()
	repo := newHoldingsRepo()
	require.NoError(t, repo.Save(ctx, []models.Holding{{Symbol: "OLD.NS", Shares: 4, AvgCost: 25}}))

	uc := NewPortfolioUseCase(repo, newBook(), nil, nopMetrics, nil)
	v, err := uc.Valuation(ctx)
	require.NoError(t, err)
	require.Len(t, v.Holdings, 1)

	d := v.Holdings[0]
	assert.Equal(t, models.PriceSourceCost, d.PriceSource)
	assert.Equal(t, 0.0, d.UnrealizedPL)
	assert.False(t, d.HasDayPL)
	require.Len(t, d.Lots, 1, "legacy record is normalized to one lot")
}
