package portfolio

import (
	"testing"

	"StockTerm/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSingleHoldingWithLiveQuote(t *testing.T) {
	holdings := []models.Holding{{Symbol: "X", Name: "X Corp", Shares: 10, AvgCost: 100}}
	quotes := []models.Quote{{Symbol: "X", Price: 120, PreviousClose: 110}}

	v := Value(holdings, quotes)
	require.Len(t, v.Holdings, 1)

	d := v.Holdings[0]
	assert.Equal(t, 120.0, d.CurrentPrice)
	assert.Equal(t, models.PriceSourceLive, d.PriceSource)
	assert.InDelta(t, 1200, d.MarketValue, 1e-9)
	assert.InDelta(t, 1000, d.CostBasis, 1e-9)
	assert.InDelta(t, 200, d.UnrealizedPL, 1e-9)
	assert.InDelta(t, 20, d.UnrealizedPLPercent, 1e-9)
	assert.InDelta(t, 100, d.DayPL, 1e-9)

	s := v.Summary
	assert.InDelta(t, 1200, s.TotalEquity, 1e-9)
	assert.InDelta(t, 1000, s.InvestedCapital, 1e-9)
	assert.InDelta(t, 100, s.DayPL, 1e-9)
	assert.InDelta(t, 10, s.DayPLPercent, 1e-9)
	assert.InDelta(t, 200, s.NetPL, 1e-9)
	assert.InDelta(t, 20, s.NetPLPercent, 1e-9)
	assert.Equal(t, 1, s.HoldingsCount)
}

func TestResolvePricePrecedence(t *testing.T) {
	tests := []struct {
		name    string
		holding models.Holding
		quote   *models.Quote
		want    float64
		source  models.PriceSource
	}{
		{
			name:    "live quote wins",
			holding: models.Holding{CurrentPrice: 90, AvgCost: 80},
			quote:   &models.Quote{Price: 100},
			want:    100,
			source:  models.PriceSourceLive,
		},
		{
			name:    "zero live price falls through to stored",
			holding: models.Holding{CurrentPrice: 90, AvgCost: 80},
			quote:   &models.Quote{Price: 0},
			want:    90,
			source:  models.PriceSourceStored,
		},
		{
			name:    "no quote uses stored",
			holding: models.Holding{CurrentPrice: 90, AvgCost: 80},
			want:    90,
			source:  models.PriceSourceStored,
		},
		{
			name:    "nothing stored uses avg cost",
			holding: models.Holding{AvgCost: 80},
			want:    80,
			source:  models.PriceSourceCost,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, src := ResolvePrice(tt.holding, tt.quote)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.source, src)
		})
	}
}

func TestValueDayPLExcludesHoldingsWithoutPreviousClose(t *testing.T) {
	holdings := []models.Holding{
		{Symbol: "A", Shares: 10, AvgCost: 100},
		{Symbol: "B", Shares: 5, AvgCost: 50},
		{Symbol: "C", Shares: 2, AvgCost: 10, CurrentPrice: 12},
	}
	quotes := []models.Quote{
		{Symbol: "A", Price: 105, PreviousClose: 100},
		{Symbol: "B", Price: 60}, // no previous close
	}

	v := Value(holdings, quotes)

	assert.InDelta(t, 50, v.Summary.DayPL, 1e-9)
	assert.True(t, v.Holdings[0].HasDayPL)
	assert.False(t, v.Holdings[1].HasDayPL)
	assert.False(t, v.Holdings[2].HasDayPL)
	assert.Equal(t, models.PriceSourceStored, v.Holdings[2].PriceSource)
}

func TestValueZeroInvestedCapital(t *testing.T) {
	holdings := []models.Holding{{Symbol: "FREE", Shares: 10, AvgCost: 0, Lots: []models.Lot{{Shares: 10, Price: 0}}}}
	quotes := []models.Quote{{Symbol: "FREE", Price: 5, PreviousClose: 4}}

	v := Value(holdings, quotes)

	assert.Equal(t, 0.0, v.Summary.InvestedCapital)
	assert.Equal(t, 0.0, v.Summary.NetPLPercent)
	assert.Equal(t, 0.0, v.Summary.DayPLPercent)
	assert.InDelta(t, 50, v.Summary.NetPL, 1e-9)
	assert.Equal(t, 0.0, v.Holdings[0].UnrealizedPLPercent)
	assert.Equal(t, 0.0, v.Holdings[0].Lots[0].PLPercent)
}

func TestValueEmptyPortfolio(t *testing.T) {
	v := Value(nil, nil)
	assert.Equal(t, models.PortfolioSummary{}, v.Summary)
	assert.Empty(t, v.Holdings)
}

func TestDetailHoldingLots(t *testing.T) {
	h := models.Holding{Symbol: "Y"}
	h.Lots = []models.Lot{{Shares: 10, Price: 100}, {Shares: 10, Price: 200}}
	Recompute(&h)

	d := DetailHolding(h, &models.Quote{Symbol: "Y", Price: 150})
	require.Len(t, d.Lots, 2)

	assert.InDelta(t, 500, d.Lots[0].PL, 1e-9)
	assert.InDelta(t, 50, d.Lots[0].PLPercent, 1e-9)
	assert.InDelta(t, -500, d.Lots[1].PL, 1e-9)
	assert.InDelta(t, -25, d.Lots[1].PLPercent, 1e-9)
	assert.InDelta(t, 0, d.UnrealizedPL, 1e-9)
}

func TestIndexQuotesSkipsBlankSymbols(t *testing.T) {
	idx := IndexQuotes([]models.Quote{{Symbol: ""}, {Symbol: "A", Price: 1}, {Symbol: "A", Price: 2}})
	assert.Len(t, idx, 1)
	assert.Equal(t, 2.0, idx["A"].Price)
}

func TestValueSumsMoneyExactly(t *testing.T) {
	holdings := []models.Holding{
		{Symbol: "A", Shares: 3, AvgCost: 0.1},
		{Symbol: "B", Shares: 1, AvgCost: 0.2},
	}
	quotes := []models.Quote{{Symbol: "A", Price: 0.1}, {Symbol: "B", Price: 0.2}}

	v := Value(holdings, quotes)
	assert.Equal(t, 0.3, v.Holdings[0].MarketValue)
	assert.Equal(t, 0.5, v.Summary.TotalEquity)
	assert.Equal(t, 0.5, v.Summary.InvestedCapital)
	assert.Equal(t, 0.0, v.Summary.NetPL)
}
