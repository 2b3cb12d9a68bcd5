package portfolio

import (
	"math"
	"testing"
	"time"

	"StockTerm/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buy(symbol string, shares, price float64) Purchase {
	return Purchase{Symbol: symbol, Name: symbol + " Ltd", Lot: models.Lot{Shares: shares, Price: price}}
}

func TestAddLotCreatesHolding(t *testing.T) {
	got, err := AddLot(nil, buy("Y", 10, 100))
	require.NoError(t, err)
	require.Len(t, got, 1)

	h := got[0]
	assert.Equal(t, "Y", h.Symbol)
	assert.Equal(t, 10.0, h.Shares)
	assert.Equal(t, 100.0, h.AvgCost)
	require.Len(t, h.Lots, 1)
	assert.False(t, h.Lots[0].Date.IsZero())
}

func TestAddLotWeightedAverage(t *testing.T) {
	holdings, err := AddLot(nil, buy("Y", 10, 100))
	require.NoError(t, err)
	holdings, err = AddLot(holdings, buy("Y", 10, 200))
	require.NoError(t, err)

	require.Len(t, holdings, 1)
	assert.Equal(t, 20.0, holdings[0].Shares)
	assert.Equal(t, 150.0, holdings[0].AvgCost)
	assert.Len(t, holdings[0].Lots, 2)
}

func TestAddLotOrderIndependent(t *testing.T) {
	lots := []Purchase{
		buy("Z", 3, 101.37),
		buy("Z", 0.5, 99.99),
		buy("Z", 12, 87.1),
		buy("Z", 7.25, 120.05),
	}
	orders := [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {2, 0, 3, 1}}

	var first models.Holding
	for i, order := range orders {
		var holdings []models.Holding
		for _, idx := range order {
			var err error
			holdings, err = AddLot(holdings, lots[idx])
			require.NoError(t, err)
		}
		h := holdings[0]

		var shares, cost float64
		for _, l := range h.Lots {
			shares += l.Shares
			cost += l.Shares * l.Price
		}
		assert.InDelta(t, shares, h.Shares, 1e-9)
		assert.InDelta(t, cost/shares, h.AvgCost, 1e-9)

		if i == 0 {
			first = h
			continue
		}
		assert.Equal(t, first.Shares, h.Shares)
		assert.Equal(t, first.AvgCost, h.AvgCost)
	}
}

func TestAddLotRejectsInvalidInput(t *testing.T) {
	base, err := AddLot(nil, buy("Y", 10, 100))
	require.NoError(t, err)

	tests := []struct {
		name   string
		lot    models.Lot
		symbol string
		want   error
	}{
		{name: "zero shares", lot: models.Lot{Shares: 0, Price: 10}, symbol: "Y", want: ErrInvalidShares},
		{name: "negative shares", lot: models.Lot{Shares: -1, Price: 10}, symbol: "Y", want: ErrInvalidShares},
		{name: "NaN shares", lot: models.Lot{Shares: math.NaN(), Price: 10}, symbol: "Y", want: ErrInvalidShares},
		{name: "negative price", lot: models.Lot{Shares: 1, Price: -0.01}, symbol: "Y", want: ErrInvalidPrice},
		{name: "blank symbol", lot: models.Lot{Shares: 1, Price: 1}, symbol: "  ", want: ErrInvalidSymbol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddLot(base, Purchase{Symbol: tt.symbol, Lot: tt.lot})
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, got)

			require.Len(t, base, 1)
			assert.Equal(t, 10.0, base[0].Shares)
			assert.Equal(t, 100.0, base[0].AvgCost)
			assert.Len(t, base[0].Lots, 1)
		})
	}
}

func TestAddLotZeroPriceAllowed(t *testing.T) {
	got, err := AddLot(nil, buy("BONUS", 5, 0))
	require.NoError(t, err)
	assert.Equal(t, 0.0, got[0].AvgCost)
}

func TestAddLotDoesNotMutateInput(t *testing.T) {
	base, err := AddLot(nil, buy("Y", 10, 100))
	require.NoError(t, err)

	next, err := AddLot(base, buy("Y", 10, 200))
	require.NoError(t, err)

	assert.Len(t, base[0].Lots, 1)
	assert.Equal(t, 100.0, base[0].AvgCost)
	assert.Len(t, next[0].Lots, 2)
}

func TestAddLotUpgradesLegacyHolding(t *testing.T) {
	added := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	legacy := []models.Holding{{Symbol: "OLD", Shares: 4, AvgCost: 50, DateAdded: &added}}

	got, err := AddLot(legacy, buy("OLD", 4, 100))
	require.NoError(t, err)

	h := got[0]
	require.Len(t, h.Lots, 2)
	assert.Equal(t, added, h.Lots[0].Date)
	assert.Equal(t, 8.0, h.Shares)
	assert.Equal(t, 75.0, h.AvgCost)
	assert.Nil(t, h.DateAdded)
}

func TestAddLotKeepsLastPrice(t *testing.T) {
	p := buy("Y", 1, 10)
	p.LastPrice = 12
	got, err := AddLot(nil, p)
	require.NoError(t, err)
	assert.Equal(t, 12.0, got[0].CurrentPrice)

	p2 := buy("Y", 1, 10)
	got, err = AddLot(got, p2)
	require.NoError(t, err)
	assert.Equal(t, 12.0, got[0].CurrentPrice)
}

func TestRemoveHolding(t *testing.T) {
	holdings, _ := AddLot(nil, buy("A", 1, 1))
	holdings, _ = AddLot(holdings, buy("B", 1, 1))
	holdings, _ = AddLot(holdings, buy("A", 2, 3))

	out, ok := RemoveHolding(holdings, "A")
	assert.True(t, ok)
	assert.Equal(t, []string{"B"}, Symbols(out))
	assert.Len(t, holdings, 2)

	_, ok = RemoveHolding(out, "A")
	assert.False(t, ok)
}
