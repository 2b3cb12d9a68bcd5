package features

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockTerm/internal/domain/models"
)

func TestComputeLogReturns(t *testing.T) {
	assert.Nil(t, ComputeLogReturns([]float64{1}))

	r := ComputeLogReturns([]float64{100, 110, 0, 121})
	assert.Len(t, r, 3)
	assert.InDelta(t, math.Log(1.1), r[0], 1e-12)
	assert.Equal(t, 0.0, r[1])
	assert.Equal(t, 0.0, r[2])
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{3}))
	assert.InDelta(t, math.Sqrt(2.5), StdDev([]float64{1, 2, 3, 4, 5}), 1e-12)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, models.HistoryStats{}, Summarize(nil))

	// newest first
	snaps := []models.QuoteSnapshot{{Price: 120}, {Price: 90}, {Price: 100}}
	st := Summarize(snaps)
	assert.Equal(t, 100.0, st.First)
	assert.Equal(t, 120.0, st.Last)
	assert.Equal(t, 120.0, st.High)
	assert.Equal(t, 90.0, st.Low)
	assert.InDelta(t, 20.0, st.ChangePercent, 1e-9)
	assert.Greater(t, st.Volatility, 0.0)

	flat := Summarize([]models.QuoteSnapshot{{Price: 5}, {Price: 5}, {Price: 5}})
	assert.Equal(t, 0.0, flat.Volatility)
	assert.Equal(t, 0.0, flat.ChangePercent)
}

func TestCandles(t *testing.T) {
	assert.Empty(t, Candles(nil, time.Hour))

	base := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC).UnixMilli()
	minute := time.Minute.Milliseconds()
	// newest first
	snaps := []models.QuoteSnapshot{
		{Timestamp: base + 65*minute, Price: 104, Volume: 900},
		{Timestamp: base + 61*minute, Price: 0},
		{Timestamp: base + 40*minute, Price: 99, Volume: 500},
		{Timestamp: base + 20*minute, Price: 103, Volume: 300},
		{Timestamp: base, Price: 100, Volume: 100},
	}

	bars := Candles(snaps, time.Hour)
	require.Len(t, bars, 2)
	assert.Equal(t, models.Candle{Date: "2024-06-03T09:00:00Z", Open: 100, High: 103, Low: 99, Close: 99, Volume: 500}, bars[0])
	assert.Equal(t, models.Candle{Date: "2024-06-03T10:00:00Z", Open: 104, High: 104, Low: 104, Close: 104, Volume: 900}, bars[1])

	daily := Candles(snaps, 24*time.Hour)
	require.Len(t, daily, 1)
	assert.Equal(t, "2024-06-03", daily[0].Date)
	assert.Equal(t, 104.0, daily[0].Close)
}
