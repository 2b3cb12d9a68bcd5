package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockTerm/internal/domain/models"
	"StockTerm/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryUseCase(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	hist := repository.NewMemoryQuoteHistory(100)
	require.NoError(t, hist.Append(ctx, []models.QuoteSnapshot{
		{Symbol: "TCS.NS", Timestamp: now.Add(-2 * time.Hour).UnixMilli(), Price: 1},
		{Symbol: "TCS.NS", Timestamp: now.Add(-time.Hour).UnixMilli(), Price: 2},
		{Symbol: "TCS.NS", Timestamp: now.Add(-48 * time.Hour).UnixMilli(), Price: 0.5},
	}))

	uc := NewHistoryUseCase(hist)
	uc.now = func() time.Time { return now }

	res, err := uc.Get(ctx, HistoryParams{Symbol: "tcs.ns"})
	require.NoError(t, err)
	assert.Equal(t, "TCS.NS", res.Symbol)
	require.Equal(t, 2, res.Count)
	assert.Equal(t, 2.0, res.Snapshots[0].Price, "newest first")
	assert.Equal(t, 1.0, res.Stats.First)
	assert.Equal(t, 2.0, res.Stats.Last)
	assert.InDelta(t, 100.0, res.Stats.ChangePercent, 1e-9)

	res, err = uc.Get(ctx, HistoryParams{Symbol: "TCS.NS", From: now.Add(-72 * time.Hour), Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)

	_, err = uc.Get(ctx, HistoryParams{})
	assert.Error(t, err)

	_, err = NewHistoryUseCase(nil).Get(ctx, HistoryParams{Symbol: "A"})
	assert.ErrorIs(t, err, ErrHistoryDisabled)
}

type fakeCandles struct {
	bars  []models.Candle
	err   error
	asked []string
}

func (f *fakeCandles) GetCandles(_ context.Context, symbol, period, interval string) ([]models.Candle, error) {
	f.asked = append(f.asked, symbol+" "+period+" "+interval)
	return f.bars, f.err
}

func TestHistoryCandles(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	hist := repository.NewMemoryQuoteHistory(100)
	require.NoError(t, hist.Append(ctx, []models.QuoteSnapshot{
		{Symbol: "TCS.NS", Timestamp: now.Add(-26 * time.Hour).UnixMilli(), Price: 100},
		{Symbol: "TCS.NS", Timestamp: now.Add(-2 * time.Hour).UnixMilli(), Price: 110},
		{Symbol: "TCS.NS", Timestamp: now.Add(-time.Hour).UnixMilli(), Price: 105},
	}))

	up := &fakeCandles{bars: []models.Candle{
		{Date: "2024-05-30", Close: 98},
		{Date: "2024-05-31", Close: 101},
	}}
	uc := NewHistoryUseCase(hist, WithCandleProvider(up))
	uc.now = func() time.Time { return now }

	t.Run("upstream first", func(t *testing.T) {
		res, err := uc.Candles(ctx, CandleParams{Symbol: "tcs.ns"})
		require.NoError(t, err)
		assert.Equal(t, SourceUpstream, res.Source)
		assert.Equal(t, "1mo", res.Period)
		assert.Equal(t, "1d", res.Interval)
		assert.Equal(t, 2, res.Count)
		assert.Equal(t, []string{"TCS.NS 1mo 1d"}, up.asked)
	})

	t.Run("falls back to recorded history", func(t *testing.T) {
		up.err = errors.New("upstream 503")
		defer func() { up.err = nil }()

		res, err := uc.Candles(ctx, CandleParams{Symbol: "TCS.NS", Period: "5d", Interval: "1d"})
		require.NoError(t, err)
		assert.Equal(t, SourceRecorded, res.Source)
		require.Equal(t, 2, res.Count)
		assert.Equal(t, models.Candle{Date: "2024-05-31", Open: 100, High: 100, Low: 100, Close: 100}, res.Candles[0])
		assert.Equal(t, "2024-06-01", res.Candles[1].Date)
		assert.Equal(t, 110.0, res.Candles[1].Open)
		assert.Equal(t, 105.0, res.Candles[1].Close)
	})

	t.Run("empty upstream falls back too", func(t *testing.T) {
		empty := NewHistoryUseCase(hist, WithCandleProvider(&fakeCandles{}))
		empty.now = func() time.Time { return now }
		res, err := empty.Candles(ctx, CandleParams{Symbol: "TCS.NS", Period: "1d", Interval: "1h"})
		require.NoError(t, err)
		assert.Equal(t, SourceRecorded, res.Source)
		assert.Equal(t, 2, res.Count)
	})

	t.Run("rejects unknown ranges", func(t *testing.T) {
		_, err := uc.Candles(ctx, CandleParams{Symbol: "TCS.NS", Period: "7w"})
		assert.ErrorIs(t, err, ErrInvalidRange)
		_, err = uc.Candles(ctx, CandleParams{Symbol: "TCS.NS", Interval: "4h"})
		assert.ErrorIs(t, err, ErrInvalidRange)
		_, err = uc.Candles(ctx, CandleParams{})
		assert.Error(t, err)
	})

	t.Run("no recorded history", func(t *testing.T) {
		boom := errors.New("upstream 503")
		_, err := NewHistoryUseCase(nil, WithCandleProvider(&fakeCandles{err: boom})).Candles(ctx, CandleParams{Symbol: "A"})
		assert.ErrorIs(t, err, boom)

		_, err = NewHistoryUseCase(nil).Candles(ctx, CandleParams{Symbol: "A"})
		assert.ErrorIs(t, err, ErrHistoryDisabled)
	})
}
