package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StockTerm/internal/domain/models"
	drepo "StockTerm/internal/domain/repository"
	"StockTerm/internal/services/features"
	applogger "StockTerm/pkg/logger"
	"StockTerm/pkg/util"
)

const (
	defaultHistoryLimit = 500
	maxHistoryLimit     = 5000
	maxHistorySpan      = 30 * 24 * time.Hour
)

var (
	ErrHistoryDisabled = errors.New("quote history is not enabled")
	ErrInvalidRange    = errors.New("unsupported history range")
)

const day = 24 * time.Hour

// candlePeriods maps the accepted periods to their span. Zero means "as far
// back as recorded history goes".
var candlePeriods = map[string]time.Duration{
	"1d": day, "5d": 5 * day, "1mo": 30 * day, "3mo": 90 * day, "6mo": 180 * day,
	"1y": 365 * day, "2y": 730 * day, "5y": 1825 * day, "10y": 3650 * day,
	"ytd": 0, "max": 0,
}

var candleIntervals = map[string]time.Duration{
	"1m": time.Minute, "2m": 2 * time.Minute, "5m": 5 * time.Minute, "15m": 15 * time.Minute,
	"30m": 30 * time.Minute, "60m": time.Hour, "90m": 90 * time.Minute, "1h": time.Hour,
	"1d": day, "5d": 5 * day, "1wk": 7 * day, "1mo": 30 * day, "3mo": 90 * day,
}

const (
	SourceUpstream = "upstream"
	SourceRecorded = "recorded"
)

type HistoryUseCase struct {
	store   drepo.QuoteHistory
	candles drepo.CandleProvider
	log     *applogger.Logger
	now     func() time.Time
}

type HistoryOption func(*HistoryUseCase)

// WithCandleProvider serves bars from the market data service before falling
// back to recorded snapshots.
func WithCandleProvider(p drepo.CandleProvider) HistoryOption {
	return func(uc *HistoryUseCase) { uc.candles = p }
}

func WithHistoryLogger(l *applogger.Logger) HistoryOption {
	return func(uc *HistoryUseCase) {
		if l != nil {
			uc.log = l
		}
	}
}

func NewHistoryUseCase(store drepo.QuoteHistory, opts ...HistoryOption) *HistoryUseCase {
	uc := &HistoryUseCase{store: store, log: applogger.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

type HistoryParams struct {
	Symbol string
	From   time.Time
	To     time.Time
	Limit  int
}

type HistoryResult struct {
	Symbol    string                 `json:"symbol"`
	From      time.Time              `json:"from"`
	To        time.Time              `json:"to"`
	Count     int                    `json:"count"`
	Stats     models.HistoryStats    `json:"stats"`
	Snapshots []models.QuoteSnapshot `json:"snapshots"`
}

// Get returns snapshots newest first. A missing from defaults to 24h before to,
// and the span is capped at 30 days.
func (uc *HistoryUseCase) Get(ctx context.Context, p HistoryParams) (*HistoryResult, error) {
	if uc.store == nil {
		return nil, ErrHistoryDisabled
	}
	symbol := util.NormalizeSymbol(p.Symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.Limit <= 0 {
		p.Limit = defaultHistoryLimit
	}
	if p.Limit > maxHistoryLimit {
		p.Limit = maxHistoryLimit
	}
	now := uc.now()
	to := p.To
	if to.IsZero() {
		to = now
	}
	from := p.From
	if from.IsZero() {
		from = to.Add(-24 * time.Hour)
	}
	from, to = util.ClampRange(from, to, maxHistorySpan, now)

	snaps, err := uc.store.Query(ctx, symbol, from, to, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	if snaps == nil {
		snaps = []models.QuoteSnapshot{}
	}
	return &HistoryResult{
		Symbol:    symbol,
		From:      from,
		To:        to,
		Count:     len(snaps),
		Stats:     features.Summarize(snaps),
		Snapshots: snaps,
	}, nil
}

type CandleParams struct {
	Symbol   string
	Period   string
	Interval string
}

type CandlesResult struct {
	Symbol   string          `json:"symbol"`
	Period   string          `json:"period"`
	Interval string          `json:"interval"`
	Source   string          `json:"source"`
	Count    int             `json:"count"`
	Candles  []models.Candle `json:"data"`
}

// Candles returns OHLC bars oldest first. The market data service is asked
// first; when it fails or has nothing, bars are built from recorded snapshots,
// which cover at most 30 days.
func (uc *HistoryUseCase) Candles(ctx context.Context, p CandleParams) (*CandlesResult, error) {
	symbol := util.NormalizeSymbol(p.Symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.Period == "" {
		p.Period = "1mo"
	}
	if p.Interval == "" {
		p.Interval = "1d"
	}
	span, ok := candlePeriods[p.Period]
	if !ok {
		return nil, fmt.Errorf("%w: period %q", ErrInvalidRange, p.Period)
	}
	width, ok := candleIntervals[p.Interval]
	if !ok {
		return nil, fmt.Errorf("%w: interval %q", ErrInvalidRange, p.Interval)
	}

	res := &CandlesResult{Symbol: symbol, Period: p.Period, Interval: p.Interval}

	var upstreamErr error
	if uc.candles != nil {
		bars, err := uc.candles.GetCandles(ctx, symbol, p.Period, p.Interval)
		if err == nil && len(bars) > 0 {
			res.Source, res.Count, res.Candles = SourceUpstream, len(bars), bars
			return res, nil
		}
		upstreamErr = err
		if err != nil && !errors.Is(err, drepo.ErrNotFound) {
			uc.log.Warn("upstream candles failed, using recorded history",
				applogger.String("symbol", symbol), applogger.Error(err))
		}
	}

	if uc.store == nil {
		if upstreamErr != nil {
			return nil, upstreamErr
		}
		return nil, ErrHistoryDisabled
	}

	now := uc.now()
	if span <= 0 || span > maxHistorySpan {
		span = maxHistorySpan
	}
	snaps, err := uc.store.Query(ctx, symbol, now.Add(-span), now, maxHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("get recorded candles: %w", err)
	}
	res.Source = SourceRecorded
	res.Candles = features.Candles(snaps, width)
	res.Count = len(res.Candles)
	return res, nil
}
