package usecase

import (
	"context"
	"time"

	"StockTerm/internal/domain/models"
	drepo "StockTerm/internal/domain/repository"
	"StockTerm/internal/services/portfolio"
	applogger "StockTerm/pkg/logger"
	"StockTerm/pkg/util"
)

// QuoteBroadcaster receives every successful refresh.
type QuoteBroadcaster interface {
	BroadcastQuotes(quotes []models.Quote, at time.Time)
}

// QuoteRefresher is the periodic poll: fetch, fill the book, record history,
// push to listeners and recompute portfolio equity. Re-running it with the
// same upstream data leaves the same state behind.
type QuoteRefresher struct {
	provider drepo.QuoteProvider
	book     *QuoteBook
	holdings drepo.HoldingsRepository
	history  drepo.QuoteHistory
	metrics  drepo.Metrics
	log      *applogger.Logger
	symbols  []string
	now      func() time.Time

	bc QuoteBroadcaster
}

func NewQuoteRefresher(
	provider drepo.QuoteProvider,
	book *QuoteBook,
	holdings drepo.HoldingsRepository,
	history drepo.QuoteHistory,
	metrics drepo.Metrics,
	log *applogger.Logger,
	symbols []string,
) *QuoteRefresher {
	if log == nil {
		log = applogger.Nop()
	}
	return &QuoteRefresher{
		provider: provider,
		book:     book,
		holdings: holdings,
		history:  history,
		metrics:  metrics,
		log:      log.With(applogger.String("component", "quote_refresher")),
		symbols:  symbols,
		now:      time.Now,
	}
}

// SetBroadcaster attaches the websocket hub after construction.
func (r *QuoteRefresher) SetBroadcaster(bc QuoteBroadcaster) { r.bc = bc }

func (r *QuoteRefresher) Name() string { return "quote_refresh" }

// Run never fails the schedule: upstream errors are logged and the book is left as it was.
func (r *QuoteRefresher) Run(ctx context.Context) error {
	start := r.now()

	held := r.heldSymbols(ctx)
	quotes, err := r.provider.GetQuotes(ctx, r.symbols...)
	if err != nil {
		r.metrics.RecordError("quote_refresh")
		r.log.Warn("quote refresh failed", applogger.Error(err))
		return nil
	}

	have := make(map[string]struct{}, len(quotes))
	for _, q := range quotes {
		have[q.Symbol] = struct{}{}
	}
	for _, sym := range held {
		if _, ok := have[sym]; ok {
			continue
		}
		q, err := r.provider.GetQuote(ctx, sym)
		if err != nil {
			r.log.Debug("held symbol has no quote",
				applogger.String("symbol", sym),
				applogger.Error(err))
			continue
		}
		quotes = append(quotes, q)
	}

	at := r.now()
	r.book.Put(quotes, at)
	for _, q := range quotes {
		if q.HasPrice() {
			r.metrics.RecordLastPrice(q.Symbol, q.Price)
		}
	}

	r.appendHistory(ctx, quotes, at)
	if r.bc != nil {
		r.bc.BroadcastQuotes(quotes, at)
	}
	r.recordEquity(ctx, quotes)

	r.metrics.RecordLatency("quote_refresh", r.now().Sub(start).Seconds())
	r.log.Debug("quotes refreshed", applogger.Int("count", len(quotes)))
	return nil
}

func (r *QuoteRefresher) heldSymbols(ctx context.Context) []string {
	if r.holdings == nil {
		return nil
	}
	hs, err := r.holdings.Load(ctx)
	if err != nil {
		r.log.Warn("load holdings for refresh", applogger.Error(err))
		return nil
	}
	return util.UniqueStrings(portfolio.Symbols(hs))
}

func (r *QuoteRefresher) appendHistory(ctx context.Context, quotes []models.Quote, at time.Time) {
	if r.history == nil {
		return
	}
	snaps := make([]models.QuoteSnapshot, 0, len(quotes))
	for _, q := range quotes {
		if !q.HasPrice() {
			continue
		}
		snaps = append(snaps, models.QuoteSnapshot{
			Symbol:        q.Symbol,
			Timestamp:     at.UnixMilli(),
			Price:         q.Price,
			PreviousClose: q.PreviousClose,
			Volume:        q.Volume,
		})
	}
	if err := r.history.Append(ctx, snaps); err != nil {
		r.metrics.RecordError("history_append")
		r.log.Warn("append quote history", applogger.Error(err))
	}
}

func (r *QuoteRefresher) recordEquity(ctx context.Context, quotes []models.Quote) {
	if r.holdings == nil {
		return
	}
	hs, err := r.holdings.Load(ctx)
	if err != nil {
		return
	}
	r.metrics.RecordEquity(portfolio.Value(hs, quotes).Summary.TotalEquity)
}
