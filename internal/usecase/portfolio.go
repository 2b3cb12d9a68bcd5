package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"StockTerm/internal/domain/models"
	drepo "StockTerm/internal/domain/repository"
	"StockTerm/internal/services/portfolio"
	applogger "StockTerm/pkg/logger"
)

// PortfolioUseCase orchestrates load, aggregate and single-replacement saves of holdings.
type PortfolioUseCase struct {
	repo    drepo.HoldingsRepository
	book    *QuoteBook
	events  drepo.EventPublisher
	metrics drepo.Metrics
	log     *applogger.Logger
	now     func() time.Time

	// serializes load-modify-save so concurrent writers cannot lose a lot
	mu sync.Mutex
}

func NewPortfolioUseCase(
	repo drepo.HoldingsRepository,
	book *QuoteBook,
	events drepo.EventPublisher,
	metrics drepo.Metrics,
	log *applogger.Logger,
) *PortfolioUseCase {
	if log == nil {
		log = applogger.Nop()
	}
	if events == nil {
		events = noopEvents{}
	}
	return &PortfolioUseCase{
		repo:    repo,
		book:    book,
		events:  events,
		metrics: metrics,
		log:     log.With(applogger.String("component", "portfolio")),
		now:     time.Now,
	}
}

// Valuation values the stored holdings against whatever the quote book holds right now.
func (uc *PortfolioUseCase) Valuation(ctx context.Context) (models.Valuation, error) {
	start := uc.now()
	hs, err := uc.repo.Load(ctx)
	if err != nil {
		uc.metrics.RecordError("holdings_load")
		return models.Valuation{}, fmt.Errorf("valuation: %w", err)
	}

	quotes := make([]models.Quote, 0, len(hs))
	for _, h := range hs {
		if q, ok := uc.book.Get(h.Symbol); ok {
			quotes = append(quotes, q)
		}
	}
	v := portfolio.Value(hs, quotes)
	uc.metrics.RecordEquity(v.Summary.TotalEquity)
	uc.metrics.RecordLatency("valuation", uc.now().Sub(start).Seconds())
	return v, nil
}

type AddLotInput struct {
	Symbol    string
	Name      string
	Shares    float64
	Price     float64
	LastPrice float64
	Date      time.Time
}

// AddLot appends a lot, creating the holding on first purchase. Invalid input
// is rejected before anything is loaded or written.
func (uc *PortfolioUseCase) AddLot(ctx context.Context, in AddLotInput) (models.Holding, error) {
	symbol := strings.ToUpper(strings.TrimSpace(in.Symbol))
	if symbol == "" {
		return models.Holding{}, portfolio.ErrInvalidSymbol
	}
	lot := models.Lot{Date: in.Date, Shares: in.Shares, Price: in.Price}
	if err := portfolio.ValidateLot(lot); err != nil {
		return models.Holding{}, err
	}
	if lot.Date.IsZero() {
		lot.Date = uc.now().UTC()
	}

	p := portfolio.Purchase{Symbol: symbol, Name: strings.TrimSpace(in.Name), Lot: lot, LastPrice: in.LastPrice}
	if q, ok := uc.book.Get(symbol); ok {
		if p.LastPrice <= 0 && q.HasPrice() {
			p.LastPrice = q.Price
		}
		if p.Name == "" {
			p.Name = q.Name
		}
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	hs, err := uc.repo.Load(ctx)
	if err != nil {
		uc.metrics.RecordError("holdings_load")
		return models.Holding{}, fmt.Errorf("add lot: %w", err)
	}
	next, err := portfolio.AddLot(hs, p)
	if err != nil {
		return models.Holding{}, err
	}
	if err := uc.repo.Save(ctx, next); err != nil {
		uc.metrics.RecordError("holdings_save")
		return models.Holding{}, fmt.Errorf("add lot: %w", err)
	}

	var h models.Holding
	for _, x := range next {
		if x.Symbol == symbol {
			h = x
			break
		}
	}
	uc.publish(ctx, models.HoldingEvent{Type: models.EventLotAdded, Symbol: symbol, Lot: &lot, Holding: &h, At: uc.now().UnixMilli()})
	uc.log.Info("lot added",
		applogger.String("symbol", symbol),
		applogger.Float64("shares", lot.Shares),
		applogger.Float64("price", lot.Price))
	return h, nil
}

// RemoveHolding deletes every lot of symbol. Unknown symbols return repository.ErrNotFound.
func (uc *PortfolioUseCase) RemoveHolding(ctx context.Context, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	uc.mu.Lock()
	defer uc.mu.Unlock()

	hs, err := uc.repo.Load(ctx)
	if err != nil {
		uc.metrics.RecordError("holdings_load")
		return fmt.Errorf("remove holding: %w", err)
	}
	next, removed := portfolio.RemoveHolding(hs, symbol)
	if !removed {
		return fmt.Errorf("holding %s: %w", symbol, drepo.ErrNotFound)
	}
	if err := uc.repo.Save(ctx, next); err != nil {
		uc.metrics.RecordError("holdings_save")
		return fmt.Errorf("remove holding: %w", err)
	}
	uc.publish(ctx, models.HoldingEvent{Type: models.EventHoldingRemoved, Symbol: symbol, At: uc.now().UnixMilli()})
	uc.log.Info("holding removed", applogger.String("symbol", symbol))
	return nil
}

// publish is best effort: the save already happened and is the source of truth.
func (uc *PortfolioUseCase) publish(ctx context.Context, ev models.HoldingEvent) {
	if err := uc.events.PublishHoldingEvent(ctx, ev); err != nil {
		uc.metrics.RecordError("event_publish")
		uc.log.Warn("publish holding event",
			applogger.String("type", ev.Type),
			applogger.String("symbol", ev.Symbol),
			applogger.Error(err))
		return
	}
	uc.metrics.RecordPublished(ev.Type)
}

type noopEvents struct{}

func (noopEvents) PublishHoldingEvent(context.Context, models.HoldingEvent) error { return nil }
func (noopEvents) Close() error                                                 { return nil }
