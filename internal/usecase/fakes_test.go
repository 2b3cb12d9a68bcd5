package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"StockTerm/internal/domain/models"
	drepo "StockTerm/internal/domain/repository"
	"StockTerm/internal/repository"
	"StockTerm/internal/service/cache"
	"StockTerm/pkg/metrics"
	"StockTerm/pkg/store"
)

type fakeProvider struct {
	mu      sync.Mutex
	quotes  []models.Quote
	single  map[string]models.Quote
	err     error
	singles []string
}

func (p *fakeProvider) GetQuotes(context.Context, ...string) ([]models.Quote, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	return append([]models.Quote(nil), p.quotes...), nil
}

func (p *fakeProvider) GetQuote(_ context.Context, symbol string) (models.Quote, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.singles = append(p.singles, symbol)
	if q, ok := p.single[symbol]; ok {
		return q, nil
	}
	return models.Quote{}, drepo.ErrNotFound
}

type fakeEvents struct {
	mu     sync.Mutex
	events []models.HoldingEvent
	err    error
}

func (e *fakeEvents) PublishHoldingEvent(_ context.Context, ev models.HoldingEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.events = append(e.events, ev)
	return nil
}

func (e *fakeEvents) Close() error { return nil }

type failingRepo struct{}

func (failingRepo) Load(context.Context) ([]models.Holding, error) {
	return nil, errors.New("store offline")
}

func (failingRepo) Save(context.Context, []models.Holding) error { return errors.New("store offline") }

type recordingBroadcaster struct {
	quotes []models.Quote
	calls  int
}

func (b *recordingBroadcaster) BroadcastQuotes(quotes []models.Quote, _ time.Time) {
	b.calls++
	b.quotes = quotes
}

func newBook() *QuoteBook {
	return NewQuoteBook(cache.NewTTLCache(), time.Minute)
}

func newHoldingsRepo() *repository.StoreHoldingsRepository {
	return repository.NewStoreHoldingsRepository(store.NewMemoryStore())
}

var nopMetrics = metrics.Nop{}
