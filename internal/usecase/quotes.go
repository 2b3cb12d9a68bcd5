package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"StockTerm/internal/domain/models"
	drepo "StockTerm/internal/domain/repository"
	"StockTerm/internal/service/cache"
	"StockTerm/pkg/util"
)

// QuoteBook is the in-process view of the latest quotes. Entries expire after
// the configured TTL so a dead upstream degrades to "no live data".
type QuoteBook struct {
	cache *cache.TTLCache
	ttl   time.Duration

	mu        sync.RWMutex
	updatedAt time.Time
}

func NewQuoteBook(c *cache.TTLCache, ttl time.Duration) *QuoteBook {
	if c == nil {
		c = cache.NewTTLCache()
	}
	return &QuoteBook{cache: c, ttl: ttl}
}

// Put stores quotes and stamps the update time. Quotes without a symbol are skipped.
func (b *QuoteBook) Put(quotes []models.Quote, at time.Time) {
	for _, q := range quotes {
		if q.Symbol == "" {
			continue
		}
		b.cache.Set(q.Symbol, q, b.ttl)
	}
	b.mu.Lock()
	b.updatedAt = at
	b.mu.Unlock()
}

func (b *QuoteBook) Get(symbol string) (models.Quote, bool) {
	v, ok := b.cache.Get(symbol)
	if !ok {
		return models.Quote{}, false
	}
	q, ok := v.(models.Quote)
	return q, ok
}

// All returns the live quotes sorted by symbol.
func (b *QuoteBook) All() []models.Quote {
	vals := b.cache.Values()
	out := make([]models.Quote, 0, len(vals))
	for _, v := range vals {
		if q, ok := v.(models.Quote); ok {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// UpdatedAt is the time of the last successful refresh, zero before the first.
func (b *QuoteBook) UpdatedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.updatedAt
}

// QuotesUseCase answers quote reads from the book, falling back to the provider
// for symbols the book does not hold.
type QuotesUseCase struct {
	book     *QuoteBook
	provider drepo.QuoteProvider
}

func NewQuotesUseCase(book *QuoteBook, provider drepo.QuoteProvider) *QuotesUseCase {
	return &QuotesUseCase{book: book, provider: provider}
}

type QuotesResult struct {
	Quotes     []models.Quote `json:"stocks"`
	LastUpdate time.Time      `json:"lastUpdate"`
	Count      int            `json:"count"`
}

func (uc *QuotesUseCase) List() *QuotesResult {
	qs := uc.book.All()
	return &QuotesResult{Quotes: qs, LastUpdate: uc.book.UpdatedAt(), Count: len(qs)}
}

// Get returns repository.ErrNotFound when neither the book nor the provider knows symbol.
func (uc *QuotesUseCase) Get(ctx context.Context, symbol string) (models.Quote, error) {
	symbol = util.NormalizeSymbol(symbol)
	if symbol == "" {
		return models.Quote{}, drepo.ErrNotFound
	}
	if q, ok := uc.book.Get(symbol); ok {
		return q, nil
	}
	if uc.provider == nil {
		return models.Quote{}, drepo.ErrNotFound
	}
	q, err := uc.provider.GetQuote(ctx, symbol)
	if err != nil {
		if errors.Is(err, drepo.ErrNotFound) {
			return models.Quote{}, err
		}
		return models.Quote{}, fmt.Errorf("get quote %s: %w", symbol, err)
	}
	return q, nil
}

// Book exposes the underlying book to other use cases.
func (uc *QuotesUseCase) Book() *QuoteBook { return uc.book }
