package repository

import (
	"context"
	"errors"
	"time"

	"StockTerm/internal/domain/models"
)

// ErrNotFound is returned when a symbol, holding or quote does not exist.
var ErrNotFound = errors.New("not found")

// QuoteProvider is the polled source of live quotes.
type QuoteProvider interface {
	GetQuotes(ctx context.Context, symbols ...string) ([]models.Quote, error)
	GetQuote(ctx context.Context, symbol string) (models.Quote, error)
}

// CandleProvider serves OHLC bars for a period such as "1mo" at an interval such as "1d".
type CandleProvider interface {
	GetCandles(ctx context.Context, symbol, period, interval string) ([]models.Candle, error)
}

// NewsProvider serves the latest market headlines, newest first.
type NewsProvider interface {
	GetNews(ctx context.Context) ([]models.NewsItem, error)
}

// SymbolLookup resolves a free-text query to a tradable instrument outside the local catalog.
type SymbolLookup interface {
	Search(ctx context.Context, query string) (models.CatalogEntry, error)
}

// SymbolCatalog is process-wide immutable reference data.
type SymbolCatalog interface {
	Entries() []models.CatalogEntry
}

// HoldingsRepository loads and replaces the whole holdings collection.
type HoldingsRepository interface {
	Load(ctx context.Context) ([]models.Holding, error)
	Save(ctx context.Context, holdings []models.Holding) error
}

// ShortcutsRepository stores keyboard bindings.
type ShortcutsRepository interface {
	Load(ctx context.Context) ([]models.Shortcut, error)
	Save(ctx context.Context, shortcuts []models.Shortcut) error
}

// QuoteHistory stores polled quote snapshots.
type QuoteHistory interface {
	Append(ctx context.Context, snaps []models.QuoteSnapshot) error
	Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.QuoteSnapshot, error)
}

// EventPublisher emits holding change events.
type EventPublisher interface {
	PublishHoldingEvent(ctx context.Context, ev models.HoldingEvent) error
	Close() error
}

// Metrics is the subset of instrumentation the use cases emit.
type Metrics interface {
	RecordPublished(eventType string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
	RecordSearch(state string)
	RecordEquity(value float64)
}
