package usecase

import (
	"context"
	"strings"
	"time"

	"StockTerm/internal/domain/models"
	drepo "StockTerm/internal/domain/repository"
	"StockTerm/internal/services/search"
	applogger "StockTerm/pkg/logger"
)

// SearchUseCase serves one-shot local searches, direct remote lookups and
// live-search sessions.
type SearchUseCase struct {
	matcher  *search.Matcher
	lookup   drepo.SymbolLookup
	metrics  drepo.Metrics
	log      *applogger.Logger
	debounce time.Duration
}

func NewSearchUseCase(matcher *search.Matcher, lookup drepo.SymbolLookup, metrics drepo.Metrics, log *applogger.Logger, debounce time.Duration) *SearchUseCase {
	if log == nil {
		log = applogger.Nop()
	}
	return &SearchUseCase{
		matcher:  matcher,
		lookup:   lookup,
		metrics:  metrics,
		log:      log.With(applogger.String("component", "search")),
		debounce: debounce,
	}
}

func (uc *SearchUseCase) Search(query string) search.Result {
	res := uc.matcher.Match(query)
	uc.metrics.RecordSearch(string(res.State))
	return res
}

// Lookup queries the remote source right away. HTTP callers debounce on their side.
func (uc *SearchUseCase) Lookup(ctx context.Context, query string) (models.CatalogEntry, error) {
	if uc.lookup == nil || strings.TrimSpace(query) == "" {
		return models.CatalogEntry{}, drepo.ErrNotFound
	}
	start := time.Now()
	e, err := uc.lookup.Search(ctx, query)
	uc.metrics.RecordLatency("symbol_lookup", time.Since(start).Seconds())
	if err != nil {
		uc.metrics.RecordSearch(string(search.PhaseRemoteMiss))
		return models.CatalogEntry{}, err
	}
	uc.metrics.RecordSearch(string(search.PhaseRemoteHit))
	return e, nil
}

// NewSession starts a debounced live-search session bound to ctx.
func (uc *SearchUseCase) NewSession(ctx context.Context, onUpdate func(search.Update), opts ...search.SessionOption) *search.Session {
	base := []search.SessionOption{
		search.WithDebounce(uc.debounce),
		search.WithSessionLogger(uc.log),
	}
	return search.NewSession(ctx, uc.matcher, uc.lookup, onUpdate, append(base, opts...)...)
}
