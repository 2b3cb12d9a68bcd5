package quotes

import (
	"context"
	"strings"

	"StockTerm/internal/domain/models"
	"StockTerm/internal/domain/repository"
)

const (
	DefaultSuffix = ".NS"
	unknownSector = "N/A"
)

// Lookup finds instruments the catalog does not know by asking the quote
// provider for "<QUERY><suffix>". Only symbols with a positive price count.
type Lookup struct {
	provider repository.QuoteProvider
	suffix   string
}

func NewLookup(provider repository.QuoteProvider, suffix string) *Lookup {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return &Lookup{provider: provider, suffix: strings.ToUpper(suffix)}
}

// Candidate is the symbol a query would be looked up as.
func (l *Lookup) Candidate(query string) string {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" {
		return ""
	}
	if strings.HasSuffix(q, ".NS") || strings.HasSuffix(q, ".BO") {
		return q
	}
	return q + l.suffix
}

func (l *Lookup) Search(ctx context.Context, query string) (models.CatalogEntry, error) {
	symbol := l.Candidate(query)
	if symbol == "" {
		return models.CatalogEntry{}, repository.ErrNotFound
	}

	q, err := l.provider.GetQuote(ctx, symbol)
	if err != nil {
		return models.CatalogEntry{}, err
	}
	if !q.HasPrice() {
		return models.CatalogEntry{}, repository.ErrNotFound
	}

	entry := models.CatalogEntry{Symbol: symbol, Name: q.Name, Sector: q.Sector}
	if entry.Name == "" {
		entry.Name = strings.ToUpper(strings.TrimSpace(query))
	}
	if entry.Sector == "" {
		entry.Sector = unknownSector
	}
	return entry, nil
}

var _ repository.SymbolLookup = (*Lookup)(nil)
