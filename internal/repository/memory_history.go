package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"StockTerm/internal/domain/models"
)

// MemoryQuoteHistory keeps the most recent snapshots per symbol in process.
// It serves the history endpoint when ClickHouse is not configured.
type MemoryQuoteHistory struct {
	mu    sync.RWMutex
	max   int
	bySym map[string][]models.QuoteSnapshot
}

func NewMemoryQuoteHistory(maxPerSymbol int) *MemoryQuoteHistory {
	if maxPerSymbol <= 0 {
		maxPerSymbol = 1440
	}
	return &MemoryQuoteHistory{max: maxPerSymbol, bySym: make(map[string][]models.QuoteSnapshot)}
}

func (m *MemoryQuoteHistory) Append(_ context.Context, snaps []models.QuoteSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range snaps {
		if s.Symbol == "" || s.Timestamp == 0 {
			continue
		}
		list := append(m.bySym[s.Symbol], s)
		if len(list) > m.max {
			list = list[len(list)-m.max:]
		}
		m.bySym[s.Symbol] = list
	}
	return nil
}

// Query returns snapshots in [from, to], newest first.
func (m *MemoryQuoteHistory) Query(_ context.Context, symbol string, from, to time.Time, limit int) ([]models.QuoteSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lo, hi := from.UnixMilli(), to.UnixMilli()
	out := make([]models.QuoteSnapshot, 0)
	for _, s := range m.bySym[symbol] {
		if s.Timestamp >= lo && s.Timestamp <= hi {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
