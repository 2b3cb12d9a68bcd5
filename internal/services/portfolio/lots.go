package portfolio

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"StockTerm/internal/domain/models"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidShares = errors.New("portfolio: shares must be positive")
	ErrInvalidPrice  = errors.New("portfolio: price must not be negative")
	ErrInvalidSymbol = errors.New("portfolio: symbol is required")
)

// Purchase describes a buy to be recorded as a new lot.
type Purchase struct {
	Symbol    string
	Name      string
	Lot       models.Lot
	LastPrice float64 // quote seen at purchase time, stored as the holding's CurrentPrice when > 0
}

// ValidateLot rejects lots that must never reach a holding.
func ValidateLot(l models.Lot) error {
	if math.IsNaN(l.Shares) || math.IsInf(l.Shares, 0) || l.Shares <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidShares, l.Shares)
	}
	if math.IsNaN(l.Price) || math.IsInf(l.Price, 0) || l.Price < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidPrice, l.Price)
	}
	return nil
}

// AddLot returns a new holdings list with the purchase applied. The input slice
// and its holdings are left untouched, so callers can persist the result as a
// single replacement of the whole collection.
func AddLot(holdings []models.Holding, p Purchase) ([]models.Holding, error) {
	symbol := strings.TrimSpace(p.Symbol)
	if symbol == "" {
		return nil, ErrInvalidSymbol
	}
	if err := ValidateLot(p.Lot); err != nil {
		return nil, err
	}
	lot := p.Lot
	if lot.Date.IsZero() {
		lot.Date = time.Now().UTC()
	}

	out := Clone(holdings)
	for i := range out {
		if out[i].Symbol != symbol {
			continue
		}
		h := Normalize(out[i])
		h.Lots = append(h.Lots, lot)
		if p.Name != "" {
			h.Name = p.Name
		}
		if p.LastPrice > 0 {
			h.CurrentPrice = p.LastPrice
		}
		Recompute(&h)
		out[i] = h
		return out, nil
	}

	h := models.Holding{
		Symbol:       symbol,
		Name:         p.Name,
		CurrentPrice: p.LastPrice,
		Lots:         []models.Lot{lot},
	}
	if h.Name == "" {
		h.Name = symbol
	}
	Recompute(&h)
	return append(out, h), nil
}

// RemoveHolding drops the whole record for symbol. The bool is false when no
// holding matched; there is no per-lot removal.
func RemoveHolding(holdings []models.Holding, symbol string) ([]models.Holding, bool) {
	out := make([]models.Holding, 0, len(holdings))
	removed := false
	for _, h := range holdings {
		if h.Symbol == symbol {
			removed = true
			continue
		}
		out = append(out, h)
	}
	return out, removed
}

// Recompute derives Shares and AvgCost from the lot sequence.
// Sums are taken in decimal so the result does not depend on lot order.
func Recompute(h *models.Holding) {
	shares := decimal.Zero
	cost := decimal.Zero
	for _, l := range h.Lots {
		s := decimal.NewFromFloat(l.Shares)
		shares = shares.Add(s)
		cost = cost.Add(s.Mul(decimal.NewFromFloat(l.Price)))
	}
	h.Shares = shares.InexactFloat64()
	if shares.IsZero() {
		h.AvgCost = 0
		return
	}
	h.AvgCost = cost.Div(shares).InexactFloat64()
}

// Normalize upgrades a record written before lots existed by synthesizing a
// single lot from its shares and average cost.
func Normalize(h models.Holding) models.Holding {
	if len(h.Lots) > 0 || h.Shares <= 0 {
		return h
	}
	date := time.Now().UTC()
	if h.DateAdded != nil {
		date = *h.DateAdded
	}
	h.Lots = []models.Lot{{Date: date, Shares: h.Shares, Price: h.AvgCost}}
	h.DateAdded = nil
	return h
}

// Clone deep-copies a holdings list, lots included.
func Clone(holdings []models.Holding) []models.Holding {
	out := make([]models.Holding, len(holdings))
	for i, h := range holdings {
		if h.Lots != nil {
			h.Lots = append([]models.Lot(nil), h.Lots...)
		}
		out[i] = h
	}
	return out
}

// Symbols lists the held symbols in stored order.
func Symbols(holdings []models.Holding) []string {
	out := make([]string, 0, len(holdings))
	for _, h := range holdings {
		out = append(out, h.Symbol)
	}
	return out
}
