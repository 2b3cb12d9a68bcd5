// Package portfolio values stored holdings against live quotes and maintains
// the lot/aggregate invariants of a holding. Everything here is a pure function
// of its inputs; loading, saving and quote polling belong to the callers.
package portfolio

import (
	"github.com/shopspring/decimal"

	"StockTerm/internal/domain/models"
)

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

// IndexQuotes keys quotes by symbol. Later duplicates win.
func IndexQuotes(quotes []models.Quote) map[string]models.Quote {
	idx := make(map[string]models.Quote, len(quotes))
	for _, q := range quotes {
		if q.Symbol == "" {
			continue
		}
		idx[q.Symbol] = q
	}
	return idx
}

// ResolvePrice picks a holding's price in order of precedence:
// live quote price, then the stored CurrentPrice, then AvgCost.
// A zero or missing value falls through to the next step.
func ResolvePrice(h models.Holding, quote *models.Quote) (float64, models.PriceSource) {
	if quote != nil && quote.HasPrice() {
		return quote.Price, models.PriceSourceLive
	}
	if h.CurrentPrice > 0 {
		return h.CurrentPrice, models.PriceSourceStored
	}
	return h.AvgCost, models.PriceSourceCost
}

// Percent returns pl/base*100, or 0 when base is not positive.
func Percent(pl, base float64) float64 {
	if base <= 0 {
		return 0
	}
	return pl / base * 100
}

// DetailHolding values one holding. The quote may be nil. Money is multiplied
// and subtracted in decimal and converted back to float64 once.
func DetailHolding(h models.Holding, quote *models.Quote) models.HoldingDetail {
	h = Normalize(h)
	price, src := ResolvePrice(h, quote)
	shares, px := dec(h.Shares), dec(price)

	mv := shares.Mul(px)
	cb := shares.Mul(dec(h.AvgCost))
	d := models.HoldingDetail{
		Symbol:       h.Symbol,
		Name:         h.Name,
		Shares:       h.Shares,
		AvgCost:      h.AvgCost,
		CurrentPrice: price,
		PriceSource:  src,
		MarketValue:  mv.InexactFloat64(),
		CostBasis:    cb.InexactFloat64(),
		UnrealizedPL: mv.Sub(cb).InexactFloat64(),
	}
	d.UnrealizedPLPercent = Percent(d.UnrealizedPL, d.CostBasis)

	// Day P/L needs the live quote's previous close; without it the holding contributes nothing.
	if quote != nil && quote.HasPreviousClose() {
		d.DayPL = px.Sub(dec(quote.PreviousClose)).Mul(shares).InexactFloat64()
		d.HasDayPL = true
	}

	d.Lots = make([]models.LotDetail, 0, len(h.Lots))
	for _, l := range h.Lots {
		lmv := dec(l.Shares).Mul(px)
		lcb := dec(l.Shares).Mul(dec(l.Price))
		ld := models.LotDetail{
			Lot:         l,
			MarketValue: lmv.InexactFloat64(),
			CostBasis:   lcb.InexactFloat64(),
			PL:          lmv.Sub(lcb).InexactFloat64(),
		}
		ld.PLPercent = Percent(ld.PL, ld.CostBasis)
		d.Lots = append(d.Lots, ld)
	}
	return d
}

// Value computes per-holding details and portfolio totals. Totals are summed
// in decimal so they do not depend on holding order.
func Value(holdings []models.Holding, quotes []models.Quote) models.Valuation {
	idx := IndexQuotes(quotes)
	v := models.Valuation{Holdings: make([]models.HoldingDetail, 0, len(holdings))}

	equity, invested, dayPL := decimal.Zero, decimal.Zero, decimal.Zero
	for _, h := range holdings {
		var qp *models.Quote
		if q, ok := idx[h.Symbol]; ok {
			qp = &q
		}
		d := DetailHolding(h, qp)
		v.Holdings = append(v.Holdings, d)

		equity = equity.Add(dec(d.MarketValue))
		invested = invested.Add(dec(d.CostBasis))
		dayPL = dayPL.Add(dec(d.DayPL))
	}

	s := models.PortfolioSummary{
		TotalEquity:     equity.InexactFloat64(),
		InvestedCapital: invested.InexactFloat64(),
		DayPL:           dayPL.InexactFloat64(),
		NetPL:           equity.Sub(invested).InexactFloat64(),
		HoldingsCount:   len(holdings),
	}
	s.NetPLPercent = Percent(s.NetPL, s.InvestedCapital)
	s.DayPLPercent = Percent(s.DayPL, s.InvestedCapital)
	v.Summary = s
	return v
}
