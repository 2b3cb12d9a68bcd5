package models

// PriceSource tells which step of the price fallback chain produced a holding's price.
type PriceSource string

const (
	PriceSourceLive   PriceSource = "live"
	PriceSourceStored PriceSource = "stored"
	PriceSourceCost   PriceSource = "cost"
)

// PortfolioSummary holds portfolio-wide totals. Percentages are relative to invested capital.
type PortfolioSummary struct {
	TotalEquity     float64 `json:"totalEquity"`
	InvestedCapital float64 `json:"investedCapital"`
	DayPL           float64 `json:"dayPL"`
	DayPLPercent    float64 `json:"dayPLPercent"`
	NetPL           float64 `json:"netPL"`
	NetPLPercent    float64 `json:"netPLPercent"`
	HoldingsCount   int     `json:"holdingsCount"`
}

// LotDetail values a single lot at the holding's resolved price.
type LotDetail struct {
	Lot
	MarketValue float64 `json:"marketValue"`
	CostBasis   float64 `json:"costBasis"`
	PL          float64 `json:"pl"`
	PLPercent   float64 `json:"plPercent"`
}

// HoldingDetail is the derived, never persisted view of one holding.
type HoldingDetail struct {
	Symbol              string      `json:"symbol"`
	Name                string      `json:"name"`
	Shares              float64     `json:"shares"`
	AvgCost             float64     `json:"avgCost"`
	CurrentPrice        float64     `json:"currentPrice"`
	PriceSource         PriceSource `json:"priceSource"`
	MarketValue         float64     `json:"marketValue"`
	CostBasis           float64     `json:"costBasis"`
	UnrealizedPL        float64     `json:"unrealizedPL"`
	UnrealizedPLPercent float64     `json:"unrealizedPLPercent"`
	DayPL               float64     `json:"dayPL"`
	HasDayPL            bool        `json:"hasDayPL"`
	Lots                []LotDetail `json:"lots"`
}

// Valuation is the aggregator output.
type Valuation struct {
	Summary  PortfolioSummary `json:"summary"`
	Holdings []HoldingDetail  `json:"holdings"`
}

// HoldingEvent is published after the holdings collection is replaced.
type HoldingEvent struct {
	Type    string   `json:"type"` // lot_added | holding_removed
	Symbol  string   `json:"symbol"`
	Lot     *Lot     `json:"lot,omitempty"`
	Holding *Holding `json:"holding,omitempty"`
	At      int64    `json:"at"`
}

const (
	EventLotAdded       = "lot_added"
	EventHoldingRemoved = "holding_removed"
)
