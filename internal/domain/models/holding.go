package models

import "time"

// Lot is one purchase of shares at a price. Lots are never edited after creation.
type Lot struct {
	Date   time.Time `json:"date"`
	Shares float64   `json:"shares"`
	Price  float64   `json:"price"`
}

// Holding is the aggregate position in one symbol.
// Shares and AvgCost are derived from Lots and recomputed whenever a lot is appended.
type Holding struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Shares       float64 `json:"shares"`
	AvgCost      float64 `json:"avgCost"`
	CurrentPrice float64 `json:"currentPrice"` // last price seen when a lot was added; may be stale
	Lots         []Lot   `json:"lots"`

	// DateAdded is only present on records written before lots existed.
	DateAdded *time.Time `json:"dateAdded,omitempty"`
}

// Quote is a read-only snapshot from the quote provider.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Sector        string  `json:"sector"`
	Price         float64 `json:"price"`
	PreviousClose float64 `json:"previousClose"`
	Change        float64 `json:"change"` // percent
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Volume        float64 `json:"volume"`
	MarketCap     float64 `json:"marketCap,omitempty"`
	UpdatedAt     string  `json:"lastUpdated,omitempty"`
}

// HasPrice reports whether the quote carries a usable price.
func (q Quote) HasPrice() bool { return q.Price > 0 }

// HasPreviousClose reports whether the quote carries a usable previous close.
func (q Quote) HasPreviousClose() bool { return q.PreviousClose > 0 }
