package models

// CatalogEntry is static reference data for one instrument.
type CatalogEntry struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
}

// ScoredCandidate is a catalog entry ranked against a query. Remote marks
// entries that came from the remote lookup rather than the local catalog.
type ScoredCandidate struct {
	CatalogEntry
	Score  int  `json:"score"`
	Remote bool `json:"isLive,omitempty"`
}

// Shortcut is one keyboard binding stored for the settings screen.
type Shortcut struct {
	Action string `json:"action" validate:"required"`
	Key    string `json:"key" validate:"required"`
	Ctrl   bool   `json:"ctrl"`
	Shift  bool   `json:"shift"`
	Alt    bool   `json:"alt"`
}

// QuoteSnapshot is one row of quote history.
type QuoteSnapshot struct {
	Symbol        string  `json:"symbol"`
	Timestamp     int64   `json:"t"`
	Price         float64 `json:"price"`
	PreviousClose float64 `json:"previousClose"`
	Volume        float64 `json:"volume"`
}

// HistoryStats summarizes a window of snapshots. Volatility is the sample
// standard deviation of log returns between consecutive snapshots, in percent.
type HistoryStats struct {
	First         float64 `json:"first"`
	Last          float64 `json:"last"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	ChangePercent float64 `json:"changePercent"`
	Volatility    float64 `json:"volatility"`
}

// Prediction is the prediction service's answer for one symbol. Confidence is a percentage.
type Prediction struct {
	Symbol         string  `json:"symbol"`
	CurrentPrice   float64 `json:"currentPrice"`
	TargetPrice    float64 `json:"targetPrice"`
	Confidence     int     `json:"confidence"`
	Recommendation string  `json:"recommendation"`
	Reasoning      string  `json:"reasoning"`
	RawResponse    string  `json:"rawResponse,omitempty"`
	Model          string  `json:"model,omitempty"`
	Timestamp      string  `json:"timestamp,omitempty"`
}
