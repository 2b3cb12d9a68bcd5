package models

// Candle is one OHLC bar. Date is YYYY-MM-DD for daily or wider bars and
// RFC3339 for intraday ones.
type Candle struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// NewsItem is one market headline. Time is the provider's HH:MM label.
type NewsItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Publisher   string `json:"publisher"`
	Time        string `json:"time"`
	PublishedAt int64  `json:"providerPublishTime"`
}
