package models

// Requests for the HTTP endpoints. Defined in domain for consistency and reuse.

type AddLotRequest struct {
	Symbol    string  `json:"symbol" validate:"required,max=32"`
	Name      string  `json:"name" validate:"max=128"`
	Shares    float64 `json:"shares" validate:"gt=0"`
	Price     float64 `json:"price" validate:"gte=0"`
	LastPrice float64 `json:"lastPrice" validate:"gte=0"`
	Date      string  `json:"date"` // RFC3339 or YYYY-MM-DD, empty means now
}

type SymbolRequest struct {
	Symbol string `param:"symbol" validate:"required,max=32"`
}

type SearchRequest struct {
	Query string `query:"q" validate:"max=64"`
}

type HistoryRequest struct {
	Symbol string `param:"symbol" validate:"required,max=32"`
	From   string `query:"from"`
	To     string `query:"to"`
	Limit  int    `query:"limit" default:"500" validate:"gte=1,lte=5000"`
}

type CandlesRequest struct {
	Symbol   string `param:"symbol" validate:"required,max=32"`
	Period   string `query:"period" default:"1mo" validate:"oneof=1d 5d 1mo 3mo 6mo 1y 2y 5y 10y ytd max"`
	Interval string `query:"interval" default:"1d" validate:"oneof=1m 2m 5m 15m 30m 60m 90m 1h 1d 5d 1wk 1mo 3mo"`
}

type PredictRequest struct {
	Symbol string `json:"symbol" validate:"required,max=32"`
	Query  string `json:"query" validate:"max=2000"`
}

type ShortcutsRequest struct {
	Shortcuts []Shortcut `json:"shortcuts" validate:"required,dive"`
}
