package quotes

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"StockTerm/internal/domain/models"
)

// stockPayload is one quote as the market data service renders it.
type stockPayload struct {
	Symbol        string     `json:"symbol"`
	Name          string     `json:"name"`
	Sector        string     `json:"sector"`
	Price         flexNumber `json:"price"`
	Change        flexNumber `json:"change"`
	Open          flexNumber `json:"open"`
	High          flexNumber `json:"high"`
	Low           flexNumber `json:"low"`
	PreviousClose flexNumber `json:"previousClose"`
	Volume        flexNumber `json:"volume"`
	MarketCap     flexNumber `json:"marketCap"`
	LastUpdated   string     `json:"lastUpdated"`
	Error         string     `json:"error"`
}

type stocksPayload struct {
	Stocks     []stockPayload `json:"stocks"`
	LastUpdate string         `json:"lastUpdate"`
	Count      int            `json:"count"`
}

func (p stockPayload) quote() models.Quote {
	return models.Quote{
		Symbol:        p.Symbol,
		Name:          p.Name,
		Sector:        p.Sector,
		Price:         float64(p.Price),
		Change:        float64(p.Change),
		Open:          float64(p.Open),
		High:          float64(p.High),
		Low:           float64(p.Low),
		PreviousClose: float64(p.PreviousClose),
		Volume:        float64(p.Volume),
		MarketCap:     float64(p.MarketCap),
		UpdatedAt:     p.LastUpdated,
	}
}

type candlePayload struct {
	Date   string     `json:"date"`
	Open   flexNumber `json:"open"`
	High   flexNumber `json:"high"`
	Low    flexNumber `json:"low"`
	Close  flexNumber `json:"close"`
	Volume flexNumber `json:"volume"`
}

type historyPayload struct {
	Symbol   string          `json:"symbol"`
	Period   string          `json:"period"`
	Interval string          `json:"interval"`
	Data     []candlePayload `json:"data"`
	Count    int             `json:"count"`
}

func (p candlePayload) candle() models.Candle {
	return models.Candle{
		Date:   p.Date,
		Open:   float64(p.Open),
		High:   float64(p.High),
		Low:    float64(p.Low),
		Close:  float64(p.Close),
		Volume: float64(p.Volume),
	}
}

type newsItemPayload struct {
	Title               string     `json:"title"`
	Link                string     `json:"link"`
	Publisher           string     `json:"publisher"`
	Time                string     `json:"time"`
	ProviderPublishTime flexNumber `json:"providerPublishTime"`
}

type newsPayload struct {
	News      []newsItemPayload `json:"news"`
	Count     int               `json:"count"`
	Timestamp string            `json:"timestamp"`
}

// flexNumber accepts JSON numbers, numeric strings, abbreviated strings
// such as "1.25M" or "3.4T", and placeholders like "N/A" (read as 0).
type flexNumber float64

var magnitudes = map[byte]float64{'K': 1e3, 'M': 1e6, 'B': 1e9, 'T': 1e12}

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if b[0] != '"' {
		var f float64
		if err := json.Unmarshal(b, &f); err != nil {
			return err
		}
		*n = flexNumber(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*n = flexNumber(parseAbbreviated(s))
	return nil
}

func parseAbbreviated(s string) float64 {
	s = strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(s, ",", "")))
	if s == "" {
		return 0
	}
	mult := 1.0
	if m, ok := magnitudes[s[len(s)-1]]; ok {
		mult = m
		s = s[:len(s)-1]
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f * mult
}
