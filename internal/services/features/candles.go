package features

import (
	"math"
	"time"

	"StockTerm/internal/domain/models"
)

// Candles buckets snapshots (newest first) into bars of the given width and
// returns them oldest first. Snapshot volume is the day's running total, so a
// bar keeps the largest value seen. Non-positive prices are ignored.
func Candles(snaps []models.QuoteSnapshot, width time.Duration) []models.Candle {
	if width <= 0 {
		width = time.Minute
	}
	step := width.Milliseconds()
	layout := time.RFC3339
	if width >= 24*time.Hour {
		layout = "2006-01-02"
	}

	out := []models.Candle{}
	var bucket int64
	for i := len(snaps) - 1; i >= 0; i-- {
		s := snaps[i]
		if s.Price <= 0 {
			continue
		}
		b := s.Timestamp - s.Timestamp%step
		if len(out) == 0 || b != bucket {
			bucket = b
			out = append(out, models.Candle{
				Date:   time.UnixMilli(b).UTC().Format(layout),
				Open:   s.Price,
				High:   s.Price,
				Low:    s.Price,
				Close:  s.Price,
				Volume: s.Volume,
			})
			continue
		}
		c := &out[len(out)-1]
		c.High = math.Max(c.High, s.Price)
		c.Low = math.Min(c.Low, s.Price)
		c.Close = s.Price
		c.Volume = math.Max(c.Volume, s.Volume)
	}
	return out
}
