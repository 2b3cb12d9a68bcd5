// Package features derives summary numbers from quote history.
package features

import (
	"math"

	"StockTerm/internal/domain/models"
)

// ComputeLogReturns computes r_t = ln(p_t / p_{t-1}) over prices in time order.
// Pairs with a non-positive price contribute 0. Returns nil for fewer than two prices.
func ComputeLogReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	out := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev, cur := prices[i-1], prices[i]
		if prev <= 0 || cur <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, math.Log(cur/prev))
	}
	return out
}

// StdDev is the sample standard deviation. Zero for fewer than two values.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	sum, sum2 := 0.0, 0.0
	for _, x := range xs {
		sum += x
		sum2 += x * x
	}
	n := float64(len(xs))
	mean := sum / n
	variance := (sum2 - n*mean*mean) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// Summarize expects snapshots newest first, as history queries return them.
func Summarize(snaps []models.QuoteSnapshot) models.HistoryStats {
	if len(snaps) == 0 {
		return models.HistoryStats{}
	}
	prices := make([]float64, len(snaps))
	for i, s := range snaps {
		prices[len(snaps)-1-i] = s.Price
	}

	st := models.HistoryStats{
		First: prices[0],
		Last:  prices[len(prices)-1],
		High:  prices[0],
		Low:   prices[0],
	}
	for _, p := range prices[1:] {
		st.High = math.Max(st.High, p)
		st.Low = math.Min(st.Low, p)
	}
	if st.First > 0 {
		st.ChangePercent = (st.Last - st.First) / st.First * 100
	}
	st.Volatility = StdDev(ComputeLogReturns(prices)) * 100
	return st
}
