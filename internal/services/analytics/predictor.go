package analytics

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"StockTerm/internal/domain/models"
	domsvc "StockTerm/internal/domain/service"
	xhttp "StockTerm/pkg/http"
)

// HTTPPredictor asks the external prediction service about a quote.
type HTTPPredictor struct {
	base     *HTTPServiceBase
	attempts int
	now      func() time.Time
}

func NewHTTPPredictor(baseURL string, timeout time.Duration, opts ...xhttp.ClientOption) *HTTPPredictor {
	return &HTTPPredictor{
		base:     NewHTTPServiceBase("predict", strings.TrimRight(baseURL, "/"), timeout, opts...),
		attempts: 2,
		now:      time.Now,
	}
}

type predictReq struct {
	Symbol string       `json:"symbol"`
	Query  string       `json:"query,omitempty"`
	Quote  models.Quote `json:"quote"`
}

type predictResp struct {
	Symbol         string   `json:"symbol"`
	CurrentPrice   *float64 `json:"currentPrice"`
	TargetPrice    *float64 `json:"targetPrice"`
	Confidence     *float64 `json:"confidence"`
	Recommendation string   `json:"recommendation"`
	Reasoning      string   `json:"reasoning"`
	RawResponse    string   `json:"rawResponse"`
	Model          string   `json:"model"`
	Timestamp      string   `json:"timestamp"`
	Success        *bool    `json:"success"`
	Error          string   `json:"error"`
}

func (p *HTTPPredictor) Predict(ctx context.Context, quote models.Quote, prompt string) (models.Prediction, error) {
	var pr predictResp
	req := predictReq{Symbol: quote.Symbol, Query: prompt, Quote: quote}
	if err := p.base.PostJSONWithRetry(ctx, "/predict", req, &pr, p.attempts); err != nil {
		return models.Prediction{}, fmt.Errorf("post predict: %w", err)
	}
	if pr.Error != "" || (pr.Success != nil && !*pr.Success) {
		return models.Prediction{}, fmt.Errorf("predict %s: %s", quote.Symbol, pr.Error)
	}
	return p.normalize(quote, pr), nil
}

// normalize fills fields the service left out, first from the labelled lines
// of its raw text and then from fixed defaults.
func (p *HTTPPredictor) normalize(q models.Quote, r predictResp) models.Prediction {
	out := models.Prediction{
		Symbol:         r.Symbol,
		CurrentPrice:   q.Price,
		Recommendation: r.Recommendation,
		Reasoning:      r.Reasoning,
		RawResponse:    r.RawResponse,
		Model:          r.Model,
		Timestamp:      r.Timestamp,
	}
	if out.Symbol == "" {
		out.Symbol = q.Symbol
	}
	if r.CurrentPrice != nil {
		out.CurrentPrice = *r.CurrentPrice
	}

	parsed := ParseRawPrediction(r.RawResponse)
	target := r.TargetPrice
	if target == nil {
		target = parsed.TargetPrice
	}
	conf := r.Confidence
	if conf == nil {
		conf = parsed.Confidence
	}
	if out.Recommendation == "" {
		out.Recommendation = parsed.Recommendation
	}
	if out.Reasoning == "" {
		out.Reasoning = parsed.Reasoning
	}

	switch {
	case target != nil:
		out.TargetPrice = *target
	case q.Change > 0:
		out.TargetPrice = out.CurrentPrice * 1.05
	default:
		out.TargetPrice = out.CurrentPrice * 0.98
	}
	out.Confidence = 70
	if conf != nil {
		out.Confidence = int(*conf)
	}
	if out.Recommendation == "" {
		out.Recommendation = "HOLD"
	}
	if out.Reasoning == "" {
		out.Reasoning = truncate(r.RawResponse, 200)
		if out.Reasoning == "" {
			out.Reasoning = "Analysis based on current market conditions."
		}
	}
	if out.Timestamp == "" {
		out.Timestamp = p.now().UTC().Format(time.RFC3339)
	}
	return out
}

// RawPrediction holds what could be read from labelled lines of free text.
type RawPrediction struct {
	TargetPrice    *float64
	Confidence     *float64
	Recommendation string
	Reasoning      string
}

// ParseRawPrediction reads TARGET_PRICE, CONFIDENCE, RECOMMENDATION and
// REASONING lines. Unparseable numbers are left nil.
func ParseRawPrediction(text string) RawPrediction {
	var out RawPrediction
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "TARGET_PRICE:"):
			v := strings.TrimSpace(strings.TrimPrefix(line, "TARGET_PRICE:"))
			v = strings.NewReplacer("₹", "", ",", "").Replace(v)
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				out.TargetPrice = &f
			}
		case strings.HasPrefix(line, "CONFIDENCE:"):
			v := strings.TrimSpace(strings.TrimPrefix(line, "CONFIDENCE:"))
			v = strings.TrimSpace(strings.TrimSuffix(v, "%"))
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				out.Confidence = &f
			}
		case strings.HasPrefix(line, "RECOMMENDATION:"):
			out.Recommendation = strings.TrimSpace(strings.TrimPrefix(line, "RECOMMENDATION:"))
		case strings.HasPrefix(line, "REASONING:"):
			out.Reasoning = strings.TrimSpace(strings.TrimPrefix(line, "REASONING:"))
		}
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var _ domsvc.Predictor = (*HTTPPredictor)(nil)
