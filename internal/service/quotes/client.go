// Package quotes adapts the market data HTTP service to the quote provider
// and remote symbol lookup interfaces.
package quotes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"StockTerm/internal/domain/models"
	"StockTerm/internal/domain/repository"
	svcmetrics "StockTerm/internal/service/metrics"
	xhttp "StockTerm/pkg/http"
)

const serviceName = "quotes"

// Client reads quotes from GET /api/stocks and GET /api/stocks/{symbol},
// bars from GET /api/stocks/{symbol}/history and headlines from GET /api/news.
type Client struct {
	http *xhttp.Client
}

func NewClient(baseURL string, timeout time.Duration, opts ...xhttp.ClientOption) *Client {
	opts = append([]xhttp.ClientOption{xhttp.WithBaseURL(baseURL), xhttp.WithTimeout(timeout)}, opts...)
	return &Client{http: xhttp.NewClient(opts...)}
}

// GetQuotes returns the service's current list, optionally narrowed to symbols.
func (c *Client) GetQuotes(ctx context.Context, symbols ...string) (out []models.Quote, err error) {
	defer func(start time.Time) { svcmetrics.Observe(serviceName, "stocks", start, err) }(time.Now())

	opts := &xhttp.RequestOptions{Path: "/api/stocks"}
	if len(symbols) > 0 {
		opts.QueryParams = map[string][]string{"symbols": {strings.Join(symbols, ",")}}
	}

	var payload stocksPayload
	if err := c.http.SendAndParse(ctx, opts, &payload); err != nil {
		return nil, fmt.Errorf("get quotes: %w", err)
	}

	out = make([]models.Quote, 0, len(payload.Stocks))
	for _, p := range payload.Stocks {
		if p.Symbol == "" {
			continue
		}
		out = append(out, p.quote())
	}
	return out, nil
}

// GetQuote fetches one symbol. Unknown symbols return repository.ErrNotFound.
func (c *Client) GetQuote(ctx context.Context, symbol string) (q models.Quote, err error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return models.Quote{}, repository.ErrNotFound
	}
	defer func(start time.Time) {
		if errors.Is(err, repository.ErrNotFound) {
			svcmetrics.Observe(serviceName, "stock", start, nil)
			return
		}
		svcmetrics.Observe(serviceName, "stock", start, err)
	}(time.Now())

	var p stockPayload
	err = c.http.SendAndParse(ctx, &xhttp.RequestOptions{Path: "/api/stocks/" + url.PathEscape(symbol)}, &p)
	switch {
	case xhttp.IsStatus(err, http.StatusNotFound):
		return models.Quote{}, fmt.Errorf("quote %s: %w", symbol, repository.ErrNotFound)
	case err != nil:
		return models.Quote{}, fmt.Errorf("get quote %s: %w", symbol, err)
	case p.Error != "" || p.Symbol == "":
		return models.Quote{}, fmt.Errorf("quote %s: %w", symbol, repository.ErrNotFound)
	}
	return p.quote(), nil
}

// GetCandles fetches OHLC bars oldest first. Bars without a date or close are skipped.
func (c *Client) GetCandles(ctx context.Context, symbol, period, interval string) (out []models.Candle, err error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, repository.ErrNotFound
	}
	defer func(start time.Time) { svcmetrics.Observe(serviceName, "history", start, err) }(time.Now())

	opts := &xhttp.RequestOptions{
		Path:        "/api/stocks/" + url.PathEscape(symbol) + "/history",
		QueryParams: map[string][]string{"period": {period}, "interval": {interval}},
	}
	var p historyPayload
	if err := c.http.SendAndParse(ctx, opts, &p); err != nil {
		if xhttp.IsStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("candles %s: %w", symbol, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("get candles %s: %w", symbol, err)
	}

	out = make([]models.Candle, 0, len(p.Data))
	for _, d := range p.Data {
		if d.Date == "" || d.Close <= 0 {
			continue
		}
		out = append(out, d.candle())
	}
	return out, nil
}

// GetNews fetches the service's market headlines. Items without a title are skipped.
func (c *Client) GetNews(ctx context.Context) (out []models.NewsItem, err error) {
	defer func(start time.Time) { svcmetrics.Observe(serviceName, "news", start, err) }(time.Now())

	var p newsPayload
	if err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{Path: "/api/news"}, &p); err != nil {
		return nil, fmt.Errorf("get news: %w", err)
	}
	out = make([]models.NewsItem, 0, len(p.News))
	for _, n := range p.News {
		if strings.TrimSpace(n.Title) == "" {
			continue
		}
		out = append(out, models.NewsItem{
			Title:       n.Title,
			Link:        n.Link,
			Publisher:   n.Publisher,
			Time:        n.Time,
			PublishedAt: int64(n.ProviderPublishTime),
		})
	}
	return out, nil
}

var (
	_ repository.QuoteProvider  = (*Client)(nil)
	_ repository.CandleProvider = (*Client)(nil)
	_ repository.NewsProvider   = (*Client)(nil)
)
