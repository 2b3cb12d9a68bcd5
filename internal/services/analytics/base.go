package analytics

import (
	"context"
	"fmt"
	"time"

	svcmetrics "StockTerm/internal/service/metrics"
	xhttp "StockTerm/pkg/http"
)

// HTTPServiceBase holds the client and base URL shared by calls to the
// external analytics service.
type HTTPServiceBase struct {
	name    string
	baseURL string
	client  *xhttp.Client
}

func NewHTTPServiceBase(name, baseURL string, timeout time.Duration, opts ...xhttp.ClientOption) *HTTPServiceBase {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	opts = append([]xhttp.ClientOption{xhttp.WithTimeout(timeout)}, opts...)
	return &HTTPServiceBase{
		name:    name,
		baseURL: baseURL,
		client:  xhttp.NewClient(opts...),
	}
}

// PostJSON posts payload to path under baseURL and decodes the JSON reply into dest.
func (b *HTTPServiceBase) PostJSON(ctx context.Context, path string, payload interface{}, dest interface{}) (err error) {
	if b.client == nil || b.baseURL == "" {
		return fmt.Errorf("%s http client not initialized", b.name)
	}
	defer func(start time.Time) { svcmetrics.Observe(b.name, path, start, err) }(time.Now())

	err = b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    b.baseURL + path,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: payload,
	}, dest)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	return nil
}

// PostJSONWithRetry retries PostJSON up to attempts times with linear backoff.
func (b *HTTPServiceBase) PostJSONWithRetry(ctx context.Context, path string, payload interface{}, dest interface{}, attempts int) error {
	if attempts <= 1 {
		return b.PostJSON(ctx, path, payload, dest)
	}
	var err error
	for i := 1; i <= attempts; i++ {
		err = b.PostJSON(ctx, path, payload, dest)
		if err == nil {
			return nil
		}
		if i == attempts {
			break
		}
		select {
		case <-time.After(time.Duration(i) * 50 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
