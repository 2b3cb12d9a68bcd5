package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"StockTerm/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRawPrediction(t *testing.T) {
	raw := "TARGET_PRICE: ₹2,450.50\nCONFIDENCE: 78%\nRECOMMENDATION: BUY\nREASONING: Momentum is strong."
	p := ParseRawPrediction(raw)

	require.NotNil(t, p.TargetPrice)
	assert.Equal(t, 2450.5, *p.TargetPrice)
	require.NotNil(t, p.Confidence)
	assert.Equal(t, 78.0, *p.Confidence)
	assert.Equal(t, "BUY", p.Recommendation)
	assert.Equal(t, "Momentum is strong.", p.Reasoning)

	p = ParseRawPrediction("TARGET_PRICE: soon\nCONFIDENCE: high")
	assert.Nil(t, p.TargetPrice)
	assert.Nil(t, p.Confidence)
}

func TestHTTPPredictorPostsQuote(t *testing.T) {
	var got predictReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"rawResponse":"TARGET_PRICE: 110\nCONFIDENCE: 80%\nRECOMMENDATION: BUY\nREASONING: ok"}`))
	}))
	defer srv.Close()

	p := NewHTTPPredictor(srv.URL+"/", time.Second)
	out, err := p.Predict(context.Background(), models.Quote{Symbol: "TCS.NS", Price: 100, Change: 1}, "outlook?")
	require.NoError(t, err)

	assert.Equal(t, "TCS.NS", got.Symbol)
	assert.Equal(t, "outlook?", got.Query)
	assert.Equal(t, 100.0, got.Quote.Price)

	assert.Equal(t, "TCS.NS", out.Symbol)
	assert.Equal(t, 100.0, out.CurrentPrice)
	assert.Equal(t, 110.0, out.TargetPrice)
	assert.Equal(t, 80, out.Confidence)
	assert.Equal(t, "BUY", out.Recommendation)
	assert.NotEmpty(t, out.Timestamp)
}

func TestHTTPPredictorDefaults(t *testing.T) {
	p := NewHTTPPredictor("http://unused", time.Second)

	up := p.normalize(models.Quote{Symbol: "A", Price: 100, Change: 2}, predictResp{})
	assert.InDelta(t, 105, up.TargetPrice, 1e-9)
	assert.Equal(t, 70, up.Confidence)
	assert.Equal(t, "HOLD", up.Recommendation)
	assert.NotEmpty(t, up.Reasoning)

	down := p.normalize(models.Quote{Symbol: "A", Price: 100, Change: -1}, predictResp{})
	assert.InDelta(t, 98, down.TargetPrice, 1e-9)
}

func TestHTTPPredictorServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"error":"quota exceeded"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPPredictor(srv.URL, time.Second).Predict(context.Background(), models.Quote{Symbol: "A", Price: 1}, "")
	assert.ErrorContains(t, err, "quota exceeded")

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer down.Close()
	_, err = NewHTTPPredictor(down.URL, time.Second).Predict(context.Background(), models.Quote{Symbol: "A", Price: 1}, "")
	assert.Error(t, err)
}
