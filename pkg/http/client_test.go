package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendAndParse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			assert.Equal(t, "a,b", r.URL.Query().Get("symbols"))
			_ = json.NewEncoder(w).Encode(map[string]string{"hello": "world"})
		case "/echo":
			var in map[string]int
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			_ = json.NewEncoder(w).Encode(in)
		default:
			http.Error(w, `{"error":"missing"}`, http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL + "/"))
	ctx := context.Background()

	var got map[string]string
	err := c.SendAndParse(ctx, &RequestOptions{Path: "/ok", QueryParams: map[string][]string{"symbols": {"a,b"}}}, &got)
	require.NoError(t, err)
	assert.Equal(t, "world", got["hello"])

	var echoed map[string]int
	err = c.SendAndParse(ctx, &RequestOptions{Method: MethodPost, Path: "echo", Body: map[string]int{"n": 7}}, &echoed)
	require.NoError(t, err)
	assert.Equal(t, 7, echoed["n"])

	err = c.SendAndParse(ctx, &RequestOptions{Path: "/nope"}, nil)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.False(t, IsStatus(err, http.StatusBadGateway))
}
