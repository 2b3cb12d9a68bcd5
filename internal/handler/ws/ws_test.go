package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockTerm/internal/domain/models"
	"StockTerm/internal/services/search"
	"StockTerm/internal/usecase"
	applogger "StockTerm/pkg/logger"
	"StockTerm/pkg/metrics"
)

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readUntil(t *testing.T, conn *websocket.Conn, typ string, dest interface{}) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var head map[string]any
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &head))
		if head["type"] == typ {
			require.NoError(t, json.Unmarshal(data, dest))
			return
		}
	}
}

func TestHubSendsLatestSnapshotAndBroadcasts(t *testing.T) {
	hub := NewHub(nil)
	hub.BroadcastQuotes([]models.Quote{{Symbol: "TCS.NS", Price: 3500}}, time.Now())

	e := echo.New()
	hub.RegisterRoutes(e)
	srv := httptest.NewServer(e)
	defer srv.Close()

	conn := dial(t, srv, "/ws/quotes")
	var first quotesMsg
	readUntil(t, conn, "quotes", &first)
	require.Len(t, first.Stocks, 1)
	assert.Equal(t, "TCS.NS", first.Stocks[0].Symbol)

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)
	hub.BroadcastQuotes([]models.Quote{{Symbol: "INFY.NS", Price: 1500}, {Symbol: "TCS.NS", Price: 3510}}, time.Now())

	var next quotesMsg
	readUntil(t, conn, "quotes", &next)
	assert.Equal(t, 2, next.Count)
}

func TestSearchSocketStreamsUpdates(t *testing.T) {
	m, err := search.NewMatcher(search.NewStaticCatalog(search.DefaultEntries))
	require.NoError(t, err)
	uc := usecase.NewSearchUseCase(m, nil, metrics.Nop{}, nil, 0)

	e := echo.New()
	NewSearchHandler(uc, nil).RegisterRoutes(e)
	srv := httptest.NewServer(e)
	defer srv.Close()

	conn := dial(t, srv, "/ws/search")
	require.NoError(t, conn.WriteJSON(queryMsg{Type: "query", Query: "infy"}))

	var got searchMsg
	readUntil(t, conn, "search", &got)
	assert.Equal(t, search.PhaseLocalHit, got.Phase)
	require.NotEmpty(t, got.Candidates)
	assert.Equal(t, "INFY.NS", got.Candidates[0].Symbol)
	assert.Equal(t, uint64(1), got.Keystroke)
}

func TestClientSendAfterCloseIsDropped(t *testing.T) {
	e := echo.New()
	var cl *client
	ready := make(chan struct{})
	e.GET("/x", func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		require.NoError(t, err)
		cl = newClient(conn, applogger.Nop())
		close(ready)
		cl.readLoop(nil)
		return nil
	})
	srv := httptest.NewServer(e)
	defer srv.Close()

	conn := dial(t, srv, "/x")
	<-ready
	_ = conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	select {
	case <-cl.done:
	case <-ctx.Done():
		t.Fatal("client not closed after peer went away")
	}
	assert.False(t, cl.send("late"))
}

func TestClientSendLatestKeepsNewestFrame(t *testing.T) {
	cl := newClient(nil, applogger.Nop())
	for i := 0; i < sendBuffer*2; i++ {
		assert.True(t, cl.sendLatest(i))
	}
	require.Len(t, cl.latest, 1)
	assert.Equal(t, sendBuffer*2-1, <-cl.latest)

	close(cl.done)
	assert.False(t, cl.sendLatest("late"))
}
