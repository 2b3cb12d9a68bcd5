package ws

import (
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"StockTerm/internal/domain/models"
	applogger "StockTerm/pkg/logger"
)

type quotesMsg struct {
	Type       string         `json:"type"`
	LastUpdate time.Time      `json:"lastUpdate"`
	Count      int            `json:"count"`
	Stocks     []models.Quote `json:"stocks"`
}

// Hub fans quote refreshes out to every /ws/quotes client. New clients get
// the latest snapshot straight away.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	last    *quotesMsg
	log     *applogger.Logger
}

func NewHub(log *applogger.Logger) *Hub {
	if log == nil {
		log = applogger.Nop()
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		log:     log.With(applogger.String("component", "ws_hub")),
	}
}

// BroadcastQuotes implements usecase.QuoteBroadcaster.
func (h *Hub) BroadcastQuotes(quotes []models.Quote, at time.Time) {
	msg := &quotesMsg{Type: "quotes", LastUpdate: at, Count: len(quotes), Stocks: quotes}

	h.mu.Lock()
	h.last = msg
	h.mu.Unlock()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.send(msg)
	}
}

// Clients reports how many ticker connections are open.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	last := h.last
	h.mu.Unlock()

	c.send(statusMsg{Type: "status", Level: "info", Text: "Connected"})
	if last != nil {
		c.send(last)
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

func (h *Hub) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/quotes", h.Serve)
}

// Serve upgrades the request and streams quote snapshots until the peer disconnects.
func (h *Hub) Serve(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", applogger.Error(err))
		return nil
	}
	cl := newClient(conn, h.log)
	h.add(cl)
	defer h.remove(cl)

	go cl.writeLoop()
	// Ticker clients have nothing to say; reading only services pings and close frames.
	cl.readLoop(nil)
	return nil
}
