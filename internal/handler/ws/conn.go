// Package ws pushes quote snapshots and live-search updates over websockets.
package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	applogger "StockTerm/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 90 * time.Second
	pingPeriod = 45 * time.Second
	sendBuffer = 64
	maxMessage = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:    1024,
	WriteBufferSize:   4096,
	CheckOrigin:       func(*http.Request) bool { return true },
	EnableCompression: true,
}

// client owns one connection. Only the writer goroutine writes to conn.
type client struct {
	conn *websocket.Conn
	out  chan any
	done chan struct{}
	once sync.Once
	log  *applogger.Logger

	// latest holds at most one pending frame; a newer one replaces it.
	latestMu sync.Mutex
	latest   chan any
}

func newClient(conn *websocket.Conn, log *applogger.Logger) *client {
	return &client{
		conn: conn,
		out:    make(chan any, sendBuffer),
		done:   make(chan struct{}),
		log:    log,
		latest: make(chan any, 1),
	}
}

// send queues v without blocking. A full buffer drops the message; slow
// readers miss intermediate frames rather than stalling producers.
func (c *client) send(v any) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.out <- v:
		return true
	default:
		c.log.Debug("ws send buffer full, dropping message")
		return false
	}
}

// sendLatest queues v in place of any frame sendLatest queued that the
// writer has not picked up yet. The newest state always reaches the peer.
func (c *client) sendLatest(v any) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	c.latestMu.Lock()
	defer c.latestMu.Unlock()
	select {
	case <-c.latest:
	default:
	}
	c.latest <- v
	return true
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (c *client) writeLoop() {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	defer c.close()
	for {
		select {
		case v := <-c.out:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(v); err != nil {
				return
			}
		case v := <-c.latest:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(v); err != nil {
				return
			}
		case <-ping.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// readLoop delivers text frames to onText until the peer goes away.
func (c *client) readLoop(onText func([]byte)) {
	defer c.close()
	c.conn.SetReadLimit(maxMessage)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		mt, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		if mt == websocket.TextMessage && onText != nil {
			onText(data)
		}
	}
}

type statusMsg struct {
	Type  string `json:"type"`
	Level string `json:"level"`
	Text  string `json:"text"`
}
