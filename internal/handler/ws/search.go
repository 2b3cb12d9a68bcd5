package ws

import (
	"context"
	"encoding/json"

	"github.com/labstack/echo/v4"

	"StockTerm/internal/services/search"
	"StockTerm/internal/usecase"
	applogger "StockTerm/pkg/logger"
)

type queryMsg struct {
	Type  string `json:"type"`
	Query string `json:"q"`
}

type searchMsg struct {
	Type string `json:"type"`
	search.Update
}

// SearchHandler runs one live-search session per connection. Every text frame
// {"type":"query","q":"..."} is a keystroke. Session updates are pushed back;
// a slow reader skips to the newest one.
type SearchHandler struct {
	uc   *usecase.SearchUseCase
	log  *applogger.Logger
	opts []search.SessionOption
}

func NewSearchHandler(uc *usecase.SearchUseCase, log *applogger.Logger) *SearchHandler {
	if log == nil {
		log = applogger.Nop()
	}
	return &SearchHandler{uc: uc, log: log.With(applogger.String("component", "ws_search"))}
}

func (h *SearchHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/search", h.Serve)
}

func (h *SearchHandler) Serve(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", applogger.Error(err))
		return nil
	}
	cl := newClient(conn, h.log)

	// Not the request context: echo may cancel it once the handler's response is hijacked.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess := h.uc.NewSession(ctx, func(u search.Update) {
		cl.sendLatest(searchMsg{Type: "search", Update: u})
	}, h.opts...)
	defer sess.Close()

	go cl.writeLoop()
	cl.readLoop(func(data []byte) {
		var m queryMsg
		if err := json.Unmarshal(data, &m); err != nil {
			cl.send(statusMsg{Type: "status", Level: "error", Text: "invalid message"})
			return
		}
		if m.Type != "" && m.Type != "query" {
			return
		}
		sess.Type(m.Query)
	})
	return nil
}
