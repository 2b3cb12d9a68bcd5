package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"StockTerm/internal/usecase"
	xhttp "StockTerm/pkg/http"
)

type HealthHandler struct {
	book *usecase.QuoteBook
	now  func() time.Time
}

func NewHealthHandler(book *usecase.QuoteBook) *HealthHandler {
	return &HealthHandler{book: book, now: time.Now}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/health", h.Health)
}

type healthResponse struct {
	Status        string     `json:"status"`
	LastUpdate    *time.Time `json:"lastUpdate"`
	StocksInCache int        `json:"stocksInCache"`
	ServerTime    time.Time  `json:"serverTime"`
}

func (h *HealthHandler) Health(c echo.Context) error {
	res := healthResponse{
		Status:        "running",
		StocksInCache: len(h.book.All()),
		ServerTime:    h.now(),
	}
	if at := h.book.UpdatedAt(); !at.IsZero() {
		res.LastUpdate = &at
	}
	return xhttp.SuccessResponse(c, res)
}
