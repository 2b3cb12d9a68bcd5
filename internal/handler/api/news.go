package api

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"StockTerm/internal/service/ratelimit"
	"StockTerm/internal/usecase"
	xhttp "StockTerm/pkg/http"
)

// NewsHandler serves GET /api/news behind its own per-IP limiter.
type NewsHandler struct {
	uc *usecase.NewsUseCase
	rl *ratelimit.Limiter
}

func NewNewsHandler(uc *usecase.NewsUseCase, rl *ratelimit.Limiter) *NewsHandler {
	if rl == nil {
		rl = ratelimit.New(20, time.Minute)
	}
	return &NewsHandler{uc: uc, rl: rl}
}

func (h *NewsHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/news", h.List)
}

func (h *NewsHandler) List(c echo.Context) error {
	key := c.RealIP() + ":news"
	if !h.rl.Allow(key) {
		c.Response().Header().Set("Retry-After", fmt.Sprintf("%.0f", h.rl.RetryAfter(key).Seconds()+0.5))
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("Too many news requests, slow down"))
	}
	return xhttp.SuccessResponse(c, h.uc.Latest(c.Request().Context()))
}
