package api

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"StockTerm/internal/domain/models"
	"StockTerm/internal/usecase"
	xhttp "StockTerm/pkg/http"
	applogger "StockTerm/pkg/logger"
	"StockTerm/pkg/util"
)

// QuotesHandler serves the quote book, recorded quote history and OHLC bars.
type QuotesHandler struct {
	logger  *applogger.Logger
	quotes  *usecase.QuotesUseCase
	history *usecase.HistoryUseCase
}

func NewQuotesHandler(logger *applogger.Logger, quotes *usecase.QuotesUseCase, history *usecase.HistoryUseCase) *QuotesHandler {
	return &QuotesHandler{logger: logger, quotes: quotes, history: history}
}

func (h *QuotesHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/quotes")
	g.GET("", h.List)
	g.GET("/:symbol", h.Get)
	g.GET("/:symbol/history", h.History)
	g.GET("/:symbol/candles", h.Candles)
}

func (h *QuotesHandler) List(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, h.quotes.List())
}

func (h *QuotesHandler) Get(c echo.Context) error {
	req := &models.SymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	q, err := h.quotes.Get(c.Request().Context(), req.Symbol)
	if err != nil {
		appErr := toAppError(err)
		if appErr.Status >= 500 {
			h.logger.Error("quote lookup error", applogger.String("symbol", req.Symbol), applogger.Error(err))
			return xhttp.AppErrorResponse(c, xhttp.BadGatewayError("Quote service unavailable").WithError(err))
		}
		return xhttp.AppErrorResponse(c, appErr)
	}
	return xhttp.SuccessResponse(c, q)
}

func (h *QuotesHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	var from, to time.Time
	if req.From != "" {
		t, ok := util.ParseTime(req.From)
		if !ok {
			return xhttp.AppErrorResponse(c, xhttp.FieldError("ERR_INVALID_TIME", "from", "from must be RFC3339, YYYY-MM-DD or a unix timestamp"))
		}
		from = t
	}
	if req.To != "" {
		t, ok := util.ParseTime(req.To)
		if !ok {
			return xhttp.AppErrorResponse(c, xhttp.FieldError("ERR_INVALID_TIME", "to", "to must be RFC3339, YYYY-MM-DD or a unix timestamp"))
		}
		to = t
	}

	res, err := h.history.Get(c.Request().Context(), usecase.HistoryParams{
		Symbol: req.Symbol,
		From:   from,
		To:     to,
		Limit:  req.Limit,
	})
	if err != nil {
		h.logger.Error("history usecase error", applogger.String("symbol", req.Symbol), applogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *QuotesHandler) Candles(c echo.Context) error {
	req := &models.CandlesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.history.Candles(c.Request().Context(), usecase.CandleParams{
		Symbol:   req.Symbol,
		Period:   req.Period,
		Interval: req.Interval,
	})
	if err != nil {
		appErr := toAppError(err)
		if appErr.Status >= 500 && !errors.Is(err, usecase.ErrHistoryDisabled) {
			h.logger.Error("candles error", applogger.String("symbol", req.Symbol), applogger.Error(err))
			return xhttp.AppErrorResponse(c, xhttp.BadGatewayError("Market data service unavailable").WithError(err))
		}
		return xhttp.AppErrorResponse(c, appErr)
	}
	return xhttp.SuccessResponse(c, res)
}
