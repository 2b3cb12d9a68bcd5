package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"StockTerm/internal/domain/models"
	"StockTerm/internal/usecase"
	xhttp "StockTerm/pkg/http"
	applogger "StockTerm/pkg/logger"
	"StockTerm/pkg/util"
)

type PortfolioHandler struct {
	logger *applogger.Logger
	uc     *usecase.PortfolioUseCase
}

func NewPortfolioHandler(logger *applogger.Logger, uc *usecase.PortfolioUseCase) *PortfolioHandler {
	return &PortfolioHandler{logger: logger, uc: uc}
}

func (h *PortfolioHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/portfolio")
	g.GET("", h.Valuation)
	g.POST("/lots", h.AddLot)
	g.DELETE("/holdings/:symbol", h.RemoveHolding)
}

func (h *PortfolioHandler) Valuation(c echo.Context) error {
	v, err := h.uc.Valuation(c.Request().Context())
	if err != nil {
		h.logger.Error("valuation usecase error", applogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, v)
}

func (h *PortfolioHandler) AddLot(c echo.Context) error {
	req := &models.AddLotRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	var date time.Time
	if req.Date != "" {
		t, ok := util.ParseTime(req.Date)
		if !ok {
			return xhttp.AppErrorResponse(c, xhttp.FieldError("ERR_INVALID_TIME", "date", "date must be RFC3339 or YYYY-MM-DD"))
		}
		date = t
	}

	holding, err := h.uc.AddLot(c.Request().Context(), usecase.AddLotInput{
		Symbol:    req.Symbol,
		Name:      req.Name,
		Shares:    req.Shares,
		Price:     req.Price,
		LastPrice: req.LastPrice,
		Date:      date,
	})
	if err != nil {
		appErr := toAppError(err)
		if appErr.Status >= 500 {
			h.logger.Error("add lot usecase error", applogger.String("symbol", req.Symbol), applogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, appErr)
	}
	return xhttp.CreatedResponse(c, holding)
}

func (h *PortfolioHandler) RemoveHolding(c echo.Context) error {
	req := &models.SymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err := h.uc.RemoveHolding(c.Request().Context(), req.Symbol); err != nil {
		appErr := toAppError(err)
		if appErr.Status == 404 {
			appErr = xhttp.NotFoundErrorf("Holding %s not found", util.NormalizeSymbol(req.Symbol)).WithError(err)
		} else {
			h.logger.Error("remove holding usecase error", applogger.String("symbol", req.Symbol), applogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, appErr)
	}
	return xhttp.NoContentResponse(c)
}
