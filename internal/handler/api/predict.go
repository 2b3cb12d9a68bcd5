package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"StockTerm/internal/domain/models"
	drepo "StockTerm/internal/domain/repository"
	"StockTerm/internal/service/ratelimit"
	"StockTerm/internal/usecase"
	xhttp "StockTerm/pkg/http"
	applogger "StockTerm/pkg/logger"
)

// PredictHandler forwards prediction requests. It carries its own, stricter
// limiter on top of the global /api one.
type PredictHandler struct {
	logger *applogger.Logger
	uc     *usecase.PredictUseCase
	rl     *ratelimit.Limiter
}

func NewPredictHandler(logger *applogger.Logger, uc *usecase.PredictUseCase, rl *ratelimit.Limiter) *PredictHandler {
	if rl == nil {
		rl = ratelimit.New(10, time.Minute)
	}
	return &PredictHandler{logger: logger, uc: uc, rl: rl}
}

func (h *PredictHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/predict", h.Predict)
}

func (h *PredictHandler) Predict(c echo.Context) error {
	key := c.RealIP() + ":predict"
	if !h.rl.Allow(key) {
		c.Response().Header().Set("Retry-After", fmt.Sprintf("%.0f", h.rl.RetryAfter(key).Seconds()+0.5))
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("Too many prediction requests, slow down"))
	}

	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	p, err := h.uc.Predict(c.Request().Context(), req.Symbol, req.Query)
	switch {
	case err == nil:
		return xhttp.SuccessResponse(c, p)
	case errors.Is(err, drepo.ErrNotFound), errors.Is(err, usecase.ErrPredictorDisabled):
		return xhttp.AppErrorResponse(c, toAppError(err))
	default:
		h.logger.Warn("prediction failed", applogger.String("symbol", req.Symbol), applogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadGatewayError("Prediction service unavailable").WithError(err))
	}
}
