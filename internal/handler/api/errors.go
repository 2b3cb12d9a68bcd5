package api

import (
	"errors"
	"net/http"

	drepo "StockTerm/internal/domain/repository"
	"StockTerm/internal/services/portfolio"
	"StockTerm/internal/usecase"
	xhttp "StockTerm/pkg/http"
)

// toAppError maps use case errors onto the HTTP error envelope. Unknown
// errors become a 500 that keeps the cause for logging.
func toAppError(err error) *xhttp.AppError {
	var appErr *xhttp.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, drepo.ErrNotFound):
		return xhttp.NotFoundErrorf("Stock not found").WithError(err)
	case errors.Is(err, portfolio.ErrInvalidShares):
		return xhttp.FieldError("ERR_INVALID_SHARES", "shares", "shares must be positive").WithError(err)
	case errors.Is(err, portfolio.ErrInvalidPrice):
		return xhttp.FieldError("ERR_INVALID_PRICE", "price", "price must not be negative").WithError(err)
	case errors.Is(err, portfolio.ErrInvalidSymbol):
		return xhttp.FieldError("ERR_REQUIRED", "symbol", "symbol is required").WithError(err)
	case errors.Is(err, usecase.ErrInvalidRange):
		return xhttp.NewAppError("ERR_INVALID_RANGE", "", err.Error(), http.StatusBadRequest).WithError(err)
	case errors.Is(err, usecase.ErrHistoryDisabled), errors.Is(err, usecase.ErrPredictorDisabled):
		return xhttp.NewAppError("ERR_UNAVAILABLE", "", err.Error(), http.StatusServiceUnavailable).WithError(err)
	default:
		return xhttp.InternalError("Something went wrong").WithError(err)
	}
}
