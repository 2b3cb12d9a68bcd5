package api

import (
	"errors"

	"github.com/labstack/echo/v4"

	"StockTerm/internal/domain/models"
	drepo "StockTerm/internal/domain/repository"
	"StockTerm/internal/usecase"
	xhttp "StockTerm/pkg/http"
	applogger "StockTerm/pkg/logger"
)

type SearchHandler struct {
	logger *applogger.Logger
	uc     *usecase.SearchUseCase
}

func NewSearchHandler(logger *applogger.Logger, uc *usecase.SearchUseCase) *SearchHandler {
	return &SearchHandler{logger: logger, uc: uc}
}

func (h *SearchHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/search")
	g.GET("", h.Search)
	g.GET("/remote", h.Remote)
}

// Search ranks the local catalog. The state tells the client whether a remote lookup is worth making.
func (h *SearchHandler) Search(c echo.Context) error {
	req := &models.SearchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.uc.Search(req.Query))
}

type remoteResult struct {
	Query  string                 `json:"query"`
	Result models.ScoredCandidate `json:"result"`
}

// Remote runs the remote symbol lookup now; debouncing is the caller's job here.
func (h *SearchHandler) Remote(c echo.Context) error {
	req := &models.SearchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	e, err := h.uc.Lookup(c.Request().Context(), req.Query)
	switch {
	case errors.Is(err, drepo.ErrNotFound):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("No instrument matches %q", req.Query).WithError(err))
	case err != nil:
		h.logger.Warn("remote lookup failed", applogger.String("query", req.Query), applogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadGatewayError("Symbol lookup unavailable").WithError(err))
	}
	return xhttp.SuccessResponse(c, remoteResult{
		Query:  req.Query,
		Result: models.ScoredCandidate{CatalogEntry: e, Remote: true},
	})
}
