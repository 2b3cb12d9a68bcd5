package api

import (
	"github.com/labstack/echo/v4"

	"StockTerm/internal/domain/models"
	drepo "StockTerm/internal/domain/repository"
	xhttp "StockTerm/pkg/http"
	applogger "StockTerm/pkg/logger"
)

// ShortcutsHandler stores keyboard bindings. No semantics beyond storage.
type ShortcutsHandler struct {
	logger *applogger.Logger
	repo   drepo.ShortcutsRepository
}

func NewShortcutsHandler(logger *applogger.Logger, repo drepo.ShortcutsRepository) *ShortcutsHandler {
	return &ShortcutsHandler{logger: logger, repo: repo}
}

func (h *ShortcutsHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/shortcuts", h.Get)
	e.PUT("/api/shortcuts", h.Put)
}

func (h *ShortcutsHandler) Get(c echo.Context) error {
	list, err := h.repo.Load(c.Request().Context())
	if err != nil {
		h.logger.Error("load shortcuts", applogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, list)
}

func (h *ShortcutsHandler) Put(c echo.Context) error {
	req := &models.ShortcutsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err := h.repo.Save(c.Request().Context(), req.Shortcuts); err != nil {
		h.logger.Error("save shortcuts", applogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, req.Shortcuts)
}
