package api

import (
	"context"
	"time"

	domrepo "CryptoCast/internal/domain/repository"
	"CryptoCast/pkg/cache"
	xhttp "CryptoCast/pkg/http"
	xlogger "CryptoCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

const healthTimeout = 2 * time.Second

type HealthHandler struct {
	logger  *xlogger.Logger
	slot    cache.Service
	archive domrepo.PredictionArchive
}

func NewHealthHandler(logger *xlogger.Logger, slot cache.Service, archive domrepo.PredictionArchive) *HealthHandler {
	return &HealthHandler{logger: logger, slot: slot, archive: archive}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
}

// Health fails only when the history slot is unreachable; the archive is reported but optional.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	status := map[string]string{"status": "ok", "slot": "ok"}
	if err := h.slot.Ping(ctx); err != nil {
		h.logger.Warn("health slot unreachable", xlogger.Error(err))
		status["status"] = "degraded"
		status["slot"] = err.Error()
		return xhttp.ServiceUnavailableResponse(c, status)
	}
	if h.archive != nil {
		if err := h.archive.Health(ctx); err != nil {
			status["archive"] = err.Error()
		} else {
			status["archive"] = "ok"
		}
	}
	return xhttp.SuccessResponse(c, status)
}
