package api

import (
	"bytes"
	"encoding/json"

	"CryptoCast/internal/domain/models"
	"CryptoCast/internal/usecase"
	xhttp "CryptoCast/pkg/http"
	xlogger "CryptoCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PredictionsHandler serves the prediction form, history and dashboard.
type PredictionsHandler struct {
	logger  *xlogger.Logger
	uc      *usecase.PredictionUseCase
	limiter echo.MiddlewareFunc
}

// NewPredictionsHandler creates the handler. limiter guards submissions and may be nil.
func NewPredictionsHandler(logger *xlogger.Logger, uc *usecase.PredictionUseCase, limiter echo.MiddlewareFunc) *PredictionsHandler {
	return &PredictionsHandler{logger: logger, uc: uc, limiter: limiter}
}

func (h *PredictionsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/catalog", h.Catalog)
	g.GET("/dashboard", h.Dashboard)
	g.GET("/predictions", h.History)
	if h.limiter != nil {
		g.POST("/predictions", h.Submit, h.limiter)
	} else {
		g.POST("/predictions", h.Submit)
	}
}

func (h *PredictionsHandler) Catalog(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=3600")
	return xhttp.SuccessResponse(c, h.uc.Catalog())
}

func (h *PredictionsHandler) Submit(c echo.Context) error {
	req := &models.PredictionFormRequest{}
	if err := c.Bind(req); err != nil {
		return xhttp.BadRequestResponse(c, []*xhttp.AppError{xhttp.BadRequestError("Request body must be a JSON object")})
	}

	res, err := h.uc.Submit(c.Request().Context(), req.CryptocurrencyID, req.ModelID, rawHorizon(req.Horizon))
	if err != nil {
		appErr := toAppError(err)
		if appErr.Status >= 500 {
			h.logger.Error("submit usecase error", xlogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, appErr)
	}
	return xhttp.CreatedResponse(c, res)
}

func (h *PredictionsHandler) History(c echo.Context) error {
	q := &models.HistoryQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, q); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	page, err := h.uc.History(c.Request().Context(), q.All)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.ListResponse(c, page.Items, int64(page.Total), int64(page.Remaining))
}

func (h *PredictionsHandler) Dashboard(c echo.Context) error {
	summary, err := h.uc.Dashboard(c.Request().Context())
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, summary)
}

// rawHorizon turns the form value into the text the validator parses.
// Strings are unquoted; numbers keep their literal form.
func rawHorizon(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
