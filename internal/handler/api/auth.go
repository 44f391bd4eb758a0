package api

import (
	"CryptoCast/internal/auth"
	"CryptoCast/internal/domain/models"
	xhttp "CryptoCast/pkg/http"
	xlogger "CryptoCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AuthHandler exposes the session gate.
type AuthHandler struct {
	logger  *xlogger.Logger
	session *auth.Session
}

func NewAuthHandler(logger *xlogger.Logger, session *auth.Session) *AuthHandler {
	return &AuthHandler{logger: logger, session: session}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/auth")
	g.POST("/login", h.Login)
	g.POST("/register", h.Register)
	g.POST("/logout", h.Logout)
	g.GET("/session", h.Session)
	g.DELETE("/error", h.ClearError)
}

func (h *AuthHandler) Login(c echo.Context) error {
	req := &models.LoginRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if _, err := h.session.Login(c.Request().Context(), req.Email, req.Password); err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, h.session.Snapshot())
}

func (h *AuthHandler) Register(c echo.Context) error {
	req := &models.RegisterRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if _, err := h.session.Register(c.Request().Context(), req.Name, req.Email, req.Password); err != nil {
		h.logger.Error("register error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.CreatedResponse(c, h.session.Snapshot())
}

func (h *AuthHandler) Logout(c echo.Context) error {
	h.session.Logout(c.Request().Context())
	return xhttp.SuccessResponse(c, h.session.Snapshot())
}

func (h *AuthHandler) Session(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.session.Snapshot())
}

func (h *AuthHandler) ClearError(c echo.Context) error {
	h.session.ClearError()
	return xhttp.SuccessResponse(c, h.session.Snapshot())
}
