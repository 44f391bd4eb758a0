package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newCORSEcho(origins ...string) *echo.Echo {
	e := echo.New()
	e.Use(CORS(CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderContentType},
		MaxAge:       600,
	}))
	e.GET("/api/catalog", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	return e
}

func TestCORSAllowedOrigin(t *testing.T) {
	e := newCORSEcho("http://localhost:5173")

	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:5173")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "GET, POST", rec.Header().Get(echo.HeaderAccessControlAllowMethods))
}

func TestCORSRejectedOrigin(t *testing.T) {
	e := newCORSEcho("http://localhost:5173")

	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	req.Header.Set(echo.HeaderOrigin, "http://evil.example")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, echo.HeaderOrigin, rec.Header().Get(echo.HeaderVary))
}

func TestCORSPreflight(t *testing.T) {
	e := newCORSEcho("*")

	req := httptest.NewRequest(http.MethodOptions, "/api/catalog", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:5173")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "600", rec.Header().Get(echo.HeaderAccessControlMaxAge))
}

func TestOriginAllowed(t *testing.T) {
	assert.True(t, originAllowed(nil, "http://any"))
	assert.True(t, originAllowed([]string{"*"}, "http://any"))
	assert.False(t, originAllowed([]string{"http://a"}, "http://b"))
}
