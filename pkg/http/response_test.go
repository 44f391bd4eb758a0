package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorResponseEnvelope(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	appErr := NewAppError("ERR_INVALID_HORIZON", "horizon", "Prediction horizon cannot exceed 30 days.", http.StatusBadRequest).
		WithParam("max", 30)
	require.NoError(t, AppErrorResponse(c, appErr))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{
		"status": 400,
		"message": "Bad Request",
		"data": [{"code":"ERR_INVALID_HORIZON","field":"horizon","message":"Prediction horizon cannot exceed 30 days.","params":{"max":30}}]
	}`, rec.Body.String())
}

func TestAppErrorResponseUnknownError(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, AppErrorResponse(c, errors.New("boom")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, ListResponse(c, []string{"a", "b"}, 7, 5))
	assert.JSONEq(t, `{"status":200,"message":"OK","data":{"rows":["a","b"],"total":7,"remaining":5}}`, rec.Body.String())
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	appErr := ServiceUnavailableError("ERR_NETWORK", "Could not reach the prediction service.").WithError(cause)
	assert.ErrorIs(t, appErr, cause)
	assert.Equal(t, http.StatusServiceUnavailable, appErr.Status)
	assert.Contains(t, appErr.Error(), "refused")
}
