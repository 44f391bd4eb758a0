package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"CryptoCast/internal/auth"
	"CryptoCast/internal/repository"
	"CryptoCast/internal/service/forecast"
	"CryptoCast/internal/service/ratelimit"
	"CryptoCast/internal/usecase"
	"CryptoCast/pkg/cache"
	xhttp "CryptoCast/pkg/http"
	xlogger "CryptoCast/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testAPI struct {
	e       *echo.Echo
	session *auth.Session
	history *repository.HistoryStore
}

func newTestAPI(t *testing.T, forecastHandler http.HandlerFunc, limiter echo.MiddlewareFunc) *testAPI {
	t.Helper()
	srv := httptest.NewServer(forecastHandler)
	t.Cleanup(srv.Close)

	slot := cache.NewMemoryCache()
	t.Cleanup(func() { _ = slot.Close() })

	log := xlogger.Nop()
	session := auth.NewSession(repository.NewSessionStore(slot, repository.DefaultSessionKey), log)
	session.LoadSession(context.Background())
	history := repository.NewHistoryStore(slot, repository.DefaultHistoryKey, log, nil)
	history.Load(context.Background())

	client := forecast.New(srv.URL, xhttp.NewClient(xhttp.WithTimeout(2*time.Second)),
		forecast.WithClock(func() time.Time { return time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC) }))
	uc := usecase.NewPredictionUseCase(session, nil, client, history, usecase.WithLogger(log))

	e := echo.New()
	xhttp.Handlers{
		NewHealthHandler(log, slot, repository.NoopArchive{}),
		NewAuthHandler(log, session),
		NewPredictionsHandler(log, uc, limiter),
	}.RegisterRoutes(e)

	return &testAPI{e: e, session: session, history: history}
}

func (a *testAPI) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func (a *testAPI) login(t *testing.T) {
	t.Helper()
	rec, _ := a.do(t, http.MethodPost, "/api/auth/login", `{"email":"demo@example.com","password":"password"}`)
	require.Equal(t, http.StatusOK, rec.Code)
}

func sevenPrices(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte(`{"predicted_prices":[100,101,99,99,102,103,104]}`))
}

func firstError(t *testing.T, env envelope) xhttp.AppError {
	t.Helper()
	var errs []xhttp.AppError
	require.NoError(t, json.Unmarshal(env.Data, &errs))
	require.NotEmpty(t, errs)
	return errs[0]
}

func TestHealthz(t *testing.T) {
	api := newTestAPI(t, sevenPrices, nil)
	rec, env := api.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","slot":"ok","archive":"ok"}`, string(env.Data))
}

func TestCatalog(t *testing.T) {
	api := newTestAPI(t, sevenPrices, nil)
	rec, env := api.do(t, http.MethodGet, "/api/catalog", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var catalog struct {
		Cryptocurrencies []map[string]string `json:"cryptocurrencies"`
		Models           []map[string]string `json:"models"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &catalog))
	assert.Len(t, catalog.Cryptocurrencies, 10)
	assert.Len(t, catalog.Models, 7)
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t, sevenPrices, nil)

	_, env := api.do(t, http.MethodGet, "/api/auth/session", "")
	assert.JSONEq(t, `{"state":"unauthenticated","isAuthenticated":false}`, string(env.Data))

	rec, env := api.do(t, http.MethodPost, "/api/auth/login", `{"email":"demo@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, CodeInvalidCredentials, firstError(t, env).Code)

	_, env = api.do(t, http.MethodGet, "/api/auth/session", "")
	assert.Contains(t, string(env.Data), `"error":"Invalid credentials"`)

	rec, env = api.do(t, http.MethodPost, "/api/auth/login", `{"email":"not-an-email","password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, string(env.Data), "ERR_EMAIL")

	api.login(t)
	_, env = api.do(t, http.MethodGet, "/api/auth/session", "")
	assert.JSONEq(t, `{"state":"authenticated","isAuthenticated":true,"user":{"_id":"1","name":"Demo User","email":"demo@example.com"}}`, string(env.Data))

	rec, _ = api.do(t, http.MethodPost, "/api/auth/logout", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, api.session.IsAuthenticated())
}

func TestRegister(t *testing.T) {
	api := newTestAPI(t, sevenPrices, nil)
	rec, env := api.do(t, http.MethodPost, "/api/auth/register", `{"name":"Alice","email":"alice@example.com","password":"x"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, string(env.Data), `"name":"Alice"`)
	assert.True(t, api.session.IsAuthenticated())
}

func TestSubmitRequiresLogin(t *testing.T) {
	api := newTestAPI(t, sevenPrices, nil)
	rec, env := api.do(t, http.MethodPost, "/api/predictions", `{"cryptocurrencyId":"Bitcoin","modelId":"lstm","horizon":7}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, CodeUnauthorized, firstError(t, env).Code)

	rec, _ = api.do(t, http.MethodGet, "/api/dashboard", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubmitPrediction(t *testing.T) {
	api := newTestAPI(t, sevenPrices, nil)
	api.login(t)

	for _, body := range []string{
		`{"cryptocurrencyId":"Bitcoin","modelId":"lstm","horizon":7}`,
		`{"cryptocurrencyId":"Bitcoin","modelId":"lstm","horizon":"7"}`,
	} {
		rec, env := api.do(t, http.MethodPost, "/api/predictions", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var out struct {
			Result map[string]any `json:"result"`
			View   struct {
				Chart []map[string]any `json:"chart"`
				Table []map[string]any `json:"table"`
			} `json:"view"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &out))
		assert.Equal(t, "Bitcoin", out.Result["crypto"])
		assert.Equal(t, "LSTM", out.Result["model"])
		assert.Equal(t, 100.0, out.Result["predictedPrice"])
		assert.Len(t, out.View.Chart, 7)
		assert.Len(t, out.View.Table, 7)
	}
	assert.Len(t, api.history.List(), 2)

	rec, env := api.do(t, http.MethodGet, "/api/predictions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list xhttp.ListDataResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.EqualValues(t, 2, list.Total)
	assert.EqualValues(t, 0, list.Remaining)

	rec, env = api.do(t, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"favoriteModel":"LSTM"`)
	assert.Contains(t, string(env.Data), `"totalPredictions":2`)
}

func TestSubmitValidationErrors(t *testing.T) {
	api := newTestAPI(t, sevenPrices, nil)
	api.login(t)

	cases := []struct {
		body  string
		code  string
		field string
	}{
		{`{"modelId":"lstm","horizon":7}`, CodeMissingSelection, "cryptocurrency"},
		{`{"cryptocurrencyId":"Bitcoin","horizon":7}`, CodeMissingSelection, "model"},
		{`{"cryptocurrencyId":"Bitcoin","modelId":"lstm","horizon":0}`, CodeInvalidHorizon, "horizon"},
		{`{"cryptocurrencyId":"Bitcoin","modelId":"lstm","horizon":31}`, CodeInvalidHorizon, "horizon"},
		{`{"cryptocurrencyId":"Bitcoin","modelId":"lstm","horizon":"abc"}`, CodeInvalidHorizon, "horizon"},
		{`{"cryptocurrencyId":"Bitcoin","modelId":"lstm"}`, CodeInvalidHorizon, "horizon"},
	}
	for _, tc := range cases {
		rec, env := api.do(t, http.MethodPost, "/api/predictions", tc.body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.body)
		appErr := firstError(t, env)
		assert.Equal(t, tc.code, appErr.Code, tc.body)
		assert.Equal(t, tc.field, appErr.Field, tc.body)
	}
	assert.Empty(t, api.history.List())
}

func TestSubmitUpstreamErrors(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		status  int
		code    string
		message string
	}{
		{
			name: "service detail",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"detail":"Model not loaded"}`))
			},
			status:  http.StatusBadGateway,
			code:    CodeService,
			message: "Model not loaded",
		},
		{
			name:    "length mismatch",
			handler: func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{"predicted_prices":[1,2]}`)) },
			status:  http.StatusBadGateway,
			code:    CodeMalformedResponse,
			message: "Received invalid prediction data format from server.",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := newTestAPI(t, tc.handler, nil)
			api.login(t)

			rec, env := api.do(t, http.MethodPost, "/api/predictions", `{"cryptocurrencyId":"Bitcoin","modelId":"lstm","horizon":7}`)
			assert.Equal(t, tc.status, rec.Code)
			appErr := firstError(t, env)
			assert.Equal(t, tc.code, appErr.Code)
			assert.Equal(t, tc.message, appErr.Message)
			assert.Empty(t, api.history.List())
		})
	}
}

func TestSubmitRateLimited(t *testing.T) {
	api := newTestAPI(t, sevenPrices, ratelimit.New(1, 0).Middleware())
	api.login(t)

	body := `{"cryptocurrencyId":"Bitcoin","modelId":"lstm","horizon":7}`
	rec, _ := api.do(t, http.MethodPost, "/api/predictions", body)
	assert.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = api.do(t, http.MethodPost, "/api/predictions", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRawHorizon(t *testing.T) {
	cases := map[string]string{
		``:      "",
		`null`:  "",
		`7`:     "7",
		` 12 `:  "12",
		`"30"`:  "30",
		`"abc"`: "abc",
		`2.5`:   "2.5",
		`true`:  "true",
		`[1]`:   "[1]",
	}
	for in, want := range cases {
		assert.Equal(t, want, rawHorizon(json.RawMessage(in)), in)
	}
}
