package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"CryptoCast/internal/domain/models"
	domsvc "CryptoCast/internal/domain/service"
	xhttp "CryptoCast/pkg/http"
	applogger "CryptoCast/pkg/logger"

	"github.com/google/uuid"
)

const (
	predictPath = "/predict"

	minConfidence = 70
	maxConfidence = 95
)

type predictPayload struct {
	Crypto  string `json:"crypto"`
	Model   string `json:"model"`
	Horizon int    `json:"horizon"`
}

// Client calls the external forecasting service.
type Client struct {
	baseURL    string
	http       *xhttp.Client
	logger     *applogger.Logger
	now        func() time.Time
	newID      func() string
	confidence func() int
}

var _ domsvc.PredictionService = (*Client)(nil)

// Option configures Client.
type Option func(*Client)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithIDGenerator overrides the result ID source.
func WithIDGenerator(newID func() string) Option {
	return func(c *Client) { c.newID = newID }
}

// WithConfidenceSource overrides the placeholder confidence source.
func WithConfidenceSource(f func() int) Option {
	return func(c *Client) { c.confidence = f }
}

// WithLogger sets the client logger.
func WithLogger(l *applogger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a forecast client for baseURL using the shared HTTP client.
func New(baseURL string, httpClient *xhttp.Client, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       httpClient,
		logger:     applogger.Nop(),
		now:        time.Now,
		newID:      uuid.NewString,
		confidence: placeholderConfidence,
	}
	for _, opt := range opts {
		opt(c)
	}
	registerMetrics()
	return c
}

// Predict posts the request to {base}/predict and normalizes the answer.
// Errors are *models.NetworkError, *models.ServiceError or *models.MalformedResponse.
func (c *Client) Predict(ctx context.Context, req models.PredictionRequest) (res *models.PredictionFormResult, err error) {
	defer func(start time.Time) { observeCall(start, err) }(time.Now())

	var body []byte
	err = c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.baseURL + predictPath,
		Headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
		Body: predictPayload{
			Crypto:  req.Crypto.Name,
			Model:   req.Model.ID,
			Horizon: req.Horizon,
		},
	}, &body)

	var statusErr *xhttp.StatusError
	switch {
	case errors.As(err, &statusErr):
		msg := errorMessage(statusErr.StatusCode, statusErr.Body)
		c.logger.Warn("forecast.predict rejected",
			applogger.Int("status", statusErr.StatusCode),
			applogger.String("message", msg),
		)
		return nil, &models.ServiceError{Status: statusErr.StatusCode, Message: msg}
	case err != nil:
		c.logger.Warn("forecast.predict unreachable", applogger.String("crypto", req.Crypto.Name), applogger.Error(err))
		return nil, &models.NetworkError{Err: err}
	}

	prices, err := decodePrices(body, req.Horizon)
	if err != nil {
		c.logger.Warn("forecast.predict malformed", applogger.Error(err))
		return nil, err
	}

	return &models.PredictionFormResult{
		PredictionResult: models.PredictionResult{
			ID:             c.newID(),
			Crypto:         req.Crypto.Name,
			Model:          req.Model.Name,
			PredictedPrice: prices[0],
			Timestamp:      c.now().UTC(),
			Horizon:        req.Horizon,
		},
		PredictedPrices:       prices,
		Confidence:            c.confidence(),
		ConfidencePlaceholder: true,
	}, nil
}

// decodePrices requires {"predicted_prices": [number, ...]} with exactly horizon entries.
func decodePrices(body []byte, horizon int) ([]float64, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil || envelope == nil {
		return nil, &models.MalformedResponse{Reason: "body is not a JSON object", Err: err}
	}

	raw, ok := envelope["predicted_prices"]
	if !ok {
		return nil, &models.MalformedResponse{Reason: "predicted_prices is missing"}
	}

	var elems []*float64
	if err := json.Unmarshal(raw, &elems); err != nil || elems == nil {
		return nil, &models.MalformedResponse{Reason: "predicted_prices is not an array of numbers", Err: err}
	}
	if len(elems) != horizon {
		return nil, &models.MalformedResponse{
			Reason: fmt.Sprintf("expected %d predicted prices, got %d", horizon, len(elems)),
		}
	}

	prices := make([]float64, len(elems))
	for i, p := range elems {
		if p == nil {
			return nil, &models.MalformedResponse{Reason: fmt.Sprintf("predicted_prices[%d] is null", i)}
		}
		prices[i] = *p
	}
	return prices, nil
}

// errorMessage resolves a human message for a failed response: JSON detail,
// then JSON message, then the raw body, then the status code.
func errorMessage(status int, body []byte) string {
	fallback := fmt.Sprintf("Server responded with status %d", status)

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err == nil && payload != nil {
		for _, key := range []string{"detail", "message"} {
			if msg := messageField(payload[key]); msg != "" {
				return msg
			}
		}
		return fallback
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return fallback
}

// messageField returns a string field as-is and any other non-empty JSON value compacted.
func messageField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("false")) {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return ""
	}
	return buf.String()
}

func placeholderConfidence() int {
	return minConfidence + rand.IntN(maxConfidence-minConfidence+1)
}
