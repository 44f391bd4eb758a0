package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"CryptoCast/internal/domain/models"
	domrepo "CryptoCast/internal/domain/repository"
	"CryptoCast/pkg/cache"
	applogger "CryptoCast/pkg/logger"
	"CryptoCast/pkg/util"
)

// DefaultHistoryKey is the slot the history collection lives under.
const DefaultHistoryKey = "cryptoPredictions"

var errEmptyID = errors.New("history: prediction id is required")

// HistoryStore keeps predictions newest first and writes the whole collection
// back to a single key-value slot after every append. Mutations are serialized;
// concurrent writers in other processes are not reconciled.
type HistoryStore struct {
	mu      sync.Mutex
	slot    cache.Service
	key     string
	items   []models.PredictionResult
	loaded  bool
	logger  *applogger.Logger
	metrics domrepo.Metrics
}

var _ domrepo.HistoryStore = (*HistoryStore)(nil)

// NewHistoryStore creates a store over slot. metrics may be nil.
func NewHistoryStore(slot cache.Service, key string, logger *applogger.Logger, metrics domrepo.Metrics) *HistoryStore {
	if key == "" {
		key = DefaultHistoryKey
	}
	if logger == nil {
		logger = applogger.Nop()
	}
	return &HistoryStore{
		slot:    slot,
		key:     key,
		logger:  logger.Component("history"),
		metrics: metrics,
	}
}

// Load replaces the in-memory collection with the persisted one.
// An absent slot gives an empty history; an unreadable one is discarded.
func (s *HistoryStore) Load(ctx context.Context) []models.PredictionResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadLocked(ctx)
	return slices.Clone(s.items)
}

// Append prepends r, re-sorts newest first and persists the whole collection.
// Persistence failures are logged and leave the in-memory collection updated.
func (s *HistoryStore) Append(ctx context.Context, r models.PredictionResult) error {
	if r.ID == "" {
		return errEmptyID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.loadLocked(ctx)
	}

	items := make([]models.PredictionResult, 0, len(s.items)+1)
	items = append(items, r)
	items = append(items, s.items...)
	sortNewestFirst(items)
	s.items = items

	if err := s.slot.Set(ctx, s.key, s.items, 0); err != nil {
		s.logger.Error("history.append persist_failed",
			applogger.String("key", s.key),
			applogger.Int("size", len(s.items)),
			applogger.Error(err),
		)
		s.recordError("history_persist")
	}
	s.recordSize()
	return nil
}

// List returns a copy of the in-memory collection.
func (s *HistoryStore) List() []models.PredictionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func (s *HistoryStore) loadLocked(ctx context.Context) {
	s.loaded = true
	s.items = []models.PredictionResult{}

	var raw []byte
	err := s.slot.Get(ctx, s.key, &raw)
	switch {
	case errors.Is(err, cache.ErrCacheMiss):
		s.recordSize()
		return
	case err != nil:
		s.logger.Warn("history.load slot_unavailable", applogger.String("key", s.key), applogger.Error(err))
		s.recordError("history_read")
		s.recordSize()
		return
	}

	items, err := decodeHistory(raw)
	if err != nil {
		s.logger.Warn("history.load corrupt_slot", applogger.String("key", s.key), applogger.Error(err))
		s.recordError("history_corrupt")
		if derr := s.slot.Delete(ctx, s.key); derr != nil {
			s.logger.Error("history.load discard_failed", applogger.String("key", s.key), applogger.Error(derr))
		}
		s.recordSize()
		return
	}

	sortNewestFirst(items)
	s.items = items
	s.recordSize()
	s.logger.Debug("history.load ok", applogger.Int("size", len(items)))
}

func (s *HistoryStore) recordError(kind string) {
	if s.metrics != nil {
		s.metrics.RecordError(kind)
	}
}

func (s *HistoryStore) recordSize() {
	if s.metrics != nil {
		s.metrics.RecordHistorySize(len(s.items))
	}
}

func sortNewestFirst(items []models.PredictionResult) {
	slices.SortStableFunc(items, func(a, b models.PredictionResult) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
}

// storedPrediction accepts timestamps as RFC3339 strings or unix numbers.
type storedPrediction struct {
	ID             string          `json:"id"`
	Crypto         string          `json:"crypto"`
	Model          string          `json:"model"`
	PredictedPrice float64         `json:"predictedPrice"`
	Timestamp      json.RawMessage `json:"timestamp"`
	Horizon        int             `json:"horizon"`
}

func decodeHistory(raw []byte) ([]models.PredictionResult, error) {
	var stored []storedPrediction
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}

	items := make([]models.PredictionResult, 0, len(stored))
	for i, sp := range stored {
		ts, err := decodeTimestamp(sp.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		items = append(items, models.PredictionResult{
			ID:             sp.ID,
			Crypto:         sp.Crypto,
			Model:          sp.Model,
			PredictedPrice: sp.PredictedPrice,
			Timestamp:      ts,
			Horizon:        sp.Horizon,
		})
	}
	return items, nil
}

func decodeTimestamp(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, errors.New("timestamp is missing")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if t, ok := util.ParseTime(s); ok {
			return t, nil
		}
		return time.Time{}, fmt.Errorf("timestamp %q is not a date", s)
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if ms, err := strconv.ParseInt(n.String(), 10, 64); err == nil && ms > 0 {
			return util.FromUnix(ms), nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp %s is not a date", raw)
}
