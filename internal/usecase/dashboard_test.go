package usecase

import (
	"fmt"
	"testing"
	"time"

	"CryptoCast/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historyOf(modelsNewestFirst ...string) []models.PredictionResult {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.PredictionResult, len(modelsNewestFirst))
	for i, m := range modelsNewestFirst {
		out[i] = models.PredictionResult{
			ID:             fmt.Sprintf("p%d", i),
			Crypto:         "Bitcoin",
			Model:          m,
			PredictedPrice: 40000,
			Timestamp:      base.Add(-time.Duration(i) * time.Hour),
			Horizon:        7,
		}
	}
	return out
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, 4)
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, NoFavoriteModel, s.FavoriteModel)
	assert.Equal(t, 0, s.FavoriteModelCount)
	assert.Empty(t, s.Recent)
	assert.False(t, s.HasMore)
}

func TestSummarizeFavoriteModel(t *testing.T) {
	s := Summarize(historyOf("GRU", "LSTM", "LSTM", "XGBoost", "LSTM", "GRU"), 4)
	assert.Equal(t, 6, s.Total)
	assert.Equal(t, "LSTM", s.FavoriteModel)
	assert.Equal(t, 3, s.FavoriteModelCount)
	require.Len(t, s.Recent, 4)
	assert.Equal(t, "p0", s.Recent[0].ID)
	assert.Equal(t, "40,000.00", s.Recent[0].FormattedPrice)
	assert.True(t, s.HasMore)
}

func TestSummarizeTieGoesToFirstSeen(t *testing.T) {
	s := Summarize(historyOf("GRU", "LSTM", "LSTM", "GRU"), 4)
	assert.Equal(t, "GRU", s.FavoriteModel)
	assert.Equal(t, 2, s.FavoriteModelCount)
	assert.False(t, s.HasMore)
}

func TestSummarizeTotalMatchesLength(t *testing.T) {
	for n := 0; n < 8; n++ {
		h := historyOf(make([]string, n)...)
		assert.Equal(t, n, Summarize(h, 4).Total)
	}
}

func TestPreview(t *testing.T) {
	h := historyOf("a", "b", "c", "d", "e", "f", "g")

	page := Preview(h, 5, false)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, 7, page.Total)
	assert.Equal(t, 2, page.Remaining)

	page = Preview(h, 5, true)
	assert.Len(t, page.Items, 7)
	assert.Equal(t, 0, page.Remaining)
	assert.True(t, page.ShowAll)

	page = Preview(h[:3], 5, false)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, 0, page.Remaining)
}
