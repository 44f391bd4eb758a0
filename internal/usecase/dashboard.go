package usecase

import "CryptoCast/internal/domain/models"

const (
	DefaultRecentCount  = 4
	DefaultPreviewCount = 5
	NoFavoriteModel     = "N/A"
)

// Summarize builds the dashboard overview from a newest-first history.
// The favorite model is the most used one; ties go to the model seen first.
func Summarize(history []models.PredictionResult, recentN int) models.DashboardSummary {
	if recentN <= 0 {
		recentN = DefaultRecentCount
	}

	favorite, count := favoriteModel(history)
	recent := history[:min(recentN, len(history))]

	return models.DashboardSummary{
		Total:              len(history),
		FavoriteModel:      favorite,
		FavoriteModelCount: count,
		Recent:             historyItems(recent),
		HasMore:            len(history) > len(recent),
	}
}

// Preview returns the first previewM entries, or all of them when showAll is set.
func Preview(history []models.PredictionResult, previewM int, showAll bool) models.HistoryPage {
	if previewM <= 0 {
		previewM = DefaultPreviewCount
	}

	shown := history
	if !showAll {
		shown = history[:min(previewM, len(history))]
	}

	return models.HistoryPage{
		Items:     historyItems(shown),
		Total:     len(history),
		Remaining: len(history) - len(shown),
		ShowAll:   showAll,
	}
}

func favoriteModel(history []models.PredictionResult) (string, int) {
	if len(history) == 0 {
		return NoFavoriteModel, 0
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, r := range history {
		if _, seen := counts[r.Model]; !seen {
			order = append(order, r.Model)
		}
		counts[r.Model]++
	}

	best, bestCount := order[0], counts[order[0]]
	for _, m := range order[1:] {
		if counts[m] > bestCount {
			best, bestCount = m, counts[m]
		}
	}
	return best, bestCount
}
