package models

import "time"

// PriceChange classifies a move between two consecutive predicted prices.
type PriceChange string

const (
	PriceFlat PriceChange = "flat"
	PriceUp   PriceChange = "up"
	PriceDown PriceChange = "down"
)

// ChartPoint is one day of a prediction series.
type ChartPoint struct {
	Day   int       `json:"day"`
	Date  time.Time `json:"date"`
	Label string    `json:"dateStr"`
	Price float64   `json:"price"`
}

// TableRow is a chart point with its change vs the previous day and a display price.
type TableRow struct {
	ChartPoint
	Change         PriceChange `json:"change"`
	FormattedPrice string      `json:"formattedPrice"`
}

// PredictionView is the presentation bundle returned with a fresh prediction.
type PredictionView struct {
	Chart                   []ChartPoint `json:"chart"`
	Table                   []TableRow   `json:"table"`
	FormattedPredictedPrice string       `json:"formattedPredictedPrice"`
}

// HistoryItem is a history entry with its display price.
type HistoryItem struct {
	PredictionResult
	FormattedPrice string `json:"formattedPrice"`
}

// DashboardSummary is the overview shown on the dashboard.
type DashboardSummary struct {
	Total              int           `json:"totalPredictions"`
	FavoriteModel      string        `json:"favoriteModel"`
	FavoriteModelCount int           `json:"favoriteModelCount"`
	Recent             []HistoryItem `json:"recent"`
	HasMore            bool          `json:"hasMore"`
}

// HistoryPage is the history table, either a preview or the full list.
type HistoryPage struct {
	Items     []HistoryItem `json:"items"`
	Total     int           `json:"total"`
	Remaining int           `json:"remaining"`
	ShowAll   bool          `json:"showAll"`
}
