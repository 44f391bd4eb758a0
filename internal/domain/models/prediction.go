package models

import "time"

// PredictionRequest is a validated request ready for the forecast service.
type PredictionRequest struct {
	Crypto  Cryptocurrency
	Model   AIModel
	Horizon int
}

// PredictionResult is the history entry persisted for every successful prediction.
type PredictionResult struct {
	ID             string    `json:"id"`
	Crypto         string    `json:"crypto"`
	Model          string    `json:"model"`
	PredictedPrice float64   `json:"predictedPrice"`
	Timestamp      time.Time `json:"timestamp"`
	Horizon        int       `json:"horizon"`
}

// PredictionFormResult is the full result shown right after submission.
// Only the embedded PredictionResult goes into history.
type PredictionFormResult struct {
	PredictionResult
	PredictedPrices []float64 `json:"predictedPrices"`
	// Confidence is a display placeholder; it is not produced by the model.
	Confidence            int  `json:"confidence"`
	ConfidencePlaceholder bool `json:"confidencePlaceholder"`
}

// HistoryEntry strips the form-only fields.
func (r *PredictionFormResult) HistoryEntry() PredictionResult {
	return r.PredictionResult
}

// PredictionCreatedEvent is published after a prediction has been stored.
type PredictionCreatedEvent struct {
	Type            string    `json:"type"`
	ID              string    `json:"id"`
	Crypto          string    `json:"crypto"`
	Model           string    `json:"model"`
	Horizon         int       `json:"horizon"`
	PredictedPrice  float64   `json:"predictedPrice"`
	PredictedPrices []float64 `json:"predictedPrices"`
	User            string    `json:"user,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

const EventPredictionCreated = "prediction.created"

// NewPredictionCreatedEvent builds the event for r submitted by user.
func NewPredictionCreatedEvent(r *PredictionFormResult, user string) PredictionCreatedEvent {
	return PredictionCreatedEvent{
		Type:            EventPredictionCreated,
		ID:              r.ID,
		Crypto:          r.Crypto,
		Model:           r.Model,
		Horizon:         r.Horizon,
		PredictedPrice:  r.PredictedPrice,
		PredictedPrices: r.PredictedPrices,
		User:            user,
		Timestamp:       r.Timestamp,
	}
}
