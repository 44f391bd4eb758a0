package service

import (
	"context"

	"CryptoCast/internal/domain/models"
)

// PredictionService obtains a forecast for a validated request.
// Exactly one outbound call is made per invocation.
type PredictionService interface {
	Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionFormResult, error)
}
