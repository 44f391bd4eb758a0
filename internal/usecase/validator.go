package usecase

import (
	"errors"
	"strconv"
	"strings"

	"CryptoCast/internal/domain/models"
)

const (
	MinHorizon = 1
	MaxHorizon = 30
)

// RequestValidator checks raw form input against the catalog. It performs no I/O.
type RequestValidator struct {
	catalog *models.Catalog
}

func NewRequestValidator(catalog *models.Catalog) *RequestValidator {
	return &RequestValidator{catalog: catalog}
}

// Validate applies the rules in order and reports the first failure:
// unknown cryptocurrency, unknown model, non-integer horizon, horizon below
// MinHorizon, horizon above MaxHorizon.
func (v *RequestValidator) Validate(cryptoID, modelID, rawHorizon string) (models.PredictionRequest, error) {
	crypto, ok := v.catalog.Crypto(cryptoID)
	if !ok {
		return models.PredictionRequest{}, models.NewMissingSelection(models.FieldCryptocurrency)
	}
	model, ok := v.catalog.Model(modelID)
	if !ok {
		return models.PredictionRequest{}, models.NewMissingSelection(models.FieldModel)
	}

	horizon, err := parseHorizon(rawHorizon)
	if err != nil {
		return models.PredictionRequest{}, err
	}

	return models.PredictionRequest{Crypto: crypto, Model: model, Horizon: horizon}, nil
}

func parseHorizon(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	n, err := strconv.Atoi(s)
	if err != nil {
		// out-of-range integers are still integers
		if errors.Is(err, strconv.ErrRange) {
			if strings.HasPrefix(s, "-") {
				return 0, models.NewInvalidHorizon(models.HorizonBelowMinimum)
			}
			return 0, models.NewInvalidHorizon(models.HorizonAboveMaximum)
		}
		return 0, models.NewInvalidHorizon(models.HorizonNotANumber)
	}
	if n < MinHorizon {
		return 0, models.NewInvalidHorizon(models.HorizonBelowMinimum)
	}
	if n > MaxHorizon {
		return 0, models.NewInvalidHorizon(models.HorizonAboveMaximum)
	}
	return n, nil
}
