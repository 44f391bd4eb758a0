package usecase

import (
	"errors"
	"strconv"
	"testing"

	"CryptoCast/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator() *RequestValidator {
	return NewRequestValidator(models.DefaultCatalog())
}

func requireValidationError(t *testing.T, err error) *models.ValidationError {
	t.Helper()
	var ve *models.ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	return ve
}

func TestValidateAcceptsKnownSelection(t *testing.T) {
	req, err := newTestValidator().Validate("Bitcoin", "lstm", "7")
	require.NoError(t, err)
	assert.Equal(t, "Bitcoin", req.Crypto.Name)
	assert.Equal(t, "BTC", req.Crypto.Symbol)
	assert.Equal(t, "LSTM", req.Model.Name)
	assert.Equal(t, 7, req.Horizon)
}

func TestValidateHorizonGrid(t *testing.T) {
	v := newTestValidator()
	for h := -5; h <= 40; h++ {
		_, err := v.Validate("Ethereum", "gru", strconv.Itoa(h))
		switch {
		case h < MinHorizon:
			assert.Equal(t, models.HorizonBelowMinimum, requireValidationError(t, err).Reason, "h=%d", h)
		case h > MaxHorizon:
			assert.Equal(t, models.HorizonAboveMaximum, requireValidationError(t, err).Reason, "h=%d", h)
		default:
			assert.NoError(t, err, "h=%d", h)
		}
	}
}

func TestValidateHorizonBoundaries(t *testing.T) {
	v := newTestValidator()
	cases := []struct {
		raw    string
		reason string
	}{
		{"0", models.HorizonBelowMinimum},
		{"1", ""},
		{"30", ""},
		{"31", models.HorizonAboveMaximum},
		{"abc", models.HorizonNotANumber},
		{"", models.HorizonNotANumber},
		{"2.5", models.HorizonNotANumber},
		{" 12 ", ""},
		{"99999999999999999999", models.HorizonAboveMaximum},
		{"-99999999999999999999", models.HorizonBelowMinimum},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			_, err := v.Validate("Solana", "xgb", tc.raw)
			if tc.reason == "" {
				assert.NoError(t, err)
				return
			}
			ve := requireValidationError(t, err)
			assert.Equal(t, models.InvalidHorizon, ve.Kind)
			assert.Equal(t, tc.reason, ve.Reason)
		})
	}
}

func TestValidateRuleOrder(t *testing.T) {
	v := newTestValidator()

	ve := requireValidationError(t, func() error { _, err := v.Validate("", "", "abc"); return err }())
	assert.Equal(t, models.MissingSelection, ve.Kind)
	assert.Equal(t, models.FieldCryptocurrency, ve.Field)

	ve = requireValidationError(t, func() error { _, err := v.Validate("Bitcoin", "unknown", "0"); return err }())
	assert.Equal(t, models.MissingSelection, ve.Kind)
	assert.Equal(t, models.FieldModel, ve.Field)
	assert.Equal(t, "Please select an AI model.", ve.Error())
}

func TestValidateUnknownCryptoByNameOrSymbol(t *testing.T) {
	v := newTestValidator()
	for _, id := range []string{"BTC", "bitcoin", "Litecoin"} {
		_, err := v.Validate(id, "lstm", "7")
		ve := requireValidationError(t, err)
		assert.Equal(t, models.FieldCryptocurrency, ve.Field, id)
	}
}
