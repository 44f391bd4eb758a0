package api

import (
	"errors"
	"net/http"

	"CryptoCast/internal/domain/models"
	"CryptoCast/internal/usecase"
	xhttp "CryptoCast/pkg/http"
)

const (
	CodeMissingSelection   = "ERR_MISSING_SELECTION"
	CodeInvalidHorizon     = "ERR_INVALID_HORIZON"
	CodeUnauthorized       = "ERR_UNAUTHORIZED"
	CodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	CodeNetwork            = "ERR_NETWORK"
	CodeService            = "ERR_SERVICE"
	CodeMalformedResponse  = "ERR_MALFORMED_RESPONSE"
)

// toAppError maps domain failures onto HTTP errors. Unknown errors become 500.
func toAppError(err error) *xhttp.AppError {
	var (
		ve *models.ValidationError
		ne *models.NetworkError
		se *models.ServiceError
		me *models.MalformedResponse
	)
	switch {
	case errors.As(err, &ve):
		code := CodeInvalidHorizon
		if ve.Kind == models.MissingSelection {
			code = CodeMissingSelection
		}
		appErr := xhttp.NewAppError(code, ve.Field, ve.Error(), http.StatusBadRequest)
		if ve.Reason != "" {
			appErr.WithParam("reason", ve.Reason)
		}
		if ve.Kind == models.InvalidHorizon {
			appErr.WithParam("min", usecase.MinHorizon).WithParam("max", usecase.MaxHorizon)
		}
		return appErr
	case errors.Is(err, models.ErrUnauthenticated):
		return xhttp.NewAppError(CodeUnauthorized, "", "Please sign in to continue.", http.StatusUnauthorized)
	case errors.Is(err, models.ErrInvalidCredentials):
		return xhttp.NewAppError(CodeInvalidCredentials, "", "Invalid credentials", http.StatusUnauthorized)
	case errors.As(err, &ne):
		return xhttp.ServiceUnavailableError(CodeNetwork, "Could not reach the prediction service.").WithError(err)
	case errors.As(err, &se):
		return xhttp.BadGatewayErrorf(CodeService, "%s", se.Message).WithParam("status", se.Status)
	case errors.As(err, &me):
		return xhttp.BadGatewayErrorf(CodeMalformedResponse, "Received invalid prediction data format from server.").
			WithParam("reason", me.Reason)
	default:
		return xhttp.InternalError("Something went wrong").WithError(err)
	}
}
