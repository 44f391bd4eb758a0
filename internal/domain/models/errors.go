package models

import (
	"errors"
	"fmt"
)

// ValidationKind distinguishes the two validation failure families.
type ValidationKind int

const (
	MissingSelection ValidationKind = iota + 1
	InvalidHorizon
)

// Horizon rejection reasons, checked in this order.
const (
	HorizonNotANumber   = "not a number"
	HorizonBelowMinimum = "below minimum"
	HorizonAboveMaximum = "above maximum"
)

// Selection fields reported by MissingSelection.
const (
	FieldCryptocurrency = "cryptocurrency"
	FieldModel          = "model"
	FieldHorizon        = "horizon"
)

var (
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError is returned before any network call when a request is rejected.
type ValidationError struct {
	Kind   ValidationKind
	Field  string
	Reason string
}

func NewMissingSelection(field string) *ValidationError {
	return &ValidationError{Kind: MissingSelection, Field: field}
}

func NewInvalidHorizon(reason string) *ValidationError {
	return &ValidationError{Kind: InvalidHorizon, Field: FieldHorizon, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Kind == MissingSelection {
		if e.Field == FieldModel {
			return "Please select an AI model."
		}
		return fmt.Sprintf("Please select a %s.", e.Field)
	}
	switch e.Reason {
	case HorizonBelowMinimum:
		return "Prediction horizon must be at least 1 day."
	case HorizonAboveMaximum:
		return "Prediction horizon cannot exceed 30 days."
	default:
		return "Prediction horizon must be a whole number of days."
	}
}

// NetworkError means the forecast service produced no response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("forecast service unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServiceError carries the message extracted from a non-2xx forecast response.
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// MalformedResponse means a 2xx response did not match the expected schema.
type MalformedResponse struct {
	Reason string
	Err    error
}

func (e *MalformedResponse) Error() string {
	return "Received invalid prediction data format from server: " + e.Reason
}

func (e *MalformedResponse) Unwrap() error { return e.Err }

// ErrorKind returns a low-cardinality label for err, used for metrics.
func ErrorKind(err error) string {
	var (
		ve *ValidationError
		ne *NetworkError
		se *ServiceError
		me *MalformedResponse
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return "validation"
	case errors.As(err, &ne):
		return "network"
	case errors.As(err, &se):
		return "service"
	case errors.As(err, &me):
		return "malformed_response"
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	default:
		return "internal"
	}
}
