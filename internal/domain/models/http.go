package models

import "encoding/json"

// Requests for the HTTP API. Defined in domain for consistency and reuse.

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// PredictionFormRequest mirrors the prediction form. Horizon is kept raw so that
// numbers and strings both reach the validator unchanged.
type PredictionFormRequest struct {
	CryptocurrencyID string          `json:"cryptocurrencyId"`
	ModelID          string          `json:"modelId"`
	Horizon          json.RawMessage `json:"horizon"`
}

type HistoryQuery struct {
	All bool `query:"all" json:"all"`
}

// SessionResponse describes the current session state.
type SessionResponse struct {
	State           string `json:"state"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	User            *User  `json:"user,omitempty"`
	Error           string `json:"error,omitempty"`
}
