package models

// Cryptocurrency is a selectable asset. ID is what clients submit, Name is what the forecast service expects.
type Cryptocurrency struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// AIModel is a selectable forecasting model. ID is sent to the forecast service, Name is stored in history.
type AIModel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Catalog holds the fixed lookup tables used to validate requests.
type Catalog struct {
	Cryptocurrencies []Cryptocurrency `json:"cryptocurrencies"`
	Models           []AIModel        `json:"models"`
}

// DefaultCatalog returns the supported cryptocurrencies and models in display order.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Cryptocurrencies: []Cryptocurrency{
			{ID: "Bitcoin", Name: "Bitcoin", Symbol: "BTC"},
			{ID: "Ethereum", Name: "Ethereum", Symbol: "ETH"},
			{ID: "Tether", Name: "Tether", Symbol: "USDT"},
			{ID: "XRP", Name: "XRP", Symbol: "XRP"},
			{ID: "BNB", Name: "BNB", Symbol: "BNB"},
			{ID: "Solana", Name: "Solana", Symbol: "SOL"},
			{ID: "Dogecoin", Name: "Dogecoin", Symbol: "DOGE"},
			{ID: "USD Coin", Name: "USD Coin", Symbol: "USDC"},
			{ID: "TRON", Name: "TRON", Symbol: "TRX"},
			{ID: "Cardano", Name: "Cardano", Symbol: "ADA"},
		},
		Models: []AIModel{
			{ID: "linear_regression", Name: "Linear Regression", Description: "Linear trend fitted on recent closing prices"},
			{ID: "random_forest", Name: "Random Forest", Description: "Ensemble of decision trees over lagged prices"},
			{ID: "xgb", Name: "XGBoost", Description: "Gradient boosted trees over lagged prices"},
			{ID: "lstm", Name: "LSTM", Description: "Long short-term memory recurrent network"},
			{ID: "bilstm", Name: "BiLSTM", Description: "Bidirectional LSTM network"},
			{ID: "cnn_bilstm", Name: "CNN + BiLSTM", Description: "Convolutional feature extractor feeding a BiLSTM"},
			{ID: "gru", Name: "GRU", Description: "Gated recurrent unit network"},
		},
	}
}

// Crypto looks up a cryptocurrency by ID.
func (c *Catalog) Crypto(id string) (Cryptocurrency, bool) {
	for _, cc := range c.Cryptocurrencies {
		if cc.ID == id {
			return cc, true
		}
	}
	return Cryptocurrency{}, false
}

// Model looks up a model by ID.
func (c *Catalog) Model(id string) (AIModel, bool) {
	for _, m := range c.Models {
		if m.ID == id {
			return m, true
		}
	}
	return AIModel{}, false
}
