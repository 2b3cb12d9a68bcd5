package service

import (
	"context"

	"StockTerm/internal/domain/models"
)

// Predictor asks the external prediction service about a symbol.
type Predictor interface {
	Predict(ctx context.Context, quote models.Quote, prompt string) (models.Prediction, error)
}
