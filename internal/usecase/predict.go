package usecase

import (
	"context"
	"errors"
	"fmt"

	"StockTerm/internal/domain/models"
	"StockTerm/internal/domain/service"
)

var ErrPredictorDisabled = errors.New("prediction service is not configured")

// PredictUseCase forwards the current quote to the external prediction service.
type PredictUseCase struct {
	predictor service.Predictor
	quotes    *QuotesUseCase
}

func NewPredictUseCase(predictor service.Predictor, quotes *QuotesUseCase) *PredictUseCase {
	return &PredictUseCase{predictor: predictor, quotes: quotes}
}

func (uc *PredictUseCase) Predict(ctx context.Context, symbol, prompt string) (models.Prediction, error) {
	if uc.predictor == nil {
		return models.Prediction{}, ErrPredictorDisabled
	}
	q, err := uc.quotes.Get(ctx, symbol)
	if err != nil {
		return models.Prediction{}, err
	}
	p, err := uc.predictor.Predict(ctx, q, prompt)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("predict %s: %w", q.Symbol, err)
	}
	if p.Symbol == "" {
		p.Symbol = q.Symbol
	}
	return p, nil
}
