package repository

import (
	"context"
	"fmt"

	"StockTerm/internal/domain/models"
	"StockTerm/pkg/store"
)

// HoldingsKey is the store key for the holdings collection.
const HoldingsKey = "userHoldings"

// StoreHoldingsRepository keeps the whole holdings list as one JSON document.
type StoreHoldingsRepository struct {
	s store.Store
}

func NewStoreHoldingsRepository(s store.Store) *StoreHoldingsRepository {
	return &StoreHoldingsRepository{s: s}
}

// Load returns the stored holdings. A missing key is a first run and yields an empty list.
func (r *StoreHoldingsRepository) Load(ctx context.Context) ([]models.Holding, error) {
	var out []models.Holding
	found, err := store.GetJSON(ctx, r.s, HoldingsKey, &out)
	if err != nil {
		return nil, fmt.Errorf("load holdings: %w", err)
	}
	if !found || out == nil {
		return []models.Holding{}, nil
	}
	return out, nil
}

// Save replaces the stored collection in a single write.
func (r *StoreHoldingsRepository) Save(ctx context.Context, holdings []models.Holding) error {
	if holdings == nil {
		holdings = []models.Holding{}
	}
	if err := store.SetJSON(ctx, r.s, HoldingsKey, holdings); err != nil {
		return fmt.Errorf("save holdings: %w", err)
	}
	return nil
}
