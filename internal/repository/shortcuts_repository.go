package repository

import (
	"context"
	"fmt"

	"StockTerm/internal/domain/models"
	"StockTerm/pkg/store"
)

// ShortcutsKey is the store key for keyboard bindings.
const ShortcutsKey = "userShortcuts"

// DefaultShortcuts are served until the user saves their own.
var DefaultShortcuts = []models.Shortcut{
	{Action: "NAV_DASHBOARD", Key: "1", Alt: true},
	{Action: "NAV_PORTFOLIO", Key: "2", Alt: true},
	{Action: "NAV_STOCKS", Key: "3", Alt: true},
	{Action: "NAV_CONFIG", Key: "4", Alt: true},
}

type StoreShortcutsRepository struct {
	s store.Store
}

func NewStoreShortcutsRepository(s store.Store) *StoreShortcutsRepository {
	return &StoreShortcutsRepository{s: s}
}

func (r *StoreShortcutsRepository) Load(ctx context.Context) ([]models.Shortcut, error) {
	var out []models.Shortcut
	found, err := store.GetJSON(ctx, r.s, ShortcutsKey, &out)
	if err != nil {
		return nil, fmt.Errorf("load shortcuts: %w", err)
	}
	if !found || out == nil {
		return append([]models.Shortcut(nil), DefaultShortcuts...), nil
	}
	return out, nil
}

func (r *StoreShortcutsRepository) Save(ctx context.Context, shortcuts []models.Shortcut) error {
	if shortcuts == nil {
		shortcuts = []models.Shortcut{}
	}
	if err := store.SetJSON(ctx, r.s, ShortcutsKey, shortcuts); err != nil {
		return fmt.Errorf("save shortcuts: %w", err)
	}
	return nil
}
