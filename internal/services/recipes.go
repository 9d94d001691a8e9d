package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"saba/internal/core"
	"saba/internal/inventory"
	"saba/internal/log"
	"saba/internal/store"
)

func (l *Ledger) Recipes(ctx context.Context) (map[string]core.Recipe, error) {
	return store.Load(ctx, l.backend, store.Recipes)
}

// Recipe returns one recipe by name.
func (l *Ledger) Recipe(ctx context.Context, name string) (core.Recipe, error) {
	recipes, err := l.Recipes(ctx)
	if err != nil {
		return core.Recipe{}, err
	}
	r, ok := recipes[strings.TrimSpace(name)]
	if !ok {
		return core.Recipe{}, &core.NotFoundError{Kind: "recipe", Key: name}
	}
	return r, nil
}

// SaveRecipe adds or replaces a recipe by name.
func (l *Ledger) SaveRecipe(ctx context.Context, r core.Recipe) (core.Recipe, error) {
	r.Name = strings.TrimSpace(r.Name)
	clean := make(map[string]decimal.Decimal, len(r.Ingredients))
	for name, qty := range r.Ingredients {
		clean[strings.TrimSpace(name)] = qty
	}
	r.Ingredients = clean
	if err := r.Validate(); err != nil {
		return core.Recipe{}, l.failed(ctx, log.OpUpdate, store.KindRecipes, err)
	}

	recipes, err := store.Update(ctx, l.backend, store.Recipes, func(m *map[string]core.Recipe) error {
		(*m)[r.Name] = r
		return nil
	})
	if err != nil {
		return core.Recipe{}, err
	}
	l.saved(ctx, log.OpUpdate, store.KindRecipes, r.Name, len(recipes))
	return r, nil
}

// Requirements scales a stored recipe to portions.
func (l *Ledger) Requirements(ctx context.Context, recipe string, portions int) (map[string]decimal.Decimal, error) {
	r, err := l.Recipe(ctx, recipe)
	if err != nil {
		return nil, err
	}
	q, err := inventory.RequiredQuantities(r, portions)
	if err != nil {
		return nil, &core.ValidationError{Field: "portions", Reason: err.Error()}
	}
	return q, nil
}

// Cook deducts portions of recipe from stock and persists the new stock.
// In strict mode a missing ingredient aborts before anything is written.
// The recipe is read separately from the stock update; the two are not
// one transaction.
func (l *Ledger) Cook(ctx context.Context, recipe string, portions int, strict bool) (inventory.Deduction, error) {
	r, err := l.Recipe(ctx, recipe)
	if err != nil {
		return inventory.Deduction{}, err
	}
	if portions < 1 {
		return inventory.Deduction{}, l.failed(ctx, log.OpDeduct, store.KindStock,
			&core.ValidationError{Field: "portions", Reason: inventory.ErrInvalidPortions.Error()})
	}

	var report inventory.Deduction
	stock, err := store.Update(ctx, l.backend, store.Stock, func(m *map[string]core.StockItem) error {
		var err error
		report, err = inventory.Deduct(r, portions, *m, inventory.Options{Strict: strict})
		return err
	})
	if err != nil {
		return report, l.failed(ctx, log.OpDeduct, store.KindStock, err)
	}

	l.logger.InfoContext(ctx, "Recipe deducted from stock",
		log.FieldRecipe, r.Name,
		log.FieldPortions, portions,
		"applied", len(report.Applied),
		"missing", report.Missing,
		"negative", report.Negative)
	l.saved(ctx, log.OpDeduct, store.KindStock, r.Name, len(stock))
	l.stockLow(ctx, report.LowStock)
	return report, nil
}

// ShoppingList lists what must be bought to cook portions of recipe.
func (l *Ledger) ShoppingList(ctx context.Context, recipe string, portions int) ([]inventory.Shortage, error) {
	r, err := l.Recipe(ctx, recipe)
	if err != nil {
		return nil, err
	}
	stock, err := l.Stock(ctx)
	if err != nil {
		return nil, err
	}
	list, err := inventory.ShoppingList(r, portions, stock)
	if err != nil {
		return nil, &core.ValidationError{Field: "portions", Reason: err.Error()}
	}
	return list, nil
}
