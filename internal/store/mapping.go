package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"saba/internal/core"
)

// mappingCodec stores a keyed value as indented JSON. encoding/json sorts
// map keys, so encoding is deterministic. normalize runs after decoding and
// before encoding; it checks keys and returns a cleaned copy.
func mappingCodec[T any](kind Kind, empty func() T, normalize func(T) (T, error)) Codec[T] {
	return Codec[T]{
		Kind:  kind,
		Empty: empty,
		Decode: func(data []byte) (T, error) {
			if len(bytes.TrimSpace(data)) == 0 {
				return empty(), nil
			}
			dec := json.NewDecoder(bytes.NewReader(data))
			dec.DisallowUnknownFields()
			var v T
			if err := dec.Decode(&v); err != nil {
				return v, &ParseError{Kind: kind, Err: err}
			}
			if _, err := dec.Token(); !errors.Is(err, io.EOF) {
				return v, &ParseError{Kind: kind, Err: errors.New("trailing data after value")}
			}
			v, err := normalize(v)
			if err != nil {
				return v, &ParseError{Kind: kind, Err: err}
			}
			return v, nil
		},
		Encode: func(v T) ([]byte, error) {
			v, err := normalize(v)
			if err != nil {
				return nil, err
			}
			data, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return nil, err
			}
			return append(data, '\n'), nil
		},
	}
}

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("empty key")
	}
	return nil
}

func normalizeStock(in map[string]core.StockItem) (map[string]core.StockItem, error) {
	out := make(map[string]core.StockItem, len(in))
	for name, item := range in {
		if err := checkKey(name); err != nil {
			return nil, err
		}
		if item.AlertThreshold.IsNegative() {
			return nil, fmt.Errorf("item %q: negative alert threshold", name)
		}
		item.Name = name
		out[name] = item
	}
	return out, nil
}

func normalizeRecipes(in map[string]core.Recipe) (map[string]core.Recipe, error) {
	out := make(map[string]core.Recipe, len(in))
	for name, r := range in {
		if err := checkKey(name); err != nil {
			return nil, err
		}
		seen := make(map[string]bool, len(r.Ingredients))
		for ing, qty := range r.Ingredients {
			key := core.IngredientKey(ing)
			if key == "" || qty.IsNegative() {
				return nil, fmt.Errorf("recipe %q: invalid ingredient %q", name, ing)
			}
			if seen[key] {
				return nil, fmt.Errorf("recipe %q: ingredient %q listed twice", name, key)
			}
			seen[key] = true
		}
		r.Name = name
		out[name] = r
	}
	return out, nil
}

func normalizeEmployees(in map[string]core.Employee) (map[string]core.Employee, error) {
	out := make(map[string]core.Employee, len(in))
	for name, e := range in {
		if err := checkKey(name); err != nil {
			return nil, err
		}
		e.Name = name
		out[name] = e
	}
	return out, nil
}

func normalizeDishes(in map[string]core.Dish) (map[string]core.Dish, error) {
	out := make(map[string]core.Dish, len(in))
	for name, d := range in {
		if err := checkKey(name); err != nil {
			return nil, err
		}
		d.Name = name
		out[name] = d
	}
	return out, nil
}

func normalizeSchedule(in core.WeeklySchedule) (core.WeeklySchedule, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return in.Normalize(), nil
}

func normalizeBank(in core.BankBalances) (core.BankBalances, error) {
	out := make(core.BankBalances, len(in))
	for account, months := range in {
		if err := checkKey(account); err != nil {
			return nil, err
		}
		out[account] = make(map[string]decimal.Decimal, len(months))
		for month, v := range months {
			if core.NormalizeMonth(month) != month {
				return nil, fmt.Errorf("account %q: unknown month %q", account, month)
			}
			out[account][month] = v
		}
	}
	return out, nil
}
