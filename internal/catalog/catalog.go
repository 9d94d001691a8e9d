// Package catalog holds the reference lists offered by the entry forms:
// payment modes, categories and the default dish list.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"

	"saba/internal/core"
)

// Catalog is the content of the optional catalog YAML file.
type Catalog struct {
	SalePaymentModes     []string          `yaml:"sale_payment_modes"`
	PurchasePaymentModes []string          `yaml:"purchase_payment_modes"`
	PurchaseCategories   []string          `yaml:"purchase_categories"`
	TreasuryModes        []string          `yaml:"treasury_modes"`
	TreasuryCategories   []string          `yaml:"treasury_categories"`
	DefaultDishes        map[string]string `yaml:"default_dishes"` // name -> unit price

	dishes map[string]core.Dish
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c := &Catalog{
		SalePaymentModes:     []string{"Espèces", "Carte bancaire", "Ticket restaurant", "Autre"},
		PurchasePaymentModes: []string{"Carte bancaire", "Virement", "Chèque", "Espèces", "Autre"},
		PurchaseCategories:   []string{"Matières premières", "Emballages", "Boissons", "Fournitures", "Autre"},
		TreasuryModes:        []string{"Espèces", "Carte bancaire", "Virement", "Chèque", "Autre"},
		TreasuryCategories:   []string{"Divers", "Personnel", "Vente", "Achat", "Autre"},
		DefaultDishes:        map[string]string{"Brioche perdue": "8.0", "Cookie pistache": "3.5"},
	}
	if err := c.prepare(); err != nil {
		panic(err)
	}
	return c
}

// Load reads a catalog file. An empty path returns the defaults; lists
// missing from the file keep their default values.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes catalog YAML over the defaults.
func Parse(data []byte) (*Catalog, error) {
	c := Default()
	var file Catalog
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("unable to parse catalog YAML: %w", err)
	}
	override := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	override(&c.SalePaymentModes, file.SalePaymentModes)
	override(&c.PurchasePaymentModes, file.PurchasePaymentModes)
	override(&c.PurchaseCategories, file.PurchaseCategories)
	override(&c.TreasuryModes, file.TreasuryModes)
	override(&c.TreasuryCategories, file.TreasuryCategories)
	if file.DefaultDishes != nil {
		c.DefaultDishes = file.DefaultDishes
	}
	if err := c.prepare(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) prepare() error {
	lists := map[string][]string{
		"sale_payment_modes":     c.SalePaymentModes,
		"purchase_payment_modes": c.PurchasePaymentModes,
		"purchase_categories":    c.PurchaseCategories,
		"treasury_modes":         c.TreasuryModes,
		"treasury_categories":    c.TreasuryCategories,
	}
	for name, list := range lists {
		for _, v := range list {
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("%s contains an empty entry", name)
			}
		}
	}
	c.dishes = make(map[string]core.Dish, len(c.DefaultDishes))
	for name, price := range c.DefaultDishes {
		p, err := core.ParseAmount(price)
		if err != nil {
			return fmt.Errorf("default_dishes.%s: %w", name, err)
		}
		d := core.Dish{Name: name, Price: p}
		if err := d.Validate(); err != nil {
			return fmt.Errorf("default_dishes.%s: %w", name, err)
		}
		c.dishes[name] = d
	}
	return nil
}

// Dishes returns a copy of the default dish list.
func (c *Catalog) Dishes() map[string]core.Dish {
	out := make(map[string]core.Dish, len(c.dishes))
	for k, v := range c.dishes {
		out[k] = v
	}
	return out
}

// ErrUnknownChoice is wrapped by Check when a value is not in its list.
var ErrUnknownChoice = errors.New("not an accepted value")

// Check returns a validation error for field when value is not in list.
// An empty list accepts anything.
func Check(field, value string, list []string) error {
	if len(list) == 0 || slices.Contains(list, value) {
		return nil
	}
	return &core.ValidationError{Field: field, Reason: fmt.Sprintf("%q %v", value, ErrUnknownChoice)}
}

// DishPrice returns the default price for a dish, if known.
func DishPrice(dishes map[string]core.Dish, name string) (decimal.Decimal, bool) {
	d, ok := dishes[name]
	return d.Price, ok
}
