// Package store is the load/save boundary between typed ledger data and its
// persisted representation.
//
// A Backend moves opaque bytes per entity kind. Codecs turn those bytes into
// typed values and back: CSV for append-only tables, JSON for keyed
// mappings. Load, Save and Update tie the two together; Update runs one
// locked read-modify-write cycle.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

// Kind names one persisted collection.
type Kind string

const (
	KindSales        Kind = "sales"
	KindPurchases    Kind = "purchases"
	KindTreasury     Kind = "treasury"
	KindStock        Kind = "stock"
	KindRecipes      Kind = "recipes"
	KindEmployees    Kind = "employees"
	KindSchedule     Kind = "schedule"
	KindBankBalances Kind = "bank_balances"
	KindDishes       Kind = "dishes"
)

// Kinds lists every collection in display order.
var Kinds = []Kind{
	KindSales, KindPurchases, KindTreasury, KindStock, KindRecipes,
	KindEmployees, KindSchedule, KindBankBalances, KindDishes,
}

// ParseKind returns the Kind named s.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

var (
	// ErrNotExist is returned by Backend.Read when nothing has been written
	// for a kind yet.
	ErrNotExist = errors.New("store: no data")
	// ErrParse matches every *ParseError.
	ErrParse = errors.New("store: malformed data")
)

// Backend persists whole collections. Write must be atomic: a concurrent
// Read observes either the previous or the new content, never a mix.
type Backend interface {
	Read(ctx context.Context, kind Kind) ([]byte, error)
	Write(ctx context.Context, kind Kind, data []byte) error
	// Lock grants exclusive write access to kind until the returned
	// function is called.
	Lock(ctx context.Context, kind Kind) (func(), error)
	Close() error
}

// ParseError reports persisted content that does not match its schema.
type ParseError struct {
	Kind Kind
	Line int // 1-based, 0 when unknown
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s line %d: %v", e.Kind, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// Paths carries the storage location of every kind. It is built once at
// startup and handed to the backend that needs it.
type Paths struct {
	Dir          string
	Sales        string
	Purchases    string
	Treasury     string
	Stock        string
	Recipes      string
	Employees    string
	Schedule     string
	BankBalances string
	Dishes       string
}

// DefaultPaths returns the conventional file names under dir.
func DefaultPaths(dir string) Paths {
	return Paths{
		Dir:          dir,
		Sales:        "ventes.csv",
		Purchases:    "achats.csv",
		Treasury:     "tresorerie.csv",
		Stock:        "stock.json",
		Recipes:      "recettes.json",
		Employees:    "employes.json",
		Schedule:     "planning.json",
		BankBalances: "comptes_bancaires.json",
		Dishes:       "plats.json",
	}
}

// For returns the full path of kind. Absolute file names are used as is.
func (p Paths) For(kind Kind) string {
	var name string
	switch kind {
	case KindSales:
		name = p.Sales
	case KindPurchases:
		name = p.Purchases
	case KindTreasury:
		name = p.Treasury
	case KindStock:
		name = p.Stock
	case KindRecipes:
		name = p.Recipes
	case KindEmployees:
		name = p.Employees
	case KindSchedule:
		name = p.Schedule
	case KindBankBalances:
		name = p.BankBalances
	case KindDishes:
		name = p.Dishes
	}
	if name == "" {
		name = string(kind)
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.Dir, name)
}
