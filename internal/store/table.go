package store

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"saba/internal/core"
)

// tableSchema describes an append-only table stored as CSV with a header
// row. The first column is always the row ID.
type tableSchema[T any] struct {
	kind   Kind
	header []string
	row    func(T) []string
	parse  func([]string) (T, error)
}

func (s tableSchema[T]) codec() Codec[[]T] {
	return Codec[[]T]{
		Kind:   s.kind,
		Empty:  func() []T { return []T{} },
		Decode: s.decode,
		Encode: s.encode,
	}
}

func (s tableSchema[T]) encode(rows []T) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(s.header); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write(s.row(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s tableSchema[T]) decode(data []byte) ([]T, error) {
	rows := []T{}
	if len(bytes.TrimSpace(data)) == 0 {
		return rows, nil
	}
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = len(s.header)

	head, err := r.Read()
	if err != nil {
		return nil, &ParseError{Kind: s.kind, Line: 1, Err: err}
	}
	head[0] = strings.TrimPrefix(head[0], "\ufeff")
	if !slices.Equal(head, s.header) {
		return nil, &ParseError{Kind: s.kind, Line: 1, Err: fmt.Errorf("unexpected header %q, want %q", head, s.header)}
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Kind: s.kind, Err: err}
		}
		line, _ := r.FieldPos(0)
		v, err := s.parse(rec)
		if err != nil {
			return nil, &ParseError{Kind: s.kind, Line: line, Err: err}
		}
		rows = append(rows, v)
	}
	return rows, nil
}

// fields reads typed columns out of one record, keeping the first error.
type fields struct {
	header []string
	rec    []string
	err    error
}

func (f *fields) fail(i int, err error) {
	if f.err == nil {
		f.err = fmt.Errorf("column %s: %w", f.header[i], err)
	}
}

func (f *fields) text(i int) string {
	return strings.TrimSpace(f.rec[i])
}

func (f *fields) date(i int) core.Date {
	d, err := core.ParseDate(f.rec[i])
	if err != nil {
		f.fail(i, err)
	}
	return d
}

func (f *fields) amount(i int) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(f.rec[i]))
	if err != nil {
		f.fail(i, err)
	}
	return d
}

func (f *fields) count(i int) int {
	n, err := strconv.Atoi(strings.TrimSpace(f.rec[i]))
	if err != nil {
		f.fail(i, err)
	}
	return n
}

func (f *fields) kind(i int) core.MovementKind {
	k := core.MovementKind(f.text(i))
	if !k.IsValid() {
		f.fail(i, fmt.Errorf("unknown movement kind %q", f.rec[i]))
	}
	return k
}

var salesHeader = []string{"ID", "Date", "Produit", "Quantité", "Prix unitaire", "Total", "Mode de paiement"}

var salesSchema = tableSchema[core.Sale]{
	kind:   KindSales,
	header: salesHeader,
	row: func(s core.Sale) []string {
		return []string{s.ID, s.Date.String(), s.Product, strconv.Itoa(s.Quantity), s.UnitPrice.String(), s.Total.String(), s.PaymentMode}
	},
	parse: func(rec []string) (core.Sale, error) {
		f := fields{header: salesHeader, rec: rec}
		s := core.Sale{
			ID:          f.text(0),
			Date:        f.date(1),
			Product:     f.text(2),
			Quantity:    f.count(3),
			UnitPrice:   f.amount(4),
			Total:       f.amount(5),
			PaymentMode: f.text(6),
		}
		return s, f.err
	},
}

var purchasesHeader = []string{"ID", "Date", "Fournisseur", "Produit", "Quantité", "Unité", "Prix unitaire", "Total", "Mode de paiement", "Catégorie"}

var purchasesSchema = tableSchema[core.Purchase]{
	kind:   KindPurchases,
	header: purchasesHeader,
	row: func(p core.Purchase) []string {
		return []string{p.ID, p.Date.String(), p.Supplier, p.Product, p.Quantity.String(), p.Unit, p.UnitPrice.String(), p.Total.String(), p.PaymentMode, p.Category}
	},
	parse: func(rec []string) (core.Purchase, error) {
		f := fields{header: purchasesHeader, rec: rec}
		p := core.Purchase{
			ID:          f.text(0),
			Date:        f.date(1),
			Supplier:    f.text(2),
			Product:     f.text(3),
			Quantity:    f.amount(4),
			Unit:        f.text(5),
			UnitPrice:   f.amount(6),
			Total:       f.amount(7),
			PaymentMode: f.text(8),
			Category:    f.text(9),
		}
		return p, f.err
	},
}

var treasuryHeader = []string{"ID", "Date", "Libellé", "Type", "Montant", "Mode", "Catégorie"}

var treasurySchema = tableSchema[core.TreasuryMovement]{
	kind:   KindTreasury,
	header: treasuryHeader,
	row: func(m core.TreasuryMovement) []string {
		return []string{m.ID, m.Date.String(), m.Label, string(m.Kind), m.Amount.String(), m.Mode, m.Category}
	},
	parse: func(rec []string) (core.TreasuryMovement, error) {
		f := fields{header: treasuryHeader, rec: rec}
		m := core.TreasuryMovement{
			ID:       f.text(0),
			Date:     f.date(1),
			Label:    f.text(2),
			Kind:     f.kind(3),
			Amount:   f.amount(4),
			Mode:     f.text(5),
			Category: f.text(6),
		}
		return m, f.err
	},
}
