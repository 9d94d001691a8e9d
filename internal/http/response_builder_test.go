package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"saba/internal/core"
	"saba/internal/store"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &core.ValidationError{Field: "quantity", Reason: "must be at least 1"}, http.StatusUnprocessableEntity},
		{"wrapped validation", fmt.Errorf("sale: %w", &core.ValidationError{Field: "date"}), http.StatusUnprocessableEntity},
		{"body too large", ErrBodyTooLarge, http.StatusRequestEntityTooLarge},
		{"not found", &core.NotFoundError{Kind: "recipe", Key: "Tarte"}, http.StatusNotFound},
		{"parse", &store.ParseError{Kind: store.KindSales, Err: errors.New("bad header")}, http.StatusInternalServerError},
		{"other", errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFor(tt.err); got != tt.want {
				t.Errorf("StatusFor = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	writeError(rr, req, errors.New("open /var/lib/saba/ventes.csv: permission denied"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "/var/lib") {
		t.Errorf("body leaks path: %s", rr.Body.String())
	}
}

func TestMoneyRendering(t *testing.T) {
	tests := map[string]string{
		"2.345":  `"2.34"`,
		"2.355":  `"2.36"`,
		"14":     `"14.00"`,
		"-120.5": `"-120.50"`,
	}
	for in, want := range tests {
		b, err := money(decimal.RequireFromString(in)).MarshalJSON()
		if err != nil {
			t.Fatalf("MarshalJSON(%s): %v", in, err)
		}
		if string(b) != want {
			t.Errorf("money(%s) = %s, want %s", in, b, want)
		}
	}
}

func TestBankViewsCalendarOrder(t *testing.T) {
	b := core.BankBalances{
		"Caisse": {"Mars": decimal.NewFromInt(3), "Janvier": decimal.NewFromInt(1), "Décembre": decimal.NewFromInt(12)},
	}
	views := bankViews(b)
	var months []string
	for _, mb := range views[0].Balances {
		months = append(months, mb.Month)
	}
	if got := strings.Join(months, ","); got != "Janvier,Mars,Décembre" {
		t.Errorf("months = %s", got)
	}
}
