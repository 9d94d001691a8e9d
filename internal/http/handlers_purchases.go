package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"saba/internal/core"
)

type purchaseForm struct {
	Date        string `schema:"date"`
	Supplier    string `schema:"supplier"`
	Product     string `schema:"product"`
	Quantity    string `schema:"quantity"`
	Unit        string `schema:"unit"`
	UnitPrice   string `schema:"unit_price"`
	PaymentMode string `schema:"payment_mode"`
	Category    string `schema:"category"`
}

func (f purchaseForm) purchase() (core.Purchase, error) {
	date, err := dateField(f.Date)
	if err != nil {
		return core.Purchase{}, err
	}
	qty, err := amountField("quantity", f.Quantity, true)
	if err != nil {
		return core.Purchase{}, err
	}
	price, err := amountField("unit_price", f.UnitPrice, true)
	if err != nil {
		return core.Purchase{}, err
	}
	return core.NewPurchase(date, f.Supplier, f.Product, qty, f.Unit, price, f.PaymentMode, f.Category), nil
}

func (s *Server) handleListPurchases(w http.ResponseWriter, r *http.Request) {
	rows, err := s.ledger.Purchases(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]purchaseView, 0, len(rows))
	for _, p := range rows {
		out = append(out, newPurchaseView(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreatePurchase(w http.ResponseWriter, r *http.Request) {
	p, ok := s.decodePurchase(w, r)
	if !ok {
		return
	}
	saved, err := s.ledger.RecordPurchase(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newPurchaseView(saved))
}

func (s *Server) handleUpdatePurchase(w http.ResponseWriter, r *http.Request) {
	p, ok := s.decodePurchase(w, r)
	if !ok {
		return
	}
	if p.Date.IsZero() {
		writeError(w, r, &core.ValidationError{Field: "date", Reason: "required"})
		return
	}
	saved, err := s.ledger.UpdatePurchase(r.Context(), mux.Vars(r)["id"], p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPurchaseView(saved))
}

func (s *Server) handleDeletePurchase(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeletePurchase(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePurchaseStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.ledger.PurchaseStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPurchaseStatsView(stats))
}

func (s *Server) decodePurchase(w http.ResponseWriter, r *http.Request) (core.Purchase, bool) {
	var form purchaseForm
	if err := decodeBody(w, r, &form); err != nil {
		writeError(w, r, err)
		return core.Purchase{}, false
	}
	p, err := form.purchase()
	if err != nil {
		writeError(w, r, err)
		return core.Purchase{}, false
	}
	return p, true
}
