package http

import (
	"net/http"

	"saba/internal/core"
	"saba/internal/services"
)

type saleForm struct {
	Date        string `schema:"date"`
	Product     string `schema:"product"`
	Quantity    int    `schema:"quantity"`
	UnitPrice   string `schema:"unit_price"`
	PaymentMode string `schema:"payment_mode"`
}

func (f saleForm) input() (services.SaleInput, error) {
	date, err := dateField(f.Date)
	if err != nil {
		return services.SaleInput{}, err
	}
	price, err := amountField("unit_price", f.UnitPrice, false)
	if err != nil {
		return services.SaleInput{}, err
	}
	return services.SaleInput{
		Date:        date,
		Product:     f.Product,
		Quantity:    f.Quantity,
		UnitPrice:   price,
		PaymentMode: f.PaymentMode,
	}, nil
}

type dishForm struct {
	Name  string `schema:"name"`
	Price string `schema:"price"`
}

func (s *Server) handleListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := s.ledger.Sales(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]saleView, 0, len(sales))
	for _, sale := range sales {
		out = append(out, newSaleView(sale))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCreateSale records a sale. An omitted unit price is taken from the
// dish list.
func (s *Server) handleCreateSale(w http.ResponseWriter, r *http.Request) {
	var form saleForm
	if err := decodeBody(w, r, &form); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := form.input()
	if err != nil {
		writeError(w, r, err)
		return
	}
	sale, err := s.ledger.RecordSale(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newSaleView(sale))
}

func (s *Server) handleSalesStats(w http.ResponseWriter, r *http.Request) {
	p := ParseMonthParams(r.URL.Query(), s.now())
	stats, err := s.ledger.SalesStats(r.Context(), p.Year, p.Month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSalesStatsView(stats))
}

func (s *Server) handleListDishes(w http.ResponseWriter, r *http.Request) {
	dishes, err := s.ledger.Dishes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dishViews(dishes))
}

func (s *Server) handleSaveDish(w http.ResponseWriter, r *http.Request) {
	var form dishForm
	if err := decodeBody(w, r, &form); err != nil {
		writeError(w, r, err)
		return
	}
	price, err := amountField("price", form.Price, true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	d, err := s.ledger.SaveDish(r.Context(), core.Dish{Name: form.Name, Price: price})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dishView{Name: d.Name, Price: money(d.Price)})
}
