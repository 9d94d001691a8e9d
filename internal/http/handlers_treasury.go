package http

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"saba/internal/core"
)

type movementForm struct {
	Date     string `schema:"date"`
	Label    string `schema:"label"`
	Kind     string `schema:"kind"`
	Amount   string `schema:"amount"`
	Mode     string `schema:"mode"`
	Category string `schema:"category"`
}

func (f movementForm) movement() (core.TreasuryMovement, error) {
	date, err := dateField(f.Date)
	if err != nil {
		return core.TreasuryMovement{}, err
	}
	kind, err := core.ParseMovementKind(f.Kind)
	if err != nil {
		return core.TreasuryMovement{}, err
	}
	amount, err := amountField("amount", f.Amount, true)
	if err != nil {
		return core.TreasuryMovement{}, err
	}
	return core.TreasuryMovement{
		Date:     date,
		Label:    f.Label,
		Kind:     kind,
		Amount:   amount,
		Mode:     f.Mode,
		Category: f.Category,
	}, nil
}

type bankForm struct {
	Account string `schema:"account"`
	Month   string `schema:"month"`
	Balance string `schema:"balance"`
}

// handleTreasury returns the summary and the movements, newest first.
func (s *Server) handleTreasury(w http.ResponseWriter, r *http.Request) {
	var (
		summary   core.TreasurySummary
		movements []core.TreasuryMovement
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		summary, err = s.ledger.Treasury(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		movements, err = s.ledger.Movements(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		writeError(w, r, err)
		return
	}

	views := make([]movementView, 0, len(movements))
	for _, m := range movements {
		views = append(views, newMovementView(m))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"summary":   newTreasuryView(summary),
		"movements": views,
	})
}

func (s *Server) handleCreateMovement(w http.ResponseWriter, r *http.Request) {
	var form movementForm
	if err := decodeBody(w, r, &form); err != nil {
		writeError(w, r, err)
		return
	}
	m, err := form.movement()
	if err != nil {
		writeError(w, r, err)
		return
	}
	saved, err := s.ledger.RecordMovement(r.Context(), m)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newMovementView(saved))
}

func (s *Server) handleBankBalances(w http.ResponseWriter, r *http.Request) {
	b, err := s.ledger.BankBalances(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bankViews(b))
}

// handleSetBankBalance records an end-of-month balance. Negative balances
// are accepted.
func (s *Server) handleSetBankBalance(w http.ResponseWriter, r *http.Request) {
	var form bankForm
	if err := decodeBody(w, r, &form); err != nil {
		writeError(w, r, err)
		return
	}
	balance, err := core.ParseSignedAmount(form.Balance)
	if err != nil {
		writeError(w, r, &core.ValidationError{Field: "balance", Reason: "must be a number"})
		return
	}
	if err := s.ledger.SetBankBalance(r.Context(), form.Account, form.Month, balance); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := s.ledger.BankBalances(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bankViews(b))
}
