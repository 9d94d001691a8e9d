package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"saba/internal/core"
	"saba/internal/payroll"
)

type employeeForm struct {
	Name          string `schema:"name"`
	Contract      string `schema:"contract"`
	HoursMonth    string `schema:"hours_month"`
	HoursWeek     string `schema:"hours_week"`
	OvertimeHours string `schema:"overtime_hours"`
	Bonus         string `schema:"bonus"`
	Absences      string `schema:"absences"`
	ClockLog      string `schema:"clock_log"`
}

func (f employeeForm) employee() (core.Employee, error) {
	e := core.Employee{
		Name:     f.Name,
		Contract: f.Contract,
		Absences: f.Absences,
		ClockLog: f.ClockLog,
	}
	fields := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"hours_month", f.HoursMonth, &e.HoursMonth},
		{"hours_week", f.HoursWeek, &e.HoursWeek},
		{"overtime_hours", f.OvertimeHours, &e.OvertimeHours},
		{"bonus", f.Bonus, &e.Bonus},
	}
	for _, fl := range fields {
		d, err := amountField(fl.name, fl.raw, false)
		if err != nil {
			return core.Employee{}, err
		}
		*fl.dst = d
	}
	return e, nil
}

type shiftForm struct {
	Day      string `schema:"day"`
	Employee string `schema:"employee"`
	Shift    string `schema:"shift"`
}

func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := s.ledger.Employees(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sortedValues(employees))
}

func (s *Server) handleSaveEmployee(w http.ResponseWriter, r *http.Request) {
	var form employeeForm
	if err := decodeBody(w, r, &form); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := form.employee()
	if err != nil {
		writeError(w, r, err)
		return
	}
	saved, err := s.ledger.SaveEmployee(r.Context(), e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	week, err := s.ledger.Schedule(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, week.Normalize())
}

// handleReplaceSchedule replaces the whole week. The body is a JSON object
// of day to employee to shift.
func (s *Server) handleReplaceSchedule(w http.ResponseWriter, r *http.Request) {
	var week core.WeeklySchedule
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&week); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, ErrBodyTooLarge)
			return
		}
		writeError(w, r, &core.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}
	saved, err := s.ledger.SaveSchedule(r.Context(), week)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// handleSetShift sets one employee's shift on one day; an empty shift
// clears it.
func (s *Server) handleSetShift(w http.ResponseWriter, r *http.Request) {
	var form shiftForm
	if err := decodeBody(w, r, &form); err != nil {
		writeError(w, r, err)
		return
	}
	week, err := s.ledger.SetShift(r.Context(), form.Day, form.Employee, form.Shift)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, week)
}

// handlePayroll computes payslips with the configured rates, each
// overridable by ?hourly=, ?overtime= and ?contribution_rate=.
func (s *Server) handlePayroll(w http.ResponseWriter, r *http.Request) {
	rates, err := ratesFromQuery(r.URL.Query(), s.rates)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.ledger.Payroll(r.Context(), rates)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPayrollView(res))
}

func ratesFromQuery(q url.Values, defaults payroll.Rates) (payroll.Rates, error) {
	rates := defaults
	overrides := []struct {
		key string
		dst *decimal.Decimal
	}{
		{"hourly", &rates.Hourly},
		{"overtime", &rates.Overtime},
		{"contribution_rate", &rates.ContributionRate},
	}
	for _, o := range overrides {
		v := strings.TrimSpace(q.Get(o.key))
		if v == "" {
			continue
		}
		d, err := amountField(o.key, v, true)
		if err != nil {
			return payroll.Rates{}, err
		}
		*o.dst = d
	}
	return rates, nil
}
