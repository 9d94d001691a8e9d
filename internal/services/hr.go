package services

import (
	"context"
	"strings"

	"saba/internal/core"
	"saba/internal/log"
	"saba/internal/payroll"
	"saba/internal/store"
)

func (l *Ledger) Employees(ctx context.Context) (map[string]core.Employee, error) {
	return store.Load(ctx, l.backend, store.Employees)
}

// SaveEmployee adds or replaces an employee record by name.
func (l *Ledger) SaveEmployee(ctx context.Context, e core.Employee) (core.Employee, error) {
	e.Name = strings.TrimSpace(e.Name)
	e.Contract = strings.TrimSpace(e.Contract)
	if err := e.Validate(); err != nil {
		return core.Employee{}, l.failed(ctx, log.OpUpdate, store.KindEmployees, err)
	}
	all, err := store.Update(ctx, l.backend, store.Employees, func(m *map[string]core.Employee) error {
		(*m)[e.Name] = e
		return nil
	})
	if err != nil {
		return core.Employee{}, err
	}
	l.saved(ctx, log.OpUpdate, store.KindEmployees, e.Name, len(all))
	return e, nil
}

func (l *Ledger) Schedule(ctx context.Context) (core.WeeklySchedule, error) {
	return store.Load(ctx, l.backend, store.Schedule)
}

// SaveSchedule replaces the whole week.
func (l *Ledger) SaveSchedule(ctx context.Context, week core.WeeklySchedule) (core.WeeklySchedule, error) {
	if err := week.Validate(); err != nil {
		return nil, l.failed(ctx, log.OpUpdate, store.KindSchedule, err)
	}
	week = week.Normalize()
	if err := store.Save(ctx, l.backend, store.Schedule, week); err != nil {
		return nil, err
	}
	l.saved(ctx, log.OpUpdate, store.KindSchedule, "", len(week))
	return week, nil
}

// SetShift sets one employee's shift on a day. An empty shift clears it.
func (l *Ledger) SetShift(ctx context.Context, day, employee, shift string) (core.WeeklySchedule, error) {
	label := core.NormalizeWeekday(day)
	if label == "" {
		return nil, l.failed(ctx, log.OpUpdate, store.KindSchedule, &core.ValidationError{Field: "day", Reason: "unknown weekday " + day})
	}
	employee = strings.TrimSpace(employee)
	if employee == "" {
		return nil, l.failed(ctx, log.OpUpdate, store.KindSchedule, &core.ValidationError{Field: "employee", Reason: "required"})
	}
	shift = strings.TrimSpace(shift)

	week, err := store.Update(ctx, l.backend, store.Schedule, func(w *core.WeeklySchedule) error {
		if shift == "" {
			delete((*w)[label], employee)
			return nil
		}
		if (*w)[label] == nil {
			(*w)[label] = map[string]string{}
		}
		(*w)[label][employee] = shift
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.saved(ctx, log.OpUpdate, store.KindSchedule, label+"/"+employee, len(week))
	return week, nil
}

// Payroll computes the monthly payroll for every employee.
func (l *Ledger) Payroll(ctx context.Context, rates payroll.Rates) (payroll.Result, error) {
	employees, err := l.Employees(ctx)
	if err != nil {
		return payroll.Result{}, err
	}
	res, err := payroll.Run(employees, rates)
	if err != nil {
		return payroll.Result{}, err
	}
	l.logger.WithComponent(log.ComponentPayroll).InfoContext(ctx, "Payroll computed",
		"employees", len(res.Payslips),
		"gross", res.Totals.Gross.StringFixedBank(2))
	return res, nil
}
