package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"

	"saba/internal/core"
	"saba/internal/export"
	"saba/internal/inventory"
	"saba/internal/payroll"
	"saba/internal/store"
)

// Ledger is the part of the ledger service the admin commands drive.
// It lets the CLI be tested against any backend.
type Ledger interface {
	Payroll(ctx context.Context, rates payroll.Rates) (payroll.Result, error)
	CheckLowStock(ctx context.Context) ([]string, error)
	Cook(ctx context.Context, recipe string, portions int, strict bool) (inventory.Deduction, error)
	Table(ctx context.Context, kind store.Kind) (export.Table, error)
}

// Env carries what the commands need besides the ledger.
type Env struct {
	Out   io.Writer
	Rates payroll.Rates
	Now   func() time.Time
	// Push mirrors every table to the spreadsheet; nil when Google Sheets
	// is not configured.
	Push func(ctx context.Context) error
}

var errNoSheets = errors.New("google sheets not configured: set GOOGLE_SPREADSHEET_ID and service account credentials")

// BuildCLI creates the saba-admin command tree on top of ledger.
func BuildCLI(ledger Ledger, env Env) *cli.Command {
	if env.Now == nil {
		env.Now = time.Now
	}

	outFlag := &cli.StringFlag{
		Name:    "out",
		Aliases: []string{"o"},
		Value:   "-",
		Usage:   "output file, - for stdout",
	}

	payrollCmd := &cli.Command{
		Name:  "payroll",
		Usage: "Compute the payroll of every employee",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "hourly", Usage: "hourly rate override"},
			&cli.StringFlag{Name: "overtime", Usage: "overtime hourly rate override"},
			&cli.StringFlag{Name: "contribution-rate", Usage: "contribution rate override, e.g. 0.22"},
			&cli.StringFlag{Name: "pdf", Usage: "also write the payroll as PDF to this path"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			rates, err := ratesFromFlags(c, env.Rates)
			if err != nil {
				return err
			}
			res, err := ledger.Payroll(ctx, rates)
			if err != nil {
				return err
			}
			if err := printPayroll(env.Out, res); err != nil {
				return err
			}
			if path := c.String("pdf"); path != "" {
				return writeFile(path, env.Out, func(w io.Writer) error {
					return export.PayrollPDF(w, res, env.Now())
				})
			}
			return nil
		},
	}

	lowStockCmd := &cli.Command{
		Name:  "low-stock",
		Usage: "List ingredients at or below their alert threshold",
		Action: func(ctx context.Context, c *cli.Command) error {
			names, err := ledger.CheckLowStock(ctx)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				_, err = fmt.Fprintln(env.Out, "no ingredient below threshold")
				return err
			}
			for _, n := range names {
				if _, err := fmt.Fprintln(env.Out, n); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cookCmd := &cli.Command{
		Name:      "cook",
		Usage:     "Deduct the ingredients of a recipe from stock",
		ArgsUsage: "RECIPE",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "portions", Aliases: []string{"p"}, Value: 1, Usage: "number of portions"},
			&cli.BoolFlag{Name: "strict", Usage: "fail when an ingredient is not stocked"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			name := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if name == "" {
				return &core.ValidationError{Field: "recipe", Reason: "required"}
			}
			d, err := ledger.Cook(ctx, name, int(c.Int("portions")), c.Bool("strict"))
			if err != nil {
				return err
			}
			return printDeduction(env.Out, d)
		},
	}

	exportCmd := &cli.Command{
		Name:      "export",
		Usage:     "Export a table as CSV or XLSX",
		ArgsUsage: "KIND (" + kindList() + ", payroll, all)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "csv", Usage: "csv or xlsx"},
			outFlag,
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			kind, format := c.Args().First(), c.String("format")
			if format != "csv" && format != "xlsx" {
				return &core.ValidationError{Field: "format", Reason: "must be csv or xlsx"}
			}
			tables, err := exportTables(ctx, ledger, env.Rates, kind, format)
			if err != nil {
				return err
			}
			return writeFile(c.String("out"), env.Out, func(w io.Writer) error {
				if format == "csv" {
					return export.WriteCSV(w, tables[0])
				}
				return export.WriteXLSX(w, tables...)
			})
		},
	}

	pushCmd := &cli.Command{
		Name:  "push",
		Usage: "Mirror every table to the Google spreadsheet",
		Action: func(ctx context.Context, c *cli.Command) error {
			if env.Push == nil {
				return errNoSheets
			}
			return env.Push(ctx)
		},
	}

	return &cli.Command{
		Name:     "saba-admin",
		Usage:    "Maintenance commands for the saba ledger",
		Commands: []*cli.Command{payrollCmd, lowStockCmd, cookCmd, exportCmd, pushCmd},
	}
}

func ratesFromFlags(c *cli.Command, defaults payroll.Rates) (payroll.Rates, error) {
	rates := defaults
	for _, o := range []struct {
		flag string
		dst  *decimal.Decimal
	}{
		{"hourly", &rates.Hourly},
		{"overtime", &rates.Overtime},
		{"contribution-rate", &rates.ContributionRate},
	} {
		v := strings.TrimSpace(c.String(o.flag))
		if v == "" {
			continue
		}
		d, err := core.ParseAmount(v)
		if err != nil {
			return payroll.Rates{}, &core.ValidationError{Field: o.flag, Reason: err.Error()}
		}
		*o.dst = d
	}
	return rates, nil
}

func exportTables(ctx context.Context, ledger Ledger, rates payroll.Rates, kind, format string) ([]export.Table, error) {
	switch kind {
	case "payroll":
		res, err := ledger.Payroll(ctx, rates)
		if err != nil {
			return nil, err
		}
		return []export.Table{export.Payroll(res)}, nil
	case "all":
		if format != "xlsx" {
			return nil, &core.ValidationError{Field: "format", Reason: "all is only available as xlsx"}
		}
		tables := make([]export.Table, 0, len(store.Kinds))
		for _, k := range store.Kinds {
			t, err := ledger.Table(ctx, k)
			if err != nil {
				return nil, err
			}
			tables = append(tables, t)
		}
		return tables, nil
	}
	k, ok := store.ParseKind(kind)
	if !ok {
		return nil, &core.NotFoundError{Kind: "export", Key: kind}
	}
	t, err := ledger.Table(ctx, k)
	if err != nil {
		return nil, err
	}
	return []export.Table{t}, nil
}

func kindList() string {
	names := make([]string, len(store.Kinds))
	for i, k := range store.Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func printPayroll(w io.Writer, res payroll.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Employee\tHours\tOvertime\tBonus\tGross\tContribution\tNet\t")
	for _, p := range res.Payslips {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			p.Employee, p.Hours, p.OvertimeHours,
			core.FormatAmount(p.Bonus), core.FormatAmount(p.Gross),
			core.FormatAmount(p.Contribution), core.FormatAmount(p.Net))
	}
	fmt.Fprintf(tw, "Total\t\t\t\t%s\t%s\t%s\t\n",
		core.FormatAmount(res.Totals.Gross),
		core.FormatAmount(res.Totals.Contribution),
		core.FormatAmount(res.Totals.Net))
	return tw.Flush()
}

func printDeduction(w io.Writer, d inventory.Deduction) error {
	fmt.Fprintf(w, "%s x%d\n", d.Recipe, d.Portions)
	for _, l := range d.Applied {
		fmt.Fprintf(w, "  %s: %s -> %s\n", l.StockItem, l.Before, l.After)
	}
	for _, label := range []struct {
		name  string
		items []string
	}{
		{"missing", d.Missing},
		{"negative", d.Negative},
		{"low stock", d.LowStock},
	} {
		if len(label.items) > 0 {
			fmt.Fprintf(w, "%s: %s\n", label.name, strings.Join(label.items, ", "))
		}
	}
	return nil
}

// writeFile runs write against path, or against stdout when path is "-".
func writeFile(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "-" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
