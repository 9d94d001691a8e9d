package export

import (
	"io"
	"time"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/shopspring/decimal"

	"saba/internal/core"
	"saba/internal/payroll"
)

var hundred = decimal.NewFromInt(100)

var payrollWidths = []float64{46, 22, 22, 22, 28, 26, 24}

// PayrollPDF renders a payroll run as an A4 report.
func PayrollPDF(w io.Writer, res payroll.Result, generated time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, tr("Paie du personnel"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, tr("Édité le "+generated.Format("02/01/2006 15:04")), "", 1, "C", false, 0, "")
	pdf.CellFormat(190, 6, tr(
		"Taux horaire "+core.FormatEuros(res.Rates.Hourly)+
			"  -  heures sup "+core.FormatEuros(res.Rates.Overtime)+
			"  -  cotisations "+res.Rates.ContributionRate.Mul(hundred).String()+" %"),
		"", 1, "C", false, 0, "")
	pdf.Ln(5)

	t := Payroll(res)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	for i, h := range t.Header {
		pdf.CellFormat(payrollWidths[i], 7, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for r, row := range t.Rows {
		total := r == len(t.Rows)-1
		if total {
			pdf.SetFont("Arial", "B", 10)
			pdf.SetFillColor(240, 240, 240)
		}
		for i, v := range row {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(payrollWidths[i], 6, tr(v), "1", 0, align, total, 0, "")
		}
		pdf.Ln(-1)
	}
	return pdf.Output(w)
}
