package http

import (
	"bytes"
	"net/http"

	"github.com/gorilla/mux"

	"saba/internal/core"
	"saba/internal/export"
	"saba/internal/log"
	"saba/internal/store"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// handleExport downloads one table as CSV or XLSX. Besides every record
// kind, "payroll" exports the payroll run and "all" (XLSX only) puts every
// table in one workbook.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind, format := vars["kind"], vars["format"]

	tables, err := s.exportTables(r, kind, format)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	contentType := contentTypeXLSX
	if format == "csv" {
		contentType = contentTypeCSV
		err = export.WriteCSV(&buf, tables[0])
	} else {
		err = export.WriteXLSX(&buf, tables...)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "Table exported",
		log.FieldOperation, log.OpExport,
		log.FieldKind, kind,
		"format", format,
		"bytes", buf.Len())
	writeDownload(w, contentType, kind+"."+format, buf.Bytes())
}

func (s *Server) exportTables(r *http.Request, kind, format string) ([]export.Table, error) {
	ctx := r.Context()
	switch kind {
	case "payroll":
		res, err := s.ledger.Payroll(ctx, s.rates)
		if err != nil {
			return nil, err
		}
		return []export.Table{export.Payroll(res)}, nil
	case "all":
		if format != "xlsx" {
			return nil, &core.NotFoundError{Kind: "export", Key: kind + "." + format}
		}
		tables := make([]export.Table, 0, len(store.Kinds))
		for _, k := range store.Kinds {
			t, err := s.ledger.Table(ctx, k)
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
	t, err := s.ledger.Table(ctx, k)
	if err != nil {
		return nil, err
	}
	return []export.Table{t}, nil
}

// handleExportPayrollPDF renders the payroll run as a PDF, with the same
// rate overrides as the payroll view.
func (s *Server) handleExportPayrollPDF(w http.ResponseWriter, r *http.Request) {
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
	var buf bytes.Buffer
	if err := export.PayrollPDF(&buf, res, s.now()); err != nil {
		writeError(w, r, err)
		return
	}
	writeDownload(w, contentTypePDF, "payroll.pdf", buf.Bytes())
}
