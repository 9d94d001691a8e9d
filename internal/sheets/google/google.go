package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"saba/internal/export"
	"saba/internal/log"
	ports "saba/internal/sheets"
)

var _ ports.TableWriter = (*Client)(nil)

// Client mirrors exported tables into tabs of one spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	logger        *log.Logger
}

// Credentials selects the service account used to reach the Sheets API.
// JSON takes precedence over File.
type Credentials struct {
	JSON string
	File string
}

// New creates a client for spreadsheetID. opts are passed to the Sheets
// service and override the credentials when they set their own client.
func New(ctx context.Context, spreadsheetID string, creds Credentials, logger *log.Logger, opts ...goption.ClientOption) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if logger == nil {
		logger = log.Nop()
	}
	logger = logger.WithComponent(log.ComponentSheets)

	if len(opts) == 0 {
		credOpt, err := credentialsOption(ctx, creds, logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, credOpt, goption.WithScopes(gsheet.SpreadsheetsScope))
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, logger: logger}, nil
}

func credentialsOption(ctx context.Context, creds Credentials, logger *log.Logger) (goption.ClientOption, error) {
	switch {
	case strings.TrimSpace(creds.JSON) != "":
		logger.DebugContext(ctx, "Using inline service account credentials")
		return goption.WithCredentialsJSON([]byte(creds.JSON)), nil
	case strings.TrimSpace(creds.File) != "":
		data, err := os.ReadFile(creds.File)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		logger.DebugContext(ctx, "Read service account credentials", "path", creds.File, "size", len(data))
		return goption.WithCredentialsJSON(data), nil
	}
	return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
}

// PushTable replaces the content of the tab named after the table,
// creating the tab when it does not exist yet.
func (c *Client) PushTable(ctx context.Context, t export.Table) error {
	if t.Name == "" {
		return errors.New("table name required")
	}
	if err := c.ensureSheet(ctx, t.Name); err != nil {
		return err
	}

	rng := quoteSheet(t.Name)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet %s: %w", t.Name, err)
	}

	values := make([][]any, 0, len(t.Rows)+1)
	values = append(values, toRow(t.Header, false))
	for _, r := range t.Rows {
		values = append(values, toRow(r, true))
	}
	vr := &gsheet.ValueRange{Values: values}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng+"!A1", vr).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update sheet %s: %w", t.Name, err)
	}

	c.logger.InfoContext(ctx, "Table pushed to spreadsheet",
		"sheet", t.Name,
		log.FieldRows, len(t.Rows))
	return nil
}

func (c *Client) ensureSheet(ctx context.Context, name string) error {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == name {
			return nil
		}
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: name}},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", name, err)
	}
	c.logger.InfoContext(ctx, "Sheet created", "sheet", name)
	return nil
}

func toRow(cells []string, numeric bool) []any {
	out := make([]any, len(cells))
	for i, v := range cells {
		if numeric {
			out[i] = export.CellValue(v)
		} else {
			out[i] = v
		}
	}
	return out
}

// quoteSheet quotes a tab name for use in A1 notation.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
