package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	goption "google.golang.org/api/option"

	"saba/internal/export"
)

// fakeSheets answers the handful of Sheets API calls PushTable makes.
type fakeSheets struct {
	mu      sync.Mutex
	titles  []string
	calls   []string
	updated map[string]any
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := r.URL.Path
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet:
		f.calls = append(f.calls, "get")
		var sheets []map[string]any
		for _, t := range f.titles {
			sheets = append(sheets, map[string]any{"properties": map[string]any{"title": t}})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"sheets": sheets})
	case strings.HasSuffix(path, ":batchUpdate"):
		f.calls = append(f.calls, "add")
		var req struct {
			Requests []struct {
				AddSheet struct {
					Properties struct {
						Title string `json:"title"`
					} `json:"properties"`
				} `json:"addSheet"`
			} `json:"requests"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		for _, rq := range req.Requests {
			f.titles = append(f.titles, rq.AddSheet.Properties.Title)
		}
		_, _ = io.WriteString(w, `{}`)
	case strings.HasSuffix(path, ":clear"):
		f.calls = append(f.calls, "clear")
		_, _ = io.WriteString(w, `{}`)
	case r.Method == http.MethodPut:
		f.calls = append(f.calls, "update")
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.updated = body
		_, _ = io.WriteString(w, `{}`)
	default:
		http.Error(w, "unexpected call", http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, fake *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	c, err := New(context.Background(), "sheet-1", Credentials{}, nil,
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()),
		goption.WithoutAuthentication())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestPushTable_CreatesMissingSheet(t *testing.T) {
	fake := &fakeSheets{}
	c := newTestClient(t, fake)

	tbl := export.Table{Name: "Ventes", Header: []string{"Produit", "Total"}, Rows: [][]string{{"Café", "2.50"}}}
	if err := c.PushTable(context.Background(), tbl); err != nil {
		t.Fatalf("PushTable: %v", err)
	}

	want := []string{"get", "add", "clear", "update"}
	if strings.Join(fake.calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", fake.calls, want)
	}
	values, _ := fake.updated["values"].([]any)
	if len(values) != 2 {
		t.Fatalf("values = %v", fake.updated)
	}
	row, _ := values[1].([]any)
	if row[0] != "Café" || row[1] != 2.5 {
		t.Errorf("data row = %v", row)
	}
}

func TestPushTable_ExistingSheet(t *testing.T) {
	fake := &fakeSheets{titles: []string{"Stock"}}
	c := newTestClient(t, fake)

	if err := c.PushTable(context.Background(), export.Table{Name: "Stock", Header: []string{"Produit"}}); err != nil {
		t.Fatalf("PushTable: %v", err)
	}
	for _, call := range fake.calls {
		if call == "add" {
			t.Error("sheet added although it exists")
		}
	}
}

func TestPushTable_RequiresName(t *testing.T) {
	c := newTestClient(t, &fakeSheets{})
	if err := c.PushTable(context.Background(), export.Table{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestNew_Errors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		id    string
		creds Credentials
		want  string
	}{
		{"missing id", " ", Credentials{JSON: "{}"}, "missing spreadsheet ID"},
		{"missing credentials", "sheet-1", Credentials{}, "missing service account credentials"},
		{"unreadable file", "sheet-1", Credentials{File: filepath.Join(t.TempDir(), "nope.json")}, "read service account file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(ctx, tt.id, tt.creds, nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestQuoteSheet(t *testing.T) {
	if got := quoteSheet("Comptes d'épargne"); got != "'Comptes d''épargne'" {
		t.Errorf("quoteSheet = %s", got)
	}
}
