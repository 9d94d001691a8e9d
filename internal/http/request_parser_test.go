package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"saba/internal/core"
)

func TestParseMonthParams(t *testing.T) {
	now := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		query url.Values
		want  MonthParams
	}{
		{"all values provided", url.Values{"year": {"2024"}, "month": {"6"}}, MonthParams{2024, 6}},
		{"empty uses now", url.Values{}, MonthParams{2025, 3}},
		{"invalid values are ignored", url.Values{"year": {"abc"}, "month": {"13"}}, MonthParams{2025, 3}},
		{"whitespace trimmed", url.Values{"month": {" 11 "}}, MonthParams{2025, 11}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseMonthParams(tt.query, now); got != tt.want {
				t.Errorf("ParseMonthParams = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRequestBodyParser(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        map[string]string
	}{
		{
			name:        "form encoded",
			contentType: formType,
			body:        "product=Caf%C3%A9&quantity=2",
			want:        map[string]string{"product": "Café", "quantity": "2"},
		},
		{
			name:        "json with numbers and nested object",
			contentType: "application/json",
			body:        `{"name":"Crêpes","portions":3,"strict":true,"ingredients":{"Oeufs":2,"Farine":"0.25"}}`,
			want: map[string]string{
				"name": "Crêpes", "portions": "3", "strict": "true",
				"ingredients": "Farine: 0.25; Oeufs: 2",
			},
		},
		{
			name: "json sniffed without content type",
			body: `{"label":"  Loyer\u0007 "}`,
			want: map[string]string{"label": "Loyer"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			p := NewRequestBodyParser(httptest.NewRecorder(), req)
			if err := p.Parse(); err != nil {
				t.Fatalf("Parse: %v", err)
			}
			got := map[string]string{}
			for k := range tt.want {
				got[k] = p.Get(k)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("values mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRequestBodyParser_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	err := NewRequestBodyParser(httptest.NewRecorder(), req).Decode(&dishForm{})
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestRequestBodyParser_BodyTooLarge(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"at limit", maxBodyBytes, false},
		{"one byte over", maxBodyBytes + 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := "name=" + strings.Repeat("a", tt.size-len("name="))
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			req.Header.Set("Content-Type", formType)
			p := NewRequestBodyParser(httptest.NewRecorder(), req)
			err := p.Parse()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Parse: %v", err)
				}
				if got := len(p.values.Get("name")); got != tt.size-len("name=") {
					t.Errorf("name has %d bytes, want %d", got, tt.size-len("name="))
				}
				return
			}
			if !errors.Is(err, ErrBodyTooLarge) {
				t.Fatalf("err = %v, want ErrBodyTooLarge", err)
			}
			if got := StatusFor(err); got != http.StatusRequestEntityTooLarge {
				t.Errorf("StatusFor = %d, want %d", got, http.StatusRequestEntityTooLarge)
			}
		})
	}
}

func TestDecode_ConversionError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("portions=beaucoup&strict=true"))
	req.Header.Set("Content-Type", formType)
	var form cookForm
	err := decodeBody(httptest.NewRecorder(), req, &form)
	var verr *core.ValidationError
	if !errors.As(err, &verr) || verr.Field != "portions" {
		t.Fatalf("err = %v, want validation error on portions", err)
	}
}

func TestParseIngredients(t *testing.T) {
	got, err := parseIngredients("Farine: 0,25; Oeufs: 2\nLait :0.1")
	if err != nil {
		t.Fatalf("parseIngredients: %v", err)
	}
	want := map[string]string{"Farine": "0.25", "Oeufs": "2", "Lait": "0.1"}
	gotStr := map[string]string{}
	for k, v := range got {
		gotStr[k] = v.String()
	}
	if diff := cmp.Diff(want, gotStr); diff != "" {
		t.Errorf("ingredients mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"Farine", "Farine: -1", "Farine: deux"} {
		if _, err := parseIngredients(bad); !errors.Is(err, core.ErrValidation) {
			t.Errorf("parseIngredients(%q) err = %v, want validation error", bad, err)
		}
	}
}

func TestAmountField(t *testing.T) {
	if d, err := amountField("bonus", "", false); err != nil || !d.IsZero() {
		t.Errorf("optional empty = %v, %v", d, err)
	}
	if _, err := amountField("price", "", true); !errors.Is(err, core.ErrValidation) {
		t.Errorf("required empty err = %v", err)
	}
	if d, err := amountField("price", "1 250,5", true); err != nil || d.String() != "1250.5" {
		t.Errorf("spaced amount = %v, %v", d, err)
	}
}
