package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{",5", "0.5", true},
		{"0", "0", true},
		{" 2.50 ", "2.5", true},
		{"1 250,5", "1250.5", true},
		{"-1", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
		{".", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestParseSignedAmount(t *testing.T) {
	got, err := ParseSignedAmount("-12,50")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("-12.5")) {
		t.Fatalf("got %s", got)
	}
}

func TestFormatAmountUsesBankersRounding(t *testing.T) {
	cases := map[string]string{
		"2.345":  "2.34",
		"2.355":  "2.36",
		"473":    "473.00",
		"1677.0": "1677.00",
		"0.125":  "0.12",
	}
	for in, want := range cases {
		if got := FormatAmount(decimal.RequireFromString(in)); got != want {
			t.Errorf("FormatAmount(%s) = %s, want %s", in, got, want)
		}
	}
	if got := FormatEuros(decimal.RequireFromString("12.5")); got != "12,50 €" {
		t.Errorf("FormatEuros = %q", got)
	}
}
