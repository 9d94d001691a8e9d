// Package http provides the HTTP server and its JSON handlers.
//
// This file decodes submitted entries. Every form accepts either
// application/x-www-form-urlencoded or a JSON object with the same keys;
// both are decoded into the same form structs with gorilla/schema.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/schema"
	"github.com/shopspring/decimal"

	"saba/internal/core"
)

// maxBodyBytes bounds any submitted form.
const maxBodyBytes = 1 << 20

// ErrBodyTooLarge is returned for a body over maxBodyBytes. It is a
// validation error answered with 413.
var ErrBodyTooLarge = &core.ValidationError{Field: "body", Reason: "larger than 1 MiB"}

var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.ZeroEmpty(true)
	return d
}

// MonthParams holds parsed year/month values from request parameters.
type MonthParams struct {
	Year  int
	Month int
}

// ParseMonthParams extracts year and month from query parameters, using
// now as the default. Out-of-range months fall back to now as well.
func ParseMonthParams(query url.Values, now time.Time) MonthParams {
	params := MonthParams{
		Year:  now.Year(),
		Month: int(now.Month()),
	}

	if v := strings.TrimSpace(query.Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil && y > 0 {
			params.Year = y
		}
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			params.Month = m
		}
	}

	return params
}

// RequestBodyParser reads a request body once and exposes it as form
// values, whether it was sent form-encoded or as JSON.
type RequestBodyParser struct {
	body        []byte
	contentType string
	values      url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request. A body over
// maxBodyBytes fails with ErrBodyTooLarge and closes the connection.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	var tooLarge *http.MaxBytesError
	if errors.As(p.err, &tooLarge) {
		p.body, p.err = nil, ErrBodyTooLarge
	}
	return p
}

// Parse converts the body to form values. A JSON object is flattened one
// level: nested objects become "key: value; ..." text and arrays repeat
// the key.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.values = url.Values{}
		return nil
	}

	if p.IsJSON() {
		var obj map[string]any
		dec := json.NewDecoder(bytes.NewReader(p.body))
		dec.UseNumber()
		if err := dec.Decode(&obj); err != nil {
			p.err = &core.ValidationError{Field: "body", Reason: "malformed JSON"}
			return p.err
		}
		p.values = url.Values{}
		for key, val := range obj {
			if list, ok := val.([]any); ok {
				for _, item := range list {
					p.values.Add(key, stringValue(item))
				}
				continue
			}
			p.values.Set(key, stringValue(val))
		}
		return nil
	}

	p.values, p.err = url.ParseQuery(string(p.body))
	if p.err != nil {
		p.err = &core.ValidationError{Field: "body", Reason: "malformed form"}
	}
	return p.err
}

// Get returns a sanitized value from the parsed body.
func (p *RequestBodyParser) Get(key string) string {
	if p.values == nil {
		return ""
	}
	return sanitizeInput(p.values.Get(key))
}

// Decode fills dst, a pointer to a form struct, from the parsed body.
func (p *RequestBodyParser) Decode(dst any) error {
	if err := p.Parse(); err != nil {
		return err
	}
	clean := make(url.Values, len(p.values))
	for key, vals := range p.values {
		for _, v := range vals {
			clean.Add(key, sanitizeInput(v))
		}
	}
	if err := formDecoder.Decode(dst, clean); err != nil {
		return schemaError(err)
	}
	return nil
}

// IsJSON reports whether the body was sent as JSON.
func (p *RequestBodyParser) IsJSON() bool {
	mt, _, err := mime.ParseMediaType(p.contentType)
	if err == nil && mt == "application/json" {
		return true
	}
	return len(p.body) > 0 && p.body[0] == '{'
}

// decodeBody parses the request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	return NewRequestBodyParser(w, r).Decode(dst)
}

// schemaError turns a decoder failure into a validation error naming the
// first offending field.
func schemaError(err error) error {
	multi, ok := err.(schema.MultiError)
	if !ok || len(multi) == 0 {
		return &core.ValidationError{Field: "body", Reason: err.Error()}
	}
	keys := make([]string, 0, len(multi))
	for k := range multi {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	field := keys[0]
	reason := "invalid value"
	if _, ok := multi[field].(schema.EmptyFieldError); ok {
		reason = "required"
	}
	return &core.ValidationError{Field: field, Reason: reason}
}

// stringValue converts a decoded JSON value to its form text.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+stringValue(val[k]))
		}
		return strings.Join(parts, "; ")
	default:
		return ""
	}
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// amountField parses an amount submitted in field. An empty optional value
// is zero.
func amountField(field, s string, required bool) (decimal.Decimal, error) {
	if s == "" && !required {
		return decimal.Zero, nil
	}
	d, err := core.ParseAmount(s)
	if err != nil {
		return decimal.Zero, &core.ValidationError{Field: field, Reason: "must be a non-negative number"}
	}
	return d, nil
}

// dateField parses an optional YYYY-MM-DD date; empty means today.
func dateField(s string) (core.Date, error) {
	if s == "" {
		return core.Date{}, nil
	}
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}, &core.ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	return d, nil
}

// parseIngredients reads "name: qty" pairs separated by ";" or newlines.
func parseIngredients(s string) (map[string]decimal.Decimal, error) {
	out := map[string]decimal.Decimal{}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == '\n' })
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		name, qty, ok := strings.Cut(f, ":")
		if !ok {
			return nil, &core.ValidationError{Field: "ingredients", Reason: fmt.Sprintf("expected name: quantity, got %q", f)}
		}
		d, err := amountField("ingredients", strings.TrimSpace(qty), true)
		if err != nil {
			return nil, err
		}
		out[strings.TrimSpace(name)] = d
	}
	return out, nil
}

// portionsParam reads the portions query parameter, defaulting to 1.
func portionsParam(query url.Values) (int, error) {
	v := strings.TrimSpace(query.Get("portions"))
	if v == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &core.ValidationError{Field: "portions", Reason: "must be a whole number"}
	}
	return n, nil
}
