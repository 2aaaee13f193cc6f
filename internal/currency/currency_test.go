package currency

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDelocalize(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"negative with symbol and grouping", "-$22,345.123", "-22345.123"},
		{"plain amount", "16.00", "16.00"},
		{"grouped shares", "1,142.857", "1142.857"},
		{"malformed passes through", "n/a", "n/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.Delocalize(tt.in); got != tt.want {
				t.Errorf("Delocalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDelocalize_EuropeanConventions(t *testing.T) {
	cfg := Config{
		Symbol:       "€",
		DecimalPoint: ",",
		NegativeSign: "-",
		ThousandsSep: ".",
	}

	if got := cfg.Delocalize("-€22.345,123"); got != "-22345.123" {
		t.Errorf("Delocalize = %q, want %q", got, "-22345.123")
	}
}

func TestFormat(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"sub-unit value keeps bare zero", "0.0004", "$0.0004"},
		{"zero renders bare zero", "0", "$0."},
		{"grouped negative", "-123000.9876543210", "-$123,000.9876543210"},
		{"exact thousands", "123456", "$123,456."},
		{"no grouping under four digits", "999.5", "$999.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := decimal.RequireFromString(tt.in)
			if got := cfg.Format(v); got != tt.want {
				t.Errorf("Format(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatModel(t *testing.T) {
	cfg := DefaultConfig()
	model := decimal.RequireFromString("0.0004")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"pads to model scale", "-1234.56", "-$1,234.5600"},
		{"rounds half to even", "-123000.9876543210", "-$123,000.9877"},
		{"tie rounds to even digit", "2.00125", "$2.0012"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := decimal.RequireFromString(tt.in)
			if got := cfg.FormatModel(v, model); got != tt.want {
				t.Errorf("FormatModel(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormat_TrailingNegative(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NegativeSign = ""
	cfg.TrailingNegativeSign = "-"

	if got := cfg.Format(decimal.RequireFromString("-12.50")); got != "$12.50-" {
		t.Errorf("Format = %q, want %q", got, "$12.50-")
	}
}

func TestFormatDelocalizeRoundTrip(t *testing.T) {
	cfg := DefaultConfig()

	for _, in := range []string{
		"0.0004",
		"-22345.123",
		"1234567.89",
		"-0.5",
		"14.00",
	} {
		v := decimal.RequireFromString(in)
		back, err := decimal.NewFromString(cfg.Delocalize(cfg.Format(v)))
		if err != nil {
			t.Fatalf("parse back %q: %v", in, err)
		}
		if !back.Equal(v) {
			t.Errorf("round trip of %s gave %s", v, back)
		}
	}
}
