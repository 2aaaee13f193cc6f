// Package currency parses and renders localized monetary text as exact
// decimals. All behavior is driven by an explicit Config value; there is no
// process-wide locale state.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Config holds the symbol and separator conventions used when parsing and
// formatting monetary text.
type Config struct {
	Symbol               string
	DecimalPoint         string
	NegativeSign         string
	TrailingNegativeSign string
	PositiveSign         string
	ThousandsSep         string
}

// DefaultConfig returns US-style conventions.
func DefaultConfig() Config {
	return Config{
		Symbol:       "$",
		DecimalPoint: ".",
		NegativeSign: "-",
		ThousandsSep: ",",
	}
}

// Delocalize strips the currency symbol and grouping separators and rewrites
// the decimal point to ".". It does not validate the digits: malformed input
// passes through and fails later at decimal parsing.
func (c Config) Delocalize(text string) string {
	if c.Symbol != "" {
		text = strings.ReplaceAll(text, c.Symbol, "")
	}
	if c.ThousandsSep != "" {
		text = strings.ReplaceAll(text, c.ThousandsSep, "")
	}
	if c.DecimalPoint != "" && c.DecimalPoint != "." {
		text = strings.ReplaceAll(text, c.DecimalPoint, ".")
	}

	return text
}

// Format renders a decimal at its own scale.
func (c Config) Format(value decimal.Decimal) string {
	return c.format(value, scaleOf(value))
}

// FormatModel renders a decimal rounded half-to-even to the scale of the
// model decimal.
func (c Config) FormatModel(value, model decimal.Decimal) string {
	places := -model.Exponent()

	return c.format(value.RoundBank(places), places)
}

func (c Config) format(value decimal.Decimal, scale int32) string {
	fixed := value.Abs().StringFixed(scale)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if value.IsNegative() {
		b.WriteString(c.NegativeSign)
	} else {
		b.WriteString(c.PositiveSign)
	}
	b.WriteString(c.Symbol)
	b.WriteString(c.group(intPart))
	// The decimal point is always rendered, even at scale zero.
	b.WriteString(c.DecimalPoint)
	b.WriteString(fracPart)
	if value.IsNegative() {
		b.WriteString(c.TrailingNegativeSign)
	}

	return b.String()
}

// group inserts the thousands separator every 3 digits, counted leftward
// from the decimal point.
func (c Config) group(digits string) string {
	if c.ThousandsSep == "" || len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(c.ThousandsSep)
		}
		b.WriteString(digits[i : i+3])
	}

	return b.String()
}

func scaleOf(value decimal.Decimal) int32 {
	if exp := value.Exponent(); exp < 0 {
		return -exp
	}

	return 0
}
