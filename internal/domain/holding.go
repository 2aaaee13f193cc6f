package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Column headers of the holdings table as shown on the source page.
const (
	HeaderBalance = "Current Balance ($)"
	HeaderShares  = "Shares or Units"
)

// Precision models. A fund's price is rounded to the scale of its model
// decimal, matching the decimal places the ledger stores for that security.
var (
	Prec2 = decimal.New(0, -2)
	Prec6 = decimal.New(0, -6)
	Prec7 = decimal.New(0, -7)
)

type fundInfo struct {
	ticker    string
	precision decimal.Decimal
}

// fundTable maps fund display names, exactly as shown on the holdings page,
// to their ledger ticker symbol and price precision.
var fundTable = map[string]fundInfo{
	"HI YLD EMG MKT BOND":  {"NON40OJFI", Prec7},
	"INFL PROTECTED BOND":  {"NON40OJFB", Prec7},
	"INTEREST INCOME FUND": {"NON40OJFA", Prec7},
	"PIM INTL BD US$H I":   {"PFORX", Prec2},
	"TARGETRETIREMENT2040": {"NON40OJGZ", Prec7},
	"TOTAL BOND MARKET":    {"NON40OJFC", Prec6},
}

// KnownFund describes one fund-table entry in seedable form.
type KnownFund struct {
	Name          string
	Ticker        string
	DecimalPlaces int
}

// KnownFunds lists the funds the extractor recognizes, sorted by display
// name. Used to seed a fresh ledger.
func KnownFunds() []KnownFund {
	funds := make([]KnownFund, 0, len(fundTable))
	for name, info := range fundTable {
		funds = append(funds, KnownFund{
			Name:          name,
			Ticker:        info.ticker,
			DecimalPlaces: int(-info.precision.Exponent()),
		})
	}
	slices.SortFunc(funds, func(a, b KnownFund) int { return strings.Compare(a.Name, b.Name) })

	return funds
}

// Holding is one scraped fund position: reported balance and share count as
// of an effective date. Immutable once constructed.
type Holding struct {
	Name          string
	Ticker        string
	Precision     decimal.Decimal
	Balance       decimal.Decimal
	Shares        decimal.Decimal
	EffectiveDate time.Time
}

// NewHolding builds a Holding for a scraped row. An unknown fund name is not
// an error: the holding keeps an empty ticker and reconciliation degrades to
// an advisory balance check.
func NewHolding(name string, balance, shares decimal.Decimal, effectiveDate time.Time) Holding {
	h := Holding{
		Name:          name,
		Precision:     Prec2,
		Balance:       balance,
		Shares:        shares,
		EffectiveDate: effectiveDate,
	}
	if info, ok := fundTable[name]; ok {
		h.Ticker = info.ticker
		h.Precision = info.precision
	}

	return h
}

// Price computes the per-share price, rounded half-to-even at the holding's
// precision.
func (h Holding) Price() (decimal.Decimal, error) {
	if h.Shares.IsZero() {
		return decimal.Decimal{}, ErrZeroShares
	}

	return h.Balance.Div(h.Shares).RoundBank(-h.Precision.Exponent()), nil
}

// EffectiveDateInt returns the effective date in the ledger's YYYYMMDD form.
func (h Holding) EffectiveDateInt() int {
	return DateInt(h.EffectiveDate)
}
