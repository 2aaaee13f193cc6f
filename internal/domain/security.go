package domain

import "github.com/shopspring/decimal"

// Security is an investable instrument tracked by the ledger, identified by
// its ticker symbol. The ledger stores prices inverted: rate = 1/price.
type Security struct {
	ID           int64
	Ticker       string
	Name         string
	RelativeRate decimal.Decimal
}

// PriceSnapshot is one persisted (date, rate) price record for a security,
// ordered by DateInt.
type PriceSnapshot struct {
	SecurityID int64
	DateInt    int
	Rate       decimal.Decimal
}

// Price converts the snapshot's stored rate back to a price, rounded
// half-to-even at the scale of model.
func (s PriceSnapshot) Price(model decimal.Decimal) decimal.Decimal {
	return RateToPrice(s.Rate, model)
}

// RateToPrice inverts a stored rate and rounds half-to-even to the scale of
// the model decimal.
func RateToPrice(rate, model decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Div(rate).RoundBank(-model.Exponent())
}

// PriceToRate inverts a price into the ledger's stored form.
func PriceToRate(price decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Div(price)
}
