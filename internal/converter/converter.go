// Package converter derives the converted amount shown by the rate converter.
package converter

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/quickrate/internal/rates"
)

// Result is a derived conversion. The zero value is the null result.
type Result struct {
	Value float64
	OK    bool
}

// Null is the "no conversion shown" result.
var Null = Result{}

// Display renders the stored binary value rounded half away from zero to
// exactly two decimals, or "" for a null result.
func (r Result) Display() string {
	if !r.OK {
		return ""
	}
	return decimal.NewFromFloatWithExponent(r.Value, -2).StringFixed(2)
}

// Derive converts amount (in the base currency) into currency using the
// snapshot's base dealing rate: amount / deal_bas_r.
//
// The result is null when the amount or currency is empty, the currency has
// no record, the record has no usable rate, or the amount is not a number.
func Derive(amount, currency string, snap rates.Snapshot) Result {
	amount = strings.TrimSpace(amount)
	if amount == "" || currency == "" {
		return Null
	}

	rec, ok := snap.Lookup(currency)
	if !ok || rec.DealBaseRate == "" {
		return Null
	}

	rate, err := rates.ParseDecimal(rec.DealBaseRate)
	if err != nil || rate <= 0 {
		return Null
	}

	value, err := rates.ParseAmount(amount)
	if err != nil {
		return Null
	}

	converted := value / rate
	if math.IsInf(converted, 0) || math.IsNaN(converted) {
		return Null
	}
	return Result{Value: converted, OK: true}
}
