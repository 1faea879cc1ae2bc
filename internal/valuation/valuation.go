// Package valuation computes coin values from silver content, spot price and
// quantity. All arithmetic is decimal so currency values never pick up binary
// floating point error.
package valuation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var (
	ErrDivisionByZero = errors.New("division by zero quantity")
	ErrInvalidNumber  = errors.New("not a valid number")
)

// ComputeTotal returns silverOunces * spotPrice * quantity.
func ComputeTotal(silverOunces, spotPrice decimal.Decimal, quantity int) decimal.Decimal {
	return silverOunces.Mul(spotPrice).Mul(decimal.NewFromInt(int64(quantity)))
}

// ComputePerCoin returns total / quantity. The quotient keeps at least the
// scale of total, so a total produced by ComputeTotal divides back exactly.
func ComputePerCoin(total decimal.Decimal, quantity int) (decimal.Decimal, error) {
	if quantity == 0 {
		return decimal.Zero, ErrDivisionByZero
	}
	places := int32(decimal.DivisionPrecision)
	if scale := -total.Exponent(); scale > places {
		places = scale
	}
	return total.DivRound(decimal.NewFromInt(int64(quantity)), places), nil
}

// LineValue returns the value of numCoins coins at valuePerCoin each.
func LineValue(valuePerCoin decimal.Decimal, numCoins int) decimal.Decimal {
	return valuePerCoin.Mul(decimal.NewFromInt(int64(numCoins)))
}

// ParseSpotPrice parses a user-entered price such as "30", "29.85" or "$30.10".
func ParseSpotPrice(s string) (decimal.Decimal, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return d, nil
}

// FormatUSD renders v rounded to cents, e.g. "$21.70".
func FormatUSD(v decimal.Decimal) string {
	cents := v.Round(2).Shift(2).IntPart()
	return money.New(cents, money.USD).Display()
}

// FormatPlain renders v rounded to cents without a currency symbol, e.g. "21.70".
func FormatPlain(v decimal.Decimal) string {
	return v.StringFixed(2)
}
