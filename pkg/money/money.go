package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// minorPerMajor is the number of minor units (paise) in one major unit (rupee).
const minorPerMajor = 100

var (
	hundred      = decimal.NewFromInt(100)
	minorDivisor = decimal.NewFromInt(minorPerMajor)
)

// Amount is a currency value stored in minor units.
// All billing arithmetic happens on Amount so that reconciliation is exact.
type Amount int64

// Zero is the zero amount.
const Zero Amount = 0

// MaxAmount is the largest amount accepted from outside, ₹1,000,000,000,000.
// Sums of many such amounts still fit in int64.
const MaxAmount Amount = 1_000_000_000_000 * minorPerMajor

// ErrOutOfRange is returned when a value does not fit within ±MaxAmount
var ErrOutOfRange = errors.New("money: amount out of range")

var maxMajor = decimal.New(int64(MaxAmount), -2)

// Major builds an Amount from whole major units.
func Major(units int64) Amount {
	return Amount(units * minorPerMajor)
}

// FromDecimal converts a major-unit decimal to minor units, rounding half away from zero.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount(d.Mul(minorDivisor).Round(0).IntPart())
}

// Parse converts a major-unit decimal to minor units like FromDecimal, but
// rejects values beyond ±MaxAmount instead of wrapping.
func Parse(d decimal.Decimal) (Amount, error) {
	if d.Abs().GreaterThan(maxMajor) {
		return Zero, ErrOutOfRange
	}
	return FromDecimal(d), nil
}

// FromFloat converts a major-unit float to minor units.
func FromFloat(f float64) Amount {
	return FromDecimal(decimal.NewFromFloat(f))
}

// Percent returns pct percent of base, rounded to the nearest minor unit.
func Percent(base Amount, pct decimal.Decimal) Amount {
	return Amount(decimal.NewFromInt(int64(base)).Mul(pct).Div(hundred).Round(0).IntPart())
}

// Decimal returns the amount in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

// Float64 returns the amount in major units. Only for display.
func (a Amount) Float64() float64 {
	f, _ := a.Decimal().Float64()
	return f
}

// String formats the amount with two decimals, e.g. "450.00".
func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

// MarshalJSON renders the amount as a major-unit JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal().StringFixed(2)), nil
}

// UnmarshalJSON accepts a major-unit JSON number or numeric string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("money: invalid amount %s: %w", string(data), err)
	}
	amount, err := Parse(d)
	if err != nil {
		return fmt.Errorf("money: invalid amount %s: %w", string(data), err)
	}
	*a = amount
	return nil
}

// Max returns the larger of a and b.
func Max(a, b Amount) Amount {
	if a > b {
		return a
	}
	return b
}

// Min returns the smaller of a and b.
func Min(a, b Amount) Amount {
	if a < b {
		return a
	}
	return b
}
