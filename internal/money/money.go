// Package money converts between the integer minor units (cents) kept in
// the database and the decimal major units used by services and clients.
//
// Conversion happens exactly once per boundary crossing: repositories call
// ToMinorUnits on the way in and ToMajorUnits on the way out. Nothing else
// in the codebase multiplies or divides by the scale.
package money

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

const minorUnitExp = 2

var ErrOutOfRange = errors.New("amount does not fit in minor units")

var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// ToMinorUnits returns major scaled to cents, rounded half away from zero.
// Amounts whose cent value overflows int64 return ErrOutOfRange.
func ToMinorUnits(major decimal.Decimal) (int64, error) {
	minor := major.Shift(minorUnitExp).Round(0)
	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		return 0, fmt.Errorf("%w: %s", ErrOutOfRange, major.String())
	}
	return minor.IntPart(), nil
}

// FitsMinorUnits reports whether ToMinorUnits would accept major.
func FitsMinorUnits(major decimal.Decimal) bool {
	_, err := ToMinorUnits(major)
	return err == nil
}

// ToMajorUnits returns the exact decimal value of a cent amount.
func ToMajorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -minorUnitExp)
}
