package kernel

import (
	"fmt"
	"math"

	"fastdispatch/internal/pkg/errs"
)

// Money is a fixed-point monetary amount with two decimal places, stored in
// minor units (cents/kobo). It is an immutable value object; all arithmetic
// returns new values. Integer minor units avoid float rounding drift on
// financial amounts.
//
// The zero value is a valid zero amount.
type Money struct {
	cents int64
}

// NewMoneyFromCents creates a Money value from minor units.
// Negative amounts are rejected: the engine never records a negative total,
// earnings figure, or escrow amount.
func NewMoneyFromCents(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%d is negative", cents))
	}
	return Money{cents: cents}, nil
}

// NewMoneyFromFloat creates a Money value from a major-unit float
// (e.g. 1234.50), rounding to the nearest cent. Used at API boundaries where
// amounts arrive as JSON numbers.
func NewMoneyFromFloat(amount float64) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, errs.NewValueIsInvalidError("amount")
	}
	return NewMoneyFromCents(int64(math.Round(amount * 100)))
}

// Zero returns the zero amount.
func Zero() Money {
	return Money{}
}

// Cents returns the amount in minor units.
func (m Money) Cents() int64 {
	return m.cents
}

// Float64 returns the amount in major units. Intended for serialization at
// API boundaries only; domain logic stays on minor units.
func (m Money) Float64() float64 {
	return float64(m.cents) / 100
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.cents == 0
}

// IsEqual compares two amounts.
func (m Money) IsEqual(other Money) bool {
	return m.cents == other.cents
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Percent returns the given percentage of the amount, rounded to the nearest
// cent. Used for the courier earnings share of an order total.
func (m Money) Percent(p float64) Money {
	return Money{cents: int64(math.Round(float64(m.cents) * p / 100))}
}

// String renders the amount in major units with two decimals, e.g. "1234.50".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}
