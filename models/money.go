package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an amount in integer cents. It is stored as an integer column and
// rendered as a two-digit decimal string on the wire.
type Money int64

// MaxAmount caps any single amount read from input: 1,000,000.00.
const MaxAmount Money = 100_000_000

var ErrAmountOutOfRange = errors.New("amount out of range")

// ParseMoney parses a decimal string such as "18.50". More than two fraction
// digits of precision is rejected rather than rounded.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return moneyFromDecimal(d)
}

// MustParseMoney is ParseMoney for constants known to be valid.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func moneyFromDecimal(d decimal.Decimal) (Money, error) {
	cents := d.Shift(2)
	if cents.Abs().GreaterThan(decimal.NewFromInt(int64(MaxAmount))) {
		return 0, fmt.Errorf("amount %s exceeds %s: %w", d.String(), MaxAmount, ErrAmountOutOfRange)
	}
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than 2 fraction digits", d.String())
	}
	return Money(cents.IntPart()), nil
}

// Decimal returns the amount in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts both "16.00" and 16.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	v, err := moneyFromDecimal(d)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
