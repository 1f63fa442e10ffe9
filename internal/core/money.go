// Package core implements the expense-splitting and balance-settlement
// engine: money arithmetic in integer minor units, expense records with
// exact splits, per-member balances, and a minimal settlement plan.
//
// The package is pure: it performs no I/O, holds no state between calls,
// and recomputes every derived value from the inputs it is given. All
// monetary arithmetic is exact; remainders from division are assigned
// explicitly, never lost to rounding.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Money is a fixed-precision currency amount in minor units (cents).
// It is never represented as a native float in stored or compared form.
type Money struct {
	Cents int64
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Sub returns m - o.
func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{Cents: -m.Cents}
}

// Abs returns the absolute value of m.
func (m Money) Abs() Money {
	if m.Cents < 0 {
		return Money{Cents: -m.Cents}
	}
	return m
}

// Cmp compares m and o, returning -1, 0 or 1.
func (m Money) Cmp(o Money) int {
	switch {
	case m.Cents < o.Cents:
		return -1
	case m.Cents > o.Cents:
		return 1
	default:
		return 0
	}
}

// IsZero reports whether m is exactly zero.
func (m Money) IsZero() bool { return m.Cents == 0 }

// IsPositive reports whether m is greater than zero.
func (m Money) IsPositive() bool { return m.Cents > 0 }

// IsNegative reports whether m is less than zero.
func (m Money) IsNegative() bool { return m.Cents < 0 }

// String formats the amount as a decimal string with two fractional
// digits, e.g. "12.34" or "-0.05". Display only; arithmetic stays in cents.
func (m Money) String() string {
	c := m.Cents
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// Distribute splits m across n recipients: every recipient gets the floor
// share, and the first (m mod n) recipients get one extra cent each, in
// order. The shares always sum to m exactly.
//
// m must be non-negative and n must be positive.
func (m Money) Distribute(n int) ([]Money, error) {
	if n <= 0 {
		return nil, ErrEmptyParticipants
	}
	if m.Cents < 0 {
		return nil, ErrInvalidAmount
	}
	base := m.Cents / int64(n)
	remainder := m.Cents % int64(n)
	shares := make([]Money, n)
	for i := range shares {
		shares[i] = Money{Cents: base}
		if int64(i) < remainder {
			shares[i].Cents++
		}
	}
	return shares, nil
}

// ParseMoney converts a decimal string to Money with half-up rounding on
// the third fractional digit. Both dot (12.34) and comma (12,34) decimal
// separators are accepted. Negative amounts and sign prefixes are
// rejected; zero is allowed, positivity is enforced by the callers that
// need it.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}

	intPart, fracPart, found := strings.Cut(s, ".")
	if found && strings.Contains(fracPart, ".") {
		return Money{}, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}

	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	// Guard whole*100 plus up to 99 fractional cents against wrapping.
	const maxWhole = (math.MaxInt64 - 99) / 100
	if whole > maxWhole {
		return Money{}, ErrInvalidAmount
	}

	// First two fractional digits are cents; the third rounds half-up.
	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				frac++
			}
		}
	}

	return Money{Cents: whole*100 + frac}, nil
}
