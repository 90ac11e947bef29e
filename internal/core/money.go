// Package core holds the invoicing domain types and money handling.
//
// Monetary amounts are fixed-point cents throughout storage and
// aggregation; floating point appears only at display formatting.
package core

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseMoney converts a decimal amount literal to cents. Both dot and
// comma decimal separators are accepted; digits past the second
// decimal place round half-up. The literal must be non-negative; zero
// is valid (a fully unpaid invoice carries a zero paid amount).
// Positivity, where an amount requires it, is enforced by Validate.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" || s[0] == '+' || s[0] == '-' {
		return Money{}, ErrInvalidAmount
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	if !digitsOnly(intPart) || !digitsOnly(fracPart) {
		return Money{}, ErrInvalidAmount
	}

	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil || units > (1<<63-1)/100 {
		return Money{}, ErrInvalidAmount
	}

	var cents int64
	if len(fracPart) > 0 {
		cents = int64(fracPart[0]-'0') * 10
	}
	if len(fracPart) > 1 {
		cents += int64(fracPart[1] - '0')
	}
	if len(fracPart) > 2 && fracPart[2] >= '5' {
		cents++
	}
	return Money{Cents: units*100 + cents}, nil
}

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Sub returns m - other. The result may be negative (overpayment).
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// Format renders the amount with two decimals, e.g. "12.34" or "-0.50".
// Used only at display and render time.
func (m Money) Format() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// Float returns the amount as a float64 for JSON responses consumed by
// the UI shell. Use cents for calculations.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100.0
}
