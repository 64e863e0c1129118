// Package money provides exact fixed-point arithmetic for ledger amounts.
//
// Amounts are stored as int64 minor currency units (paise), so tallies
// accumulate without floating-point drift and recomputation over the same
// transaction set always yields the same result.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Amount is a signed monetary value in minor currency units.
// An Amount of 7050 renders as "70.50".
type Amount int64

// ErrInvalidAmount reports a value that is not a decimal number with at
// most two fractional digits.
var ErrInvalidAmount = errors.New("amount must be a decimal number with at most two fractional digits")

// Parse converts a decimal string such as "70", "70.5" or "70.50" into an
// Amount. Scientific notation, more than two fractional digits,
// non-numeric input, and values outside the int64 minor-unit range are
// rejected.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || (hasFrac && frac == "") || len(frac) > 2 {
		return 0, ErrInvalidAmount
	}

	var units int64
	for _, r := range whole {
		if r < '0' || r > '9' {
			return 0, ErrInvalidAmount
		}
		d := int64(r - '0')
		if units > (math.MaxInt64-d)/10 {
			return 0, ErrInvalidAmount
		}
		units = units*10 + d
	}

	var minor int64
	for _, r := range frac {
		if r < '0' || r > '9' {
			return 0, ErrInvalidAmount
		}
		minor = minor*10 + int64(r-'0')
	}
	if len(frac) == 1 {
		minor *= 10
	}

	if units > (math.MaxInt64-minor)/100 {
		return 0, ErrInvalidAmount
	}
	total := units*100 + minor
	if neg {
		total = -total
	}
	return Amount(total), nil
}

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool {
	return a > 0
}

// String renders the amount with exactly two decimal places.
func (a Amount) String() string {
	v := int64(a)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes the amount as a quoted two-decimal string, matching
// how the relational numeric type travels over the wire.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
