package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is a non-negative amount in minor units (cents).
type Money int64

// MaxPrice is the largest amount a numeric(10,2) price column holds.
const MaxPrice Money = 99_999_999_99

// ParsePrice reads a free-text price such as "5.50", "$5.50" or "1,250".
// Blank or unparseable input is treated as zero. A negative amount or one
// above MaxPrice is an error.
func ParsePrice(s string) (Money, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, nil
	}
	if f < 0 {
		return 0, fmt.Errorf("price must not be negative, got %s", s)
	}
	if f > MaxPrice.Float() {
		return 0, fmt.Errorf("price must be at most %s, got %s", MaxPrice, s)
	}
	return MoneyFromFloat(f), nil
}

// MoneyFromFloat rounds a major-unit amount to the nearest cent.
func MoneyFromFloat(f float64) Money {
	return Money(math.Round(f * 100))
}

// Float returns the amount in major units, as stored in numeric(10,2) columns.
func (m Money) Float() float64 {
	return float64(m) / 100
}

// Times multiplies the amount by a quantity.
func (m Money) Times(n int) Money {
	return m * Money(n)
}

// String formats the amount with two decimals, e.g. "5.50".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", int64(m)/100, int64(m)%100)
}
