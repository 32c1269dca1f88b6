package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CentsToAmount converts integer cents to currency units.
func CentsToAmount(cents int64) float64 {
	return float64(cents) / 100
}

// AmountToCents converts currency units to cents, rounding half away from zero.
func AmountToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Percent returns part/whole*100 rounded to places, or 0 when whole is 0.
func Percent(part, whole float64, places int) float64 {
	if whole == 0 {
		return 0
	}
	return Round(part/whole*100, places)
}

// ParseAmount parses a decimal currency string such as "45" or "45.50" into cents.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("amount must be >= 0")
	}
	return AmountToCents(v), nil
}

// FormatAmount renders cents as a two-decimal string.
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
