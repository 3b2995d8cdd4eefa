package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseAmount parses a user-supplied number for field. Both dot and comma
// decimal separators are accepted.
func ParseAmount(field, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &ValidationError{Field: field, Reason: "missing value"}
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a number", s)}
	}
	return v, nil
}

// ParsePositive is ParseAmount that also rejects zero and negative values.
func ParsePositive(field, s string) (float64, error) {
	v, err := ParseAmount(field, s)
	if err != nil {
		return 0, err
	}
	if err := RequirePositive(field, v); err != nil {
		return 0, err
	}
	return v, nil
}

// ParseNonNegative is ParseAmount that also rejects negative values.
func ParseNonNegative(field, s string) (float64, error) {
	v, err := ParseAmount(field, s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, &ValidationError{Field: field, Reason: "must not be negative"}
	}
	return v, nil
}

func RequirePositive(field string, v float64) error {
	if math.IsNaN(v) || v <= 0 {
		return &ValidationError{Field: field, Reason: "must be greater than zero"}
	}
	return nil
}

// FormatDollars renders v with two decimals and a dollar sign.
func FormatDollars(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("$%.2f", v)
}

// FormatNumber renders v the way a person would type it: integers without a
// fractional part, everything else with the shortest exact representation.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatDecimal is FormatNumber with a ".0" kept on whole values, matching
// how stored rates such as APR are displayed.
func FormatDecimal(v float64) string {
	out := FormatNumber(v)
	if !strings.ContainsAny(out, ".eEN") {
		out += ".0"
	}
	return out
}
