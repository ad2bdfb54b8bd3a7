package utils

import (
	"math"
	"strconv"
	"strings"
)

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// StringValue returns the trimmed value of p, or "" for nil.
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

// NonEmpty returns nil when p is nil or blank, otherwise a pointer to its trimmed value.
func NonEmpty(p *string) *string {
	s := StringValue(p)
	if s == "" {
		return nil
	}
	return &s
}

// PositiveInt returns nil for nil or non-positive values.
func PositiveInt(p *int) *int {
	if p == nil || *p <= 0 {
		return nil
	}
	v := *p
	return &v
}

// Percent returns part as a percentage of total, rounded to one decimal. It is 0 when total is 0.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)*1000/float64(total)) / 10
}

// ToInt parses s as an int, returning fallback when s is empty, malformed or not positive.
func ToInt(s string, fallback int) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || i <= 0 {
		return fallback
	}
	return i
}
