package grade

import (
	"strconv"
	"strings"
)

// ParseNumber parses raw form input. Blank, non-numeric, NaN and infinite values are rejected.
func ParseNumber(field, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, invalid(field, "this field is required")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(f) {
		return 0, invalid(field, "must be a valid number")
	}
	return f, nil
}

// ParseOptional is like ParseNumber but a blank input yields nil.
func ParseOptional(field, raw string) (*float64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	f, err := ParseNumber(field, raw)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ParseCredits parses a credits input for a course row.
// Unparsable credits yield 0 so the course is simply not eligible.
func ParseCredits(raw string) float64 {
	f, err := ParseNumber("credits", raw)
	if err != nil {
		return 0
	}
	return f
}
