package script

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fenrir/internal/fixedpoint"
)

// ParsePriceString converts a human-entered decimal string (the form a
// real script binding would receive from its source language, e.g. a
// literal like "101.50" in a strategy file) into the float64 a Decision
// carries. shopspring/decimal is used instead of strconv.ParseFloat so
// the string is parsed exactly rather than through float64's own lossy
// text parsing, then rounded to the engine's micro resolution before
// conversion back to float64 for the Decision field.
func ParsePriceString(s string) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("script: parse price %q: %w", s, err)
	}
	rounded := d.Round(6)
	micros := fixedpoint.ToMicros(rounded.InexactFloat64())
	return fixedpoint.FromMicros(micros), nil
}

// FormatPrice renders a float64 price as the same fixed 6-decimal string
// a script would print, rounding through the engine's micro resolution
// first so the text matches the value the engine actually books.
func FormatPrice(p float64) string {
	micros := fixedpoint.ToMicros(p)
	return decimal.NewFromFloat(fixedpoint.FromMicros(micros)).StringFixed(6)
}
