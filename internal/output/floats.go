package output

import (
	"math"
	"strconv"
)

// Round2 rounds to 2 decimal places, half away from zero. Matches the
// store's ROUND(x, 2) so Go-side checks agree with SQL-computed rates.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// FormatRate formats a percentage with exactly 2 decimals
func FormatRate(f float64) string {
	return strconv.FormatFloat(Round2(f), 'f', 2, 64)
}
