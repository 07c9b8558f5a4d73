package sheet

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToNumber coerces an arbitrary cell value to a finite number.
// Numeric values pass through; strings are trimmed, group separators
// (commas) removed, and parsed as a float. Anything non-finite, empty
// or absent becomes 0. Spreadsheet cells are unreliably typed, so this
// is a total function: it never returns an error.
func ToNumber(v interface{}) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return n
	case float32:
		return ToNumber(float64(n))
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		return parseNumeric(n)
	default:
		return parseNumeric(fmt.Sprint(v))
	}
}

func parseNumeric(s string) float64 {
	s = strings.ReplaceAll(s, ",", "")
	// Collapse surrounding and embedded whitespace.
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
