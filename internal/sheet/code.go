package sheet

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const bom = "\uFEFF"

// NormalizeCode canonicalizes a scanned or stored code for matching.
// It stringifies the value, strips a leading byte-order marker, trims,
// removes internal whitespace, and drops every rune that is not a
// letter, digit, underscore or hyphen. This tolerates copy-paste
// artifacts and control characters injected by keyboard-wedge scanners.
func NormalizeCode(v interface{}) string {
	s := strings.TrimPrefix(stringifyCell(v), bom)
	s = strings.TrimSpace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CodeVariants returns the candidate forms of a code for index lookup,
// original normalized form first. For purely numeric codes a second
// variant with leading zeros stripped is added, so a cell storing
// "00012345" matches a scanner reading "12345" and vice versa.
func CodeVariants(v interface{}) []string {
	code := NormalizeCode(v)
	variants := []string{code}

	if code != "" && isAllDigits(code) {
		stripped := strings.TrimLeft(code, "0")
		if stripped != "" && stripped != code {
			variants = append(variants, stripped)
		}
	}
	return variants
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func stringifyCell(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
