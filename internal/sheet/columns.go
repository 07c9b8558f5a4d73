package sheet

import "strings"

// ColumnMapping records which source header feeds each logical field.
// Barcode, Name and OnHand are mandatory; Reserved may be empty.
type ColumnMapping struct {
	Barcode  string
	Name     string
	OnHand   string
	Reserved string
}

// Alias lists per logical field, compared against headers normalized by
// normalizeHeader. Suffixes some frontends append to read-only columns
// (e.g. "(not editable)") are covered by dedicated aliases.
var (
	barcodeAliases = []string{
		"barcode", "barcodes", "sku", "upc", "ean", "gtin",
		"code", "itemcode", "productcode", "scancode",
	}
	nameAliases = []string{
		"name", "productname", "itemname", "product", "item",
		"description", "title",
	}
	onHandAliases = []string{
		"onhand", "onhandnoteditable", "stock", "stockonhand",
		"qty", "quantity", "available", "instock", "count", "units",
	}
	reservedAliases = []string{
		"reserved", "onhold", "hold", "allocated", "committed",
	}
)

// MapColumns resolves the four logical fields against a header list.
// The first header whose normalized form matches any alias wins for
// that field. Returns nil when any of the three required fields has no
// match; callers must treat such a file as unusable for scanning.
func MapColumns(headers []string) *ColumnMapping {
	m := &ColumnMapping{
		Barcode:  matchHeader(headers, barcodeAliases),
		Name:     matchHeader(headers, nameAliases),
		OnHand:   matchHeader(headers, onHandAliases),
		Reserved: matchHeader(headers, reservedAliases),
	}
	if m.Barcode == "" || m.Name == "" || m.OnHand == "" {
		return nil
	}
	return m
}

func matchHeader(headers []string, aliases []string) string {
	for _, h := range headers {
		n := normalizeHeader(h)
		if n == "" {
			continue
		}
		for _, a := range aliases {
			if n == a {
				return h
			}
		}
	}
	return ""
}

// normalizeHeader lowercases, strips the BOM, removes parentheses and
// deletes whitespace, underscores, slashes and hyphens, so "Bar_Code",
// "bar code" and "Bar-Code" all compare equal.
func normalizeHeader(h string) string {
	s := strings.TrimPrefix(h, bom)
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '(', ')', '_', '/', '-', ' ', '\t', ' ':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
