package sheet

import "strings"

// Item is a resolved, typed view of one row, constructed on a
// successful scan lookup.
type Item struct {
	Barcode  string
	Name     string
	OnHand   float64
	Reserved float64
}

// LookupIndex maps every normalized code variant to its source row for
// O(1) scan resolution. It is ephemeral: callers rebuild it whenever
// the row set or column mapping changes.
type LookupIndex struct {
	mapping *ColumnMapping
	byCode  map[string]Row
}

// BuildIndex indexes every row under each of its barcode's variants.
// Duplicate barcodes are last-writer-wins: a later row silently shadows
// an earlier one, matching the source data's lack of uniqueness.
func BuildIndex(rows []Row, mapping *ColumnMapping) *LookupIndex {
	idx := &LookupIndex{mapping: mapping, byCode: make(map[string]Row, len(rows))}
	if mapping == nil {
		return idx
	}
	for _, row := range rows {
		for _, variant := range CodeVariants(row[mapping.Barcode]) {
			if variant == "" {
				continue
			}
			idx.byCode[variant] = row
		}
	}
	return idx
}

// Resolve looks up a scanned code, trying its variants in order and
// taking the first hit.
func (idx *LookupIndex) Resolve(code interface{}) (*Item, bool) {
	if idx.mapping == nil {
		return nil, false
	}
	for _, variant := range CodeVariants(code) {
		if variant == "" {
			continue
		}
		if row, ok := idx.byCode[variant]; ok {
			return idx.itemFromRow(row), true
		}
	}
	return nil, false
}

// Len reports the number of indexed variants.
func (idx *LookupIndex) Len() int {
	return len(idx.byCode)
}

func (idx *LookupIndex) itemFromRow(row Row) *Item {
	item := &Item{
		Barcode: NormalizeCode(row[idx.mapping.Barcode]),
		Name:    strings.TrimSpace(row[idx.mapping.Name]),
		OnHand:  ToNumber(row[idx.mapping.OnHand]),
	}
	if idx.mapping.Reserved != "" {
		item.Reserved = ToNumber(row[idx.mapping.Reserved])
	}
	return item
}
