package count

import "time"

// DiffEntry is one recorded confirmation: the operator accepted an
// actual counted quantity for a scanned item. Delta is actual minus the
// on-hand quantity the source file carried before the confirmation.
type DiffEntry struct {
	Barcode    string    `json:"barcode"`
	Name       string    `json:"name"`
	PrevOnHand float64   `json:"prevOnHand"`
	Reserved   float64   `json:"reserved"`
	Actual     float64   `json:"actual"`
	Delta      float64   `json:"delta"`
	TS         time.Time `json:"ts"`
}

// DiffLog holds the recorded entries for the currently loaded file,
// most-recent-first, with at most one entry per barcode.
type DiffLog struct {
	entries []DiffEntry
}

// NewDiffLog creates an empty diff log.
func NewDiffLog() *DiffLog {
	return &DiffLog{}
}

// Upsert removes any existing entry with the same barcode and prepends
// the new one, so a re-confirmed item moves to the front instead of
// duplicating.
func (l *DiffLog) Upsert(e DiffEntry) {
	kept := make([]DiffEntry, 0, len(l.entries)+1)
	kept = append(kept, e)
	for _, existing := range l.entries {
		if existing.Barcode == e.Barcode {
			continue
		}
		kept = append(kept, existing)
	}
	l.entries = kept
}

// Entries returns a copy of the log, most-recent-first.
func (l *DiffLog) Entries() []DiffEntry {
	out := make([]DiffEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Differences returns only the entries whose counted quantity differs
// from the source on-hand quantity.
func (l *DiffLog) Differences() []DiffEntry {
	var out []DiffEntry
	for _, e := range l.entries {
		if e.Delta != 0 {
			out = append(out, e)
		}
	}
	return out
}

// Replace swaps the log contents wholesale, e.g. when resuming from a
// persisted scan log.
func (l *DiffLog) Replace(entries []DiffEntry) {
	l.entries = make([]DiffEntry, len(entries))
	copy(l.entries, entries)
}

// Reset clears the log.
func (l *DiffLog) Reset() {
	l.entries = nil
}

// Len reports the number of recorded entries.
func (l *DiffLog) Len() int {
	return len(l.entries)
}
