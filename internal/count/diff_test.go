package count

import (
	"testing"
	"time"
)

func entry(barcode string, delta float64) DiffEntry {
	return DiffEntry{
		Barcode: barcode,
		Name:    "item " + barcode,
		Actual:  delta,
		Delta:   delta,
		TS:      time.Now(),
	}
}

func TestDiffLog_UpsertOrdersMostRecentFirst(t *testing.T) {
	log := NewDiffLog()
	log.Upsert(entry("111", 1))
	log.Upsert(entry("222", 2))
	log.Upsert(entry("333", 3))

	got := log.Entries()
	want := []string{"333", "222", "111"}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i, barcode := range want {
		if got[i].Barcode != barcode {
			t.Errorf("entry %d: expected barcode %q, got %q", i, barcode, got[i].Barcode)
		}
	}
}

func TestDiffLog_UpsertReplacesSameBarcode(t *testing.T) {
	log := NewDiffLog()
	log.Upsert(entry("111", 1))
	log.Upsert(entry("222", 2))
	log.Upsert(entry("111", 5))

	got := log.Entries()
	if len(got) != 2 {
		t.Fatalf("expected 2 entries after re-confirm, got %d", len(got))
	}
	if got[0].Barcode != "111" || got[0].Delta != 5 {
		t.Errorf("expected updated 111 entry first, got %+v", got[0])
	}
	if got[1].Barcode != "222" {
		t.Errorf("expected 222 second, got %q", got[1].Barcode)
	}
}

func TestDiffLog_DifferencesFiltersZeroDelta(t *testing.T) {
	log := NewDiffLog()
	log.Upsert(entry("111", 0))
	log.Upsert(entry("222", -3))
	log.Upsert(entry("333", 0))
	log.Upsert(entry("444", 2))

	got := log.Differences()
	if len(got) != 2 {
		t.Fatalf("expected 2 differences, got %d", len(got))
	}
	if got[0].Barcode != "444" || got[1].Barcode != "222" {
		t.Errorf("unexpected difference order: %q, %q", got[0].Barcode, got[1].Barcode)
	}
}

func TestDiffLog_ResetAndReplace(t *testing.T) {
	log := NewDiffLog()
	log.Upsert(entry("111", 1))
	log.Reset()
	if log.Len() != 0 {
		t.Fatalf("expected empty log after reset, got %d entries", log.Len())
	}

	log.Replace([]DiffEntry{entry("555", 5), entry("666", 6)})
	if log.Len() != 2 {
		t.Fatalf("expected 2 entries after replace, got %d", log.Len())
	}
	if log.Entries()[0].Barcode != "555" {
		t.Errorf("expected replaced order preserved, got %q first", log.Entries()[0].Barcode)
	}
}

func TestDiffLog_EntriesReturnsCopy(t *testing.T) {
	log := NewDiffLog()
	log.Upsert(entry("111", 1))

	got := log.Entries()
	got[0].Barcode = "mutated"

	if log.Entries()[0].Barcode != "111" {
		t.Error("mutating the returned slice leaked into the log")
	}
}
