package count

import (
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"
)

var exportHeader = []string{"Barcode", "Name", "Prev On Hand", "Reserved", "Actual On Hand", "Delta", "Timestamp"}

// WriteDifferencesCSV writes only the entries whose delta is non-zero.
func WriteDifferencesCSV(w io.Writer, entries []DiffEntry) error {
	var diffs []DiffEntry
	for _, e := range entries {
		if e.Delta != 0 {
			diffs = append(diffs, e)
		}
	}
	if err := writeEntries(w, diffs); err != nil {
		return fmt.Errorf("WriteDifferencesCSV: %w", err)
	}
	return nil
}

// WriteAllScansCSV writes every recorded entry, differences or not.
func WriteAllScansCSV(w io.Writer, entries []DiffEntry) error {
	if err := writeEntries(w, entries); err != nil {
		return fmt.Errorf("WriteAllScansCSV: %w", err)
	}
	return nil
}

func writeEntries(w io.Writer, entries []DiffEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range entries {
		record := []string{
			e.Barcode,
			e.Name,
			formatQty(e.PrevOnHand),
			formatQty(e.Reserved),
			formatQty(e.Actual),
			formatQty(e.Delta),
			e.TS.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatQty(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// DifferencesFilename derives the export name for the differences file
// from the loaded source name, e.g. "stock.csv" -> "stock_differences.csv".
func DifferencesFilename(source string) string {
	return fileStem(source) + "_differences.csv"
}

// AllScansFilename derives the export name for the full scan log.
func AllScansFilename(source string) string {
	return fileStem(source) + "_all_scans.csv"
}

func fileStem(source string) string {
	base := path.Base(strings.ReplaceAll(source, "\\", "/"))
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" || stem == "." {
		return "inventory"
	}
	return stem
}
