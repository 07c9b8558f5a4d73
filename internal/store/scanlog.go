package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/noumanabid-jpg/inventory-scanner-app/internal/count"
)

// ScanLogPrefix is where persisted scan logs live relative to the
// inventory files themselves.
const ScanLogPrefix = "scans/"

// Record is the persisted shape of a counting run: the diff log plus
// bookkeeping about where it came from.
type Record struct {
	Source  string            `json:"source,omitempty"`
	SavedAt time.Time         `json:"savedAt,omitempty"`
	Diffs   []count.DiffEntry `json:"diffs"`
}

// legacyEnvelope is the shape an earlier version wrote: the record
// nested under a "data" wrapper.
type legacyEnvelope struct {
	Data *Record `json:"data"`
}

// ScanLogKey maps an inventory file key to its scan-log key: the
// extension is replaced with .json and the result lives under the
// scans prefix. "uploads/stock.csv" -> "scans/uploads/stock.json".
func ScanLogKey(sourceKey string) string {
	ext := path.Ext(sourceKey)
	stem := strings.TrimSuffix(sourceKey, ext)
	if stem == "" {
		stem = sourceKey
	}
	return ScanLogPrefix + stem + ".json"
}

// legacyKeys lists older key schemes, probed in order when the current
// key misses. Earlier versions stored the log next to the source file
// or kept the original extension in the name.
func legacyKeys(sourceKey string) []string {
	ext := path.Ext(sourceKey)
	stem := strings.TrimSuffix(sourceKey, ext)
	if stem == "" {
		stem = sourceKey
	}
	return []string{
		ScanLogPrefix + sourceKey + ".json",
		stem + ".scans.json",
		sourceKey + ".scans.json",
	}
}

// EncodeScanLog serializes a record for persistence.
func EncodeScanLog(rec Record) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("EncodeScanLog: %w", err)
	}
	return data, nil
}

// DecodeScanLog parses a persisted scan log, accepting both the
// current flat shape and the legacy nested {"data": {...}} envelope.
func DecodeScanLog(data []byte) (Record, error) {
	var env legacyEnvelope
	if err := json.Unmarshal(data, &env); err == nil && env.Data != nil {
		return *env.Data, nil
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("DecodeScanLog: %w", err)
	}
	return rec, nil
}

// LoadScanLog fetches the persisted log for sourceKey, probing the
// current key first and then the legacy schemes. A miss on every
// candidate returns ErrNotFound.
func LoadScanLog(ctx context.Context, s BlobStore, sourceKey string) (Record, error) {
	candidates := append([]string{ScanLogKey(sourceKey)}, legacyKeys(sourceKey)...)
	for _, key := range candidates {
		data, err := s.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return Record{}, fmt.Errorf("LoadScanLog: fetch %s: %w", key, err)
		}
		rec, err := DecodeScanLog(data)
		if err != nil {
			return Record{}, fmt.Errorf("LoadScanLog: decode %s: %w", key, err)
		}
		return rec, nil
	}
	return Record{}, fmt.Errorf("LoadScanLog %s: %w", sourceKey, ErrNotFound)
}

// SaveScanLog writes the record under the current key scheme.
func SaveScanLog(ctx context.Context, s BlobStore, sourceKey string, rec Record) error {
	data, err := EncodeScanLog(rec)
	if err != nil {
		return fmt.Errorf("SaveScanLog: %w", err)
	}
	if err := s.Set(ctx, ScanLogKey(sourceKey), data, "application/json"); err != nil {
		return fmt.Errorf("SaveScanLog: %w", err)
	}
	return nil
}
