package archive

import (
	"time"

	"cloud.google.com/go/civil"
)

// SessionDiffRow is one archived diff entry in the count_sessions
// table. A counting session fans out to one row per recorded entry,
// all sharing a session_id.
type SessionDiffRow struct {
	SessionID string `bigquery:"session_id"` // REQUIRED
	SourceKey string `bigquery:"source_key"` // NULLABLE

	Barcode string `bigquery:"barcode"`
	Name    string `bigquery:"name"`

	PrevOnHand float64 `bigquery:"prev_on_hand"`
	Reserved   float64 `bigquery:"reserved"`
	Actual     float64 `bigquery:"actual"`
	Delta      float64 `bigquery:"delta"`

	CountDate  civil.Date `bigquery:"count_date"`  // DATE
	ScannedTS  time.Time  `bigquery:"scanned_ts"`  // TIMESTAMP
	ArchivedTS time.Time  `bigquery:"archived_ts"` // TIMESTAMP
}
