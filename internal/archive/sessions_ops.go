package archive

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/noumanabid-jpg/inventory-scanner-app/internal/count"
)

var (
	projectID     = "inventory-scanner-prod"
	datasetID     = "inventory"
	sessionsTable = "count_sessions"
)

// Configure overrides the default project and dataset, typically from
// the loaded application config.
func Configure(project, dataset string) {
	if project != "" {
		projectID = project
	}
	if dataset != "" {
		datasetID = dataset
	}
}

// ArchiveSession writes a completed counting session to BigQuery, one
// row per diff entry. Returns the generated session id.
func ArchiveSession(ctx context.Context, sourceKey string, entries []count.DiffEntry) (string, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return "", fmt.Errorf("ArchiveSession: creating client: %w", err)
	}
	defer client.Close()

	return ArchiveSessionWithClient(ctx, client, sourceKey, entries)
}

// ArchiveSessionWithClient writes a completed counting session using
// the provided BigQuery client.
func ArchiveSessionWithClient(ctx context.Context, client *bigquery.Client, sourceKey string, entries []count.DiffEntry) (string, error) {
	sessionID := uuid.NewString()
	if len(entries) == 0 {
		return sessionID, nil
	}

	rows := sessionRows(sessionID, sourceKey, entries, time.Now().UTC())

	table := client.DatasetInProject(projectID, datasetID).Table(sessionsTable)
	if err := table.Inserter().Put(ctx, rows); err != nil {
		return "", fmt.Errorf("ArchiveSessionWithClient: inserting rows: %w", err)
	}

	return sessionID, nil
}

func sessionRows(sessionID, sourceKey string, entries []count.DiffEntry, archivedAt time.Time) []*SessionDiffRow {
	rows := make([]*SessionDiffRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, &SessionDiffRow{
			SessionID:  sessionID,
			SourceKey:  sourceKey,
			Barcode:    e.Barcode,
			Name:       e.Name,
			PrevOnHand: e.PrevOnHand,
			Reserved:   e.Reserved,
			Actual:     e.Actual,
			Delta:      e.Delta,
			CountDate:  civil.DateOf(e.TS),
			ScannedTS:  e.TS,
			ArchivedTS: archivedAt,
		})
	}
	return rows
}

// QuerySessionDiffs retrieves the archived diff rows for a session.
func QuerySessionDiffs(ctx context.Context, sessionID string) ([]*SessionDiffRow, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("QuerySessionDiffs: creating client: %w", err)
	}
	defer client.Close()

	return QuerySessionDiffsWithClient(ctx, client, sessionID)
}

// QuerySessionDiffsWithClient retrieves the archived diff rows for a
// session using the provided BigQuery client.
func QuerySessionDiffsWithClient(ctx context.Context, client *bigquery.Client, sessionID string) ([]*SessionDiffRow, error) {
	query := fmt.Sprintf(`
		SELECT
			session_id,
			source_key,
			barcode,
			name,
			prev_on_hand,
			reserved,
			actual,
			delta,
			count_date,
			scanned_ts,
			archived_ts
		FROM `+"`%s.%s.%s`"+`
		WHERE session_id = @sessionID
		ORDER BY scanned_ts DESC
	`, projectID, datasetID, sessionsTable)

	q := client.Query(query)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "sessionID", Value: sessionID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("QuerySessionDiffsWithClient: reading query: %w", err)
	}

	var rows []*SessionDiffRow
	for {
		var row SessionDiffRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("QuerySessionDiffsWithClient: iterating: %w", err)
		}
		rows = append(rows, &row)
	}

	return rows, nil
}

// QueryDiffsByDateRange retrieves archived diffs counted within the
// given date range, inclusive.
func QueryDiffsByDateRange(ctx context.Context, start, end civil.Date) ([]*SessionDiffRow, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("QueryDiffsByDateRange: creating client: %w", err)
	}
	defer client.Close()

	return QueryDiffsByDateRangeWithClient(ctx, client, start, end)
}

// QueryDiffsByDateRangeWithClient retrieves archived diffs counted
// within the given date range using the provided BigQuery client.
func QueryDiffsByDateRangeWithClient(ctx context.Context, client *bigquery.Client, start, end civil.Date) ([]*SessionDiffRow, error) {
	query := fmt.Sprintf(`
		SELECT
			session_id,
			source_key,
			barcode,
			name,
			prev_on_hand,
			reserved,
			actual,
			delta,
			count_date,
			scanned_ts,
			archived_ts
		FROM `+"`%s.%s.%s`"+`
		WHERE count_date BETWEEN @start AND @end
		ORDER BY scanned_ts DESC
	`, projectID, datasetID, sessionsTable)

	q := client.Query(query)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "start", Value: start},
		{Name: "end", Value: end},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("QueryDiffsByDateRangeWithClient: reading query: %w", err)
	}

	var rows []*SessionDiffRow
	for {
		var row SessionDiffRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("QueryDiffsByDateRangeWithClient: iterating: %w", err)
		}
		rows = append(rows, &row)
	}

	return rows, nil
}
