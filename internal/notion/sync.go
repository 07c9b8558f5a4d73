package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/noumanabid-jpg/inventory-scanner-app/internal/count"
	"github.com/noumanabid-jpg/inventory-scanner-app/internal/logger"
)

// SyncDiffReport pushes the diff log for one source file to a Notion
// database, one page per entry, keyed by barcode. It:
// 1. Queries all existing pages in the database
// 2. Deletes stale pages (barcodes no longer in the log)
// 3. Creates pages for new barcodes and updates existing ones
// With dryRun set, every mutation is logged but not performed.
func SyncDiffReport(ctx context.Context, client NotionService, databaseID, sourceKey string, entries []count.DiffEntry, dryRun bool) error {
	log := logger.FromContext(ctx)

	log.Info().
		Str("source_key", sourceKey).
		Int("entry_count", len(entries)).
		Bool("dry_run", dryRun).
		Msg("Starting diff report sync to Notion")

	validBarcodes := make(map[string]bool)
	for _, e := range entries {
		validBarcodes[e.Barcode] = true
	}

	pages, err := queryAllPages(ctx, client, databaseID)
	if err != nil {
		return fmt.Errorf("failed to query Notion pages: %w", err)
	}

	log.Info().Int("notion_page_count", len(pages)).Msg("Retrieved existing Notion pages")

	// barcode -> existing page id
	existing := make(map[string]string)
	var deleted int
	for _, page := range pages {
		barcode := extractBarcode(page)
		if barcode != "" && validBarcodes[barcode] {
			existing[barcode] = string(page.ID)
			continue
		}
		if dryRun {
			log.Info().
				Str("barcode", barcode).
				Str("page_id", string(page.ID)).
				Msg("[DRY RUN] Would delete stale Notion page")
			deleted++
			continue
		}
		if err := client.DeletePage(ctx, string(page.ID)); err != nil {
			log.Warn().
				Err(err).
				Str("barcode", barcode).
				Str("page_id", string(page.ID)).
				Msg("Failed to delete stale Notion page")
			continue
		}
		deleted++
	}

	var created, updated int
	for _, e := range entries {
		pageID, exists := existing[e.Barcode]

		if dryRun {
			if exists {
				log.Info().
					Str("barcode", e.Barcode).
					Str("page_id", pageID).
					Msg("[DRY RUN] Would update Notion page")
				updated++
			} else {
				log.Info().
					Str("barcode", e.Barcode).
					Msg("[DRY RUN] Would create Notion page")
				created++
			}
			continue
		}

		props := DiffToNotionProperties(e, sourceKey)

		if exists {
			if _, err := client.UpdatePage(ctx, pageID, props); err != nil {
				log.Warn().
					Err(err).
					Str("barcode", e.Barcode).
					Str("page_id", pageID).
					Msg("Failed to update Notion page")
				continue
			}
			updated++
		} else {
			page, err := client.CreatePage(ctx, databaseID, props)
			if err != nil {
				log.Warn().
					Err(err).
					Str("barcode", e.Barcode).
					Msg("Failed to create Notion page")
				continue
			}
			log.Debug().
				Str("barcode", e.Barcode).
				Str("page_id", string(page.ID)).
				Msg("Created Notion page")
			created++
		}
	}

	log.Info().
		Int("deleted", deleted).
		Int("created", created).
		Int("updated", updated).
		Int("total", len(entries)).
		Msg("Diff report sync completed")

	return nil
}

func queryAllPages(ctx context.Context, client NotionService, databaseID string) ([]notionapi.Page, error) {
	var allPages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: 100,
		}
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := client.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("queryAllPages: %w", err)
		}

		allPages = append(allPages, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return allPages, nil
}
