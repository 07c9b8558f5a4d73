package notion

import (
	"github.com/jomei/notionapi"

	"github.com/noumanabid-jpg/inventory-scanner-app/internal/count"
)

// DiffToNotionProperties converts a recorded diff entry to Notion
// properties for the scan report database. The barcode is the page
// title and the idempotency key for syncs.
func DiffToNotionProperties(e count.DiffEntry, sourceKey string) notionapi.Properties {
	props := notionapi.Properties{
		"Barcode": notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: e.Barcode,
					},
				},
			},
		},
		"Prev On Hand": notionapi.NumberProperty{
			Number: e.PrevOnHand,
		},
		"Reserved": notionapi.NumberProperty{
			Number: e.Reserved,
		},
		"Actual On Hand": notionapi.NumberProperty{
			Number: e.Actual,
		},
		"Delta": notionapi.NumberProperty{
			Number: e.Delta,
		},
	}

	if e.Name != "" {
		props["Name"] = notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: e.Name,
					},
				},
			},
		}
	}

	if sourceKey != "" {
		props["Source File"] = notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: sourceKey,
			},
		}
	}

	if !e.TS.IsZero() {
		scanned := notionapi.Date(e.TS)
		props["Scanned At"] = notionapi.DateProperty{
			Date: &notionapi.DateObject{
				Start: &scanned,
			},
		}
	}

	return props
}

// extractBarcode extracts the barcode from a Notion page's title
// property. Returns empty string if not found.
func extractBarcode(page notionapi.Page) string {
	if prop, ok := page.Properties["Barcode"]; ok {
		if title, ok := prop.(*notionapi.TitleProperty); ok {
			if len(title.Title) > 0 {
				return title.Title[0].PlainText
			}
		}
	}
	return ""
}
