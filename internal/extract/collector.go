// Collects all pages of a database by following continuation cursors.

package extract

import (
	"context"
	"fmt"

	"github.com/maruel/notion-extract/internal/notion"
)

// Source is the remote capability an export needs.
//
// *notion.Client implements it.
type Source interface {
	// QueryDatabase returns one batch of pages. An empty cursor requests the
	// first batch; a nil NextCursor in the response means there is no more.
	QueryDatabase(ctx context.Context, databaseID, cursor string) (*notion.QueryResponse, error)
	// PageToMarkdown returns the page content as Markdown blocks.
	PageToMarkdown(ctx context.Context, pageID string) ([]notion.MDBlock, error)
}

// FetchAllPages queries the database until the cursor is exhausted and
// returns every page in the order the API returned them.
func FetchAllPages(ctx context.Context, src Source, databaseID string) ([]notion.Page, error) {
	var pages []notion.Page
	var cursor string
	for {
		resp, err := src.QueryDatabase(ctx, databaseID, cursor)
		if err != nil {
			return nil, fmt.Errorf("failed to query database %s: %w", databaseID, err)
		}
		pages = append(pages, resp.Results...)
		if resp.NextCursor == nil || *resp.NextCursor == "" {
			return pages, nil
		}
		cursor = *resp.NextCursor
	}
}
