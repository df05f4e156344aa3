// Orchestrates the export of a Notion database.

package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Extractor exports one database.
type Extractor struct {
	src        Source
	writer     *Writer
	progress   ProgressReporter
	databaseID string
}

// NewExtractor creates a new extractor.
func NewExtractor(src Source, databaseID string, writer *Writer, progress ProgressReporter) *Extractor {
	if progress == nil {
		progress = &NullProgress{}
	}
	return &Extractor{
		src:        src,
		writer:     writer,
		progress:   progress,
		databaseID: databaseID,
	}
}

// Run exports every page and writes the metadata index.
//
// The first error aborts the run. Files written before the error are left in
// place.
func (e *Extractor) Run(ctx context.Context) (*Stats, error) {
	start := time.Now()
	pages, err := FetchAllPages(ctx, e.src, e.databaseID)
	if err != nil {
		return nil, err
	}
	e.progress.OnStart(len(pages))

	if err := e.writer.Reset(); err != nil {
		return nil, err
	}

	var slugs SlugRegistry
	meta := &Metadata{Pages: make([]PageMeta, 0, len(pages))}
	for i := range pages {
		page := &pages[i]
		title, ok := PageTitle(page, i)
		if !ok {
			e.progress.OnWarning(fmt.Sprintf("page %s has no title, using %q", page.ID, title))
		}
		slug := slugs.Assign(PageSlug(title, i))

		doc, err := Transform(ctx, e.src, page, title, slug)
		if err != nil {
			return nil, err
		}
		if err := e.writer.WritePage(doc); err != nil {
			return nil, err
		}
		meta.Pages = append(meta.Pages, NewPageMeta(doc))
		e.progress.OnProgress(i+1, title, slug)
	}

	if err := e.writer.WriteMetadata(meta); err != nil {
		return nil, err
	}

	stats := &Stats{Pages: len(pages), Duration: time.Since(start)}
	e.progress.OnComplete(*stats)
	return stats, nil
}

// DryRunItem is a page that would be exported.
type DryRunItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Date  string `json:"date"`
}

// DryRun lists the pages and the slugs they would get, without fetching
// content or touching the filesystem.
func (e *Extractor) DryRun(ctx context.Context) ([]DryRunItem, error) {
	pages, err := FetchAllPages(ctx, e.src, e.databaseID)
	if err != nil {
		return nil, err
	}
	var slugs SlugRegistry
	items := make([]DryRunItem, 0, len(pages))
	for i := range pages {
		title, _ := PageTitle(&pages[i], i)
		items = append(items, DryRunItem{
			ID:    pages[i].ID,
			Title: title,
			Slug:  slugs.Assign(PageSlug(title, i)),
			Date:  pages[i].CreatedTime,
		})
	}
	return items, nil
}

// DryRunJSON returns the dry run result as JSON.
func (e *Extractor) DryRunJSON(ctx context.Context) (string, error) {
	items, err := e.DryRun(ctx)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", err
	}

	return string(data), nil
}
