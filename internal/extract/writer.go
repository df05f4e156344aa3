// Writes documents and the metadata index to disk.

package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"
)

// Metadata is the index of every exported page.
type Metadata struct {
	Pages []PageMeta `json:"pages" jsonschema:"description=Exported pages in database order"`
}

// PageMeta summarizes one exported page.
type PageMeta struct {
	Title       string `json:"title" jsonschema:"description=Page title"`
	Slug        string `json:"slug" jsonschema:"description=Unique URL-safe identifier; the page is stored as <slug>.md"`
	Description string `json:"description" jsonschema:"description=First 150 characters of the content"`
	Excerpt     string `json:"excerpt" jsonschema:"description=Same as description"`
	Content     string `json:"content" jsonschema:"description=Full Markdown body"`
}

// NewPageMeta summarizes a document.
func NewPageMeta(d *Document) PageMeta {
	return PageMeta{
		Title:       d.Title,
		Slug:        d.Slug,
		Description: d.Description,
		Excerpt:     d.Excerpt,
		Content:     d.Body,
	}
}

// MetadataSchema returns the JSON Schema of the metadata index.
func MetadataSchema() ([]byte, error) {
	r := jsonschema.Reflector{DoNotReference: true}
	schema := r.Reflect(&Metadata{})
	return json.MarshalIndent(schema, "", "  ")
}

// Writer writes exported pages under ContentDir and the index at
// MetadataPath.
type Writer struct {
	ContentDir   string
	MetadataPath string
}

// NewWriter creates a new writer.
func NewWriter(contentDir, metadataPath string) *Writer {
	return &Writer{ContentDir: contentDir, MetadataPath: metadataPath}
}

// Reset deletes the content directory with everything in it and recreates
// it empty.
func (w *Writer) Reset() error {
	if err := os.RemoveAll(w.ContentDir); err != nil {
		return fmt.Errorf("failed to clear content directory: %w", err)
	}
	if err := os.MkdirAll(w.ContentDir, 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for content directories
		return fmt.Errorf("failed to create content directory: %w", err)
	}
	return nil
}

// PagePath returns the path of a page's file.
func (w *Writer) PagePath(slug string) string {
	return filepath.Join(w.ContentDir, slug+".md")
}

// WritePage writes <slug>.md.
func (w *Writer) WritePage(d *Document) error {
	data, err := d.Render()
	if err != nil {
		return err
	}
	if err := os.WriteFile(w.PagePath(d.Slug), data, 0o644); err != nil { //nolint:gosec // G306: 0o644 is intentional for readable files
		return fmt.Errorf("failed to write page %s: %w", d.Slug, err)
	}
	return nil
}

// WriteMetadata writes the index as indented JSON, replacing any previous
// file.
func (w *Writer) WriteMetadata(m *Metadata) error {
	if m.Pages == nil {
		m = &Metadata{Pages: []PageMeta{}}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(w.MetadataPath), 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for content directories
		return fmt.Errorf("failed to create metadata directory: %w", err)
	}
	if err := os.WriteFile(w.MetadataPath, buf.Bytes(), 0o644); err != nil { //nolint:gosec // G306: 0o644 is intentional for readable files
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}
