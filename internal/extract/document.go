// Transforms a page into a Markdown document with front matter.

package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/maruel/notion-extract/internal/notion"
	"gopkg.in/yaml.v3"
)

const (
	// DescriptionLength is the number of characters kept in a description.
	DescriptionLength = 150
	// NoContent is the description of a page without content.
	NoContent = "No content available"
)

// Document is a page ready to be written.
type Document struct {
	Title       string
	Slug        string
	Description string
	Excerpt     string
	// Date is the page creation time exactly as the API returned it.
	Date string
	Body string
}

// frontMatter is the YAML header of a document. Field order is output order.
type frontMatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Date        string `yaml:"date"`
	Excerpt     string `yaml:"excerpt"`
}

// Transform fetches the page content and builds its document.
func Transform(ctx context.Context, src Source, page *notion.Page, title, slug string) (*Document, error) {
	blocks, err := src.PageToMarkdown(ctx, page.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to convert page %s: %w", page.ID, err)
	}
	body := notion.ToMarkdownString(blocks).Content()
	desc := Describe(body)
	return &Document{
		Title:       title,
		Slug:        slug,
		Description: desc,
		Excerpt:     desc,
		Date:        page.CreatedTime,
		Body:        body,
	}, nil
}

// Describe returns the first DescriptionLength characters of content with
// newlines turned into spaces, followed by "..." when content is longer.
// Blank content yields NoContent.
func Describe(content string) string {
	if strings.TrimSpace(content) == "" {
		return NoContent
	}
	head := content
	truncated := utf8.RuneCountInString(content) > DescriptionLength
	if truncated {
		head = string([]rune(content)[:DescriptionLength])
	}
	desc := strings.ReplaceAll(head, "\n", " ")
	if truncated {
		desc += "..."
	}
	return desc
}

// Render returns the document as a YAML front matter block, a blank line and
// the body.
func (d *Document) Render() ([]byte, error) {
	fm, err := yaml.Marshal(&frontMatter{
		Title:       d.Title,
		Description: d.Description,
		Date:        d.Date,
		Excerpt:     d.Excerpt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal front matter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n\n")
	buf.WriteString(d.Body)
	if d.Body != "" && !strings.HasSuffix(d.Body, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
