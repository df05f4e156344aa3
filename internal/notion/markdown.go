// Converts Notion blocks to Markdown.

package notion

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ParentKey is the MDString key holding the page's own body.
const ParentKey = "parent"

// MDBlock is a Notion block rendered to Markdown.
//
// Parent is the block's own Markdown, without its children. For child pages
// it is the child page title.
type MDBlock struct {
	Type     string    `json:"type"`
	BlockID  string    `json:"blockId"`
	Parent   string    `json:"parent"`
	Children []MDBlock `json:"children"`
}

// MDString is a page rendered to Markdown: the page body under ParentKey and
// the body of each child page under the child page title.
type MDString map[string]string

// Content returns the page body, which excludes child pages even when the
// body is empty. Without a ParentKey entry it falls back to String.
func (m MDString) Content() string {
	if s, ok := m[ParentKey]; ok {
		return s
	}
	return m.String()
}

// String joins every non-empty entry, the page body first then child pages by
// title.
func (m MDString) String() string {
	var parts []string
	if s := m[ParentKey]; s != "" {
		parts = append(parts, s)
	}
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if k != ParentKey && m[k] != "" {
			parts = append(parts, m[k])
		}
	}
	return strings.Join(parts, "\n\n")
}

// BlocksToMarkdown converts a tree of Notion blocks to Markdown blocks.
func BlocksToMarkdown(blocks []Block) []MDBlock {
	out := make([]MDBlock, 0, len(blocks))
	numbered := 0
	for i := range blocks {
		b := &blocks[i]
		if b.Type == "numbered_list_item" {
			numbered++
		} else {
			numbered = 0
		}
		md := MDBlock{Type: b.Type, BlockID: b.ID}
		if b.Type == "table" {
			// Rows are rendered together so the header separator lands in place.
			md.Parent = tableToMarkdown(b)
		} else {
			md.Parent = blockToMarkdown(b, numbered)
			if len(b.Children) > 0 {
				md.Children = BlocksToMarkdown(b.Children)
			}
		}
		out = append(out, md)
	}
	return out
}

// ToMarkdownString assembles Markdown blocks into a page.
func ToMarkdownString(blocks []MDBlock) MDString {
	out := MDString{}
	out[ParentKey] = renderBlocks(out, blocks, 0)
	return out
}

// renderBlocks joins the rendered blocks. Consecutive items of the same list
// stay tight; everything else is separated by a blank line.
func renderBlocks(out MDString, blocks []MDBlock, depth int) string {
	var sb strings.Builder
	prev := ""
	for i := range blocks {
		b := &blocks[i]
		if b.Type == "child_page" {
			out[b.Parent] = renderBlocks(out, b.Children, 0)
			continue
		}
		s := renderBlock(out, b, depth)
		if s == "" {
			continue
		}
		if sb.Len() > 0 {
			if b.Type == prev && isListItem(b.Type) {
				sb.WriteString("\n")
			} else {
				sb.WriteString("\n\n")
			}
		}
		sb.WriteString(s)
		prev = b.Type
	}
	return sb.String()
}

func renderBlock(out MDString, b *MDBlock, depth int) string {
	switch b.Type {
	case "toggle":
		body := renderBlocks(out, b.Children, 0)
		return indent("<details>\n<summary>"+b.Parent+"</summary>\n\n"+body+"\n</details>", depth)
	case "column_list", "column", "synced_block":
		// Structural only.
		return renderBlocks(out, b.Children, depth)
	}
	s := indent(b.Parent, depth)
	if len(b.Children) > 0 {
		if c := renderBlocks(out, b.Children, depth+1); c != "" {
			if s == "" {
				return c
			}
			s += "\n" + c
		}
	}
	return s
}

func isListItem(t string) bool {
	return t == "bulleted_list_item" || t == "numbered_list_item" || t == "to_do"
}

func indent(s string, depth int) string {
	if depth == 0 || s == "" {
		return s
	}
	prefix := strings.Repeat("  ", depth)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

// blockToMarkdown converts a single block, without its children. n is the
// position of a numbered list item in its list.
func blockToMarkdown(block *Block, n int) string {
	switch block.Type {
	case "paragraph":
		if block.Paragraph != nil {
			return richTextToMarkdown(block.Paragraph.RichText)
		}

	case "heading_1":
		if block.Heading1 != nil {
			return "# " + richTextToMarkdown(block.Heading1.RichText)
		}

	case "heading_2":
		if block.Heading2 != nil {
			return "## " + richTextToMarkdown(block.Heading2.RichText)
		}

	case "heading_3":
		if block.Heading3 != nil {
			return "### " + richTextToMarkdown(block.Heading3.RichText)
		}

	case "bulleted_list_item":
		if block.BulletedListItem != nil {
			return "- " + richTextToMarkdown(block.BulletedListItem.RichText)
		}

	case "numbered_list_item":
		if block.NumberedListItem != nil {
			return fmt.Sprintf("%d. %s", n, richTextToMarkdown(block.NumberedListItem.RichText))
		}

	case "to_do":
		if block.ToDo != nil {
			checkbox := "[ ]"
			if block.ToDo.Checked {
				checkbox = "[x]"
			}
			return "- " + checkbox + " " + richTextToMarkdown(block.ToDo.RichText)
		}

	case "toggle":
		if block.Toggle != nil {
			return richTextToMarkdown(block.Toggle.RichText)
		}

	case "code":
		if block.Code != nil {
			lang := block.Code.Language
			if lang == "plain text" {
				lang = ""
			}
			return "```" + lang + "\n" + richTextToPlain(block.Code.RichText) + "\n```"
		}

	case "quote":
		if block.Quote != nil {
			return quote(richTextToMarkdown(block.Quote.RichText))
		}

	case "callout":
		if block.Callout != nil {
			emoji := ""
			if block.Callout.Icon != nil && block.Callout.Icon.Emoji != "" {
				emoji = block.Callout.Icon.Emoji + " "
			}
			return quote(emoji + richTextToMarkdown(block.Callout.RichText))
		}

	case "divider":
		return "---"

	case "image":
		if block.Image != nil {
			caption := richTextToPlain(block.Image.Caption)
			if caption == "" {
				caption = "image"
			}
			return fmt.Sprintf("![%s](%s)", caption, block.Image.URL())
		}

	case "video":
		if block.Video != nil {
			return fmt.Sprintf("[Video](%s)", block.Video.URL())
		}

	case "file", "pdf":
		media := block.File
		if block.Type == "pdf" {
			media = block.PDF
		}
		if media != nil {
			name := richTextToPlain(media.Caption)
			if name == "" {
				name = "File"
			}
			return fmt.Sprintf("[%s](%s)", name, media.URL())
		}

	case "bookmark":
		if block.Bookmark != nil {
			caption := richTextToPlain(block.Bookmark.Caption)
			if caption == "" {
				caption = block.Bookmark.URL
			}
			return fmt.Sprintf("[%s](%s)", caption, block.Bookmark.URL)
		}

	case "embed":
		if block.Embed != nil {
			return fmt.Sprintf("[Embed](%s)", block.Embed.URL)
		}

	case "link_preview":
		if block.LinkPreview != nil {
			return fmt.Sprintf("[Link](%s)", block.LinkPreview.URL)
		}

	case "equation":
		if block.Equation != nil {
			return "$$\n" + block.Equation.Expression + "\n$$"
		}

	case "table_of_contents":
		return "[TOC]"

	case "child_page":
		if block.ChildPage != nil {
			return block.ChildPage.Title
		}

	case "child_database":
		if block.ChildDatabase != nil {
			return "🗃️ " + block.ChildDatabase.Title
		}
	}

	return ""
}

// tableToMarkdown renders a table and its row children as a GFM table. The
// first row always serves as header since GFM requires one.
func tableToMarkdown(block *Block) string {
	var rows []string
	for i := range block.Children {
		row := block.Children[i].TableRow
		if row == nil {
			continue
		}
		cells := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			cells = append(cells, strings.ReplaceAll(richTextToMarkdown(cell), "|", "\\|"))
		}
		rows = append(rows, "| "+strings.Join(cells, " | ")+" |")
		if len(rows) == 1 {
			rows = append(rows, "|"+strings.Repeat(" --- |", len(cells)))
		}
	}
	return strings.Join(rows, "\n")
}

func quote(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = "> " + line
	}
	return strings.Join(lines, "\n")
}

// richTextToMarkdown converts rich text to markdown with formatting.
func richTextToMarkdown(rt []RichText) string {
	parts := make([]string, 0, len(rt))
	for _, t := range rt {
		text := t.PlainText

		// Apply annotations
		if t.Annotations != nil && text != "" {
			if t.Annotations.Code {
				text = "`" + text + "`"
			}
			if t.Annotations.Bold {
				text = "**" + text + "**"
			}
			if t.Annotations.Italic {
				text = "_" + text + "_"
			}
			if t.Annotations.Strikethrough {
				text = "~~" + text + "~~"
			}
			if t.Annotations.Underline {
				text = "<u>" + text + "</u>"
			}
		}

		// Apply link
		if t.Href != nil && *t.Href != "" {
			text = "[" + text + "](" + *t.Href + ")"
		}

		parts = append(parts, text)
	}
	return strings.Join(parts, "")
}

// richTextToPlain converts rich text to plain text.
func richTextToPlain(rt []RichText) string {
	parts := make([]string, 0, len(rt))
	for i := range rt {
		parts = append(parts, rt[i].PlainText)
	}
	return strings.Join(parts, "")
}
