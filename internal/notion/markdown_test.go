// Tests for the Notion block to Markdown converter.

package notion

import (
	"strings"
	"testing"
)

func render(blocks []Block) string {
	return ToMarkdownString(BlocksToMarkdown(blocks)).Content()
}

func text(s string) []RichText {
	return []RichText{{PlainText: s}}
}

func TestBlocksToMarkdown(t *testing.T) {
	tests := []struct {
		name   string
		blocks []Block
		want   string
	}{
		{
			"empty",
			[]Block{},
			"",
		},
		{
			"paragraph",
			[]Block{
				{Type: "paragraph", Paragraph: &TextBlock{RichText: text("Hello World")}},
			},
			"Hello World",
		},
		{
			"empty paragraph skipped",
			[]Block{
				{Type: "paragraph", Paragraph: &TextBlock{RichText: text("a")}},
				{Type: "paragraph", Paragraph: &TextBlock{}},
				{Type: "paragraph", Paragraph: &TextBlock{RichText: text("b")}},
			},
			"a\n\nb",
		},
		{
			"headings",
			[]Block{
				{Type: "heading_1", Heading1: &TextBlock{RichText: text("H1")}},
				{Type: "heading_2", Heading2: &TextBlock{RichText: text("H2")}},
				{Type: "heading_3", Heading3: &TextBlock{RichText: text("H3")}},
			},
			"# H1\n\n## H2\n\n### H3",
		},
		{
			"bulleted list",
			[]Block{
				{Type: "bulleted_list_item", BulletedListItem: &TextBlock{RichText: text("Item 1")}},
				{Type: "bulleted_list_item", BulletedListItem: &TextBlock{RichText: text("Item 2")}},
			},
			"- Item 1\n- Item 2",
		},
		{
			"numbered list restarts",
			[]Block{
				{Type: "numbered_list_item", NumberedListItem: &TextBlock{RichText: text("First")}},
				{Type: "numbered_list_item", NumberedListItem: &TextBlock{RichText: text("Second")}},
				{Type: "paragraph", Paragraph: &TextBlock{RichText: text("break")}},
				{Type: "numbered_list_item", NumberedListItem: &TextBlock{RichText: text("Again")}},
			},
			"1. First\n2. Second\n\nbreak\n\n1. Again",
		},
		{
			"nested list",
			[]Block{
				{
					Type:             "bulleted_list_item",
					BulletedListItem: &TextBlock{RichText: text("Parent")},
					Children: []Block{
						{Type: "bulleted_list_item", BulletedListItem: &TextBlock{RichText: text("Child")}},
					},
				},
				{Type: "bulleted_list_item", BulletedListItem: &TextBlock{RichText: text("Sibling")}},
			},
			"- Parent\n  - Child\n- Sibling",
		},
		{
			"todo items",
			[]Block{
				{Type: "to_do", ToDo: &ToDoBlock{RichText: text("Unchecked"), Checked: false}},
				{Type: "to_do", ToDo: &ToDoBlock{RichText: text("Checked"), Checked: true}},
			},
			"- [ ] Unchecked\n- [x] Checked",
		},
		{
			"code block",
			[]Block{
				{Type: "code", Code: &CodeBlock{RichText: text("fmt.Println(\"Hello\")"), Language: "go"}},
			},
			"```go\nfmt.Println(\"Hello\")\n```",
		},
		{
			"plain text code block",
			[]Block{
				{Type: "code", Code: &CodeBlock{RichText: text("x"), Language: "plain text"}},
			},
			"```\nx\n```",
		},
		{
			"quote",
			[]Block{
				{Type: "quote", Quote: &TextBlock{RichText: text("A wise\nquote")}},
			},
			"> A wise\n> quote",
		},
		{
			"divider",
			[]Block{
				{Type: "divider", Divider: &struct{}{}},
			},
			"---",
		},
		{
			"toggle",
			[]Block{
				{
					Type:   "toggle",
					Toggle: &TextBlock{RichText: text("More")},
					Children: []Block{
						{Type: "paragraph", Paragraph: &TextBlock{RichText: text("Hidden")}},
					},
				},
			},
			"<details>\n<summary>More</summary>\n\nHidden\n</details>",
		},
		{
			"columns are transparent",
			[]Block{
				{
					Type: "column_list",
					Children: []Block{
						{Type: "column", Children: []Block{
							{Type: "paragraph", Paragraph: &TextBlock{RichText: text("left")}},
						}},
						{Type: "column", Children: []Block{
							{Type: "paragraph", Paragraph: &TextBlock{RichText: text("right")}},
						}},
					},
				},
			},
			"left\n\nright",
		},
		{
			"table",
			[]Block{
				{
					Type:  "table",
					Table: &TableBlock{TableWidth: 2, HasColumnHeader: true},
					Children: []Block{
						{Type: "table_row", TableRow: &TableRowBlock{Cells: [][]RichText{text("a"), text("b")}}},
						{Type: "table_row", TableRow: &TableRowBlock{Cells: [][]RichText{text("1"), text("x|y")}}},
					},
				},
			},
			"| a | b |\n| --- | --- |\n| 1 | x\\|y |",
		},
		{
			"table without column header",
			[]Block{
				{
					Type:  "table",
					Table: &TableBlock{TableWidth: 1},
					Children: []Block{
						{Type: "table_row", TableRow: &TableRowBlock{Cells: [][]RichText{text("a")}}},
						{Type: "table_row", TableRow: &TableRowBlock{Cells: [][]RichText{text("b")}}},
					},
				},
			},
			"| a |\n| --- |\n| b |",
		},
		{
			"equation",
			[]Block{
				{Type: "equation", Equation: &EquationBlock{Expression: "e=mc^2"}},
			},
			"$$\ne=mc^2\n$$",
		},
		{
			"bookmark without caption",
			[]Block{
				{Type: "bookmark", Bookmark: &BookmarkBlock{URL: "https://example.com"}},
			},
			"[https://example.com](https://example.com)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(tt.blocks)
			if got != tt.want {
				t.Errorf("render() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestRichTextToMarkdown(t *testing.T) {
	tests := []struct {
		name string
		rt   []RichText
		want string
	}{
		{"plain text", []RichText{{PlainText: "Hello"}}, "Hello"},
		{
			"bold",
			[]RichText{{PlainText: "bold", Annotations: &Annotations{Bold: true}}},
			"**bold**",
		},
		{
			"italic",
			[]RichText{{PlainText: "italic", Annotations: &Annotations{Italic: true}}},
			"_italic_",
		},
		{
			"code",
			[]RichText{{PlainText: "code", Annotations: &Annotations{Code: true}}},
			"`code`",
		},
		{
			"strikethrough",
			[]RichText{{PlainText: "strike", Annotations: &Annotations{Strikethrough: true}}},
			"~~strike~~",
		},
		{
			"underline",
			[]RichText{{PlainText: "under", Annotations: &Annotations{Underline: true}}},
			"<u>under</u>",
		},
		{
			"link",
			[]RichText{{PlainText: "link", Href: ptrStr("https://example.com")}},
			"[link](https://example.com)",
		},
		{
			"bold and italic",
			[]RichText{{PlainText: "both", Annotations: &Annotations{Bold: true, Italic: true}}},
			"_**both**_",
		},
		{
			"segments",
			[]RichText{{PlainText: "a "}, {PlainText: "b", Annotations: &Annotations{Bold: true}}},
			"a **b**",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := richTextToMarkdown(tt.rt)
			if got != tt.want {
				t.Errorf("richTextToMarkdown() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBlockToMarkdownImage(t *testing.T) {
	block := Block{
		Type: "image",
		Image: &MediaBlock{
			Type:     "external",
			External: &File{URL: "https://example.com/image.png"},
			Caption:  text("My image"),
		},
	}

	result := render([]Block{block})
	if !strings.Contains(result, "![My image](https://example.com/image.png)") {
		t.Errorf("expected image markdown, got %q", result)
	}
}

func TestBlockToMarkdownCallout(t *testing.T) {
	block := Block{
		Type: "callout",
		Callout: &CalloutBlock{
			RichText: text("Important note"),
			Icon:     &Icon{Emoji: "💡"},
		},
	}

	result := render([]Block{block})
	if !strings.Contains(result, "> 💡 Important note") {
		t.Errorf("expected callout markdown, got %q", result)
	}
}

func TestToMarkdownStringChildPage(t *testing.T) {
	blocks := []Block{
		{Type: "paragraph", Paragraph: &TextBlock{RichText: text("Intro")}},
		{
			Type:      "child_page",
			ID:        "child-1",
			ChildPage: &ChildPageBlock{Title: "Sub"},
			Children: []Block{
				{Type: "paragraph", Paragraph: &TextBlock{RichText: text("Nested body")}},
			},
		},
	}

	md := ToMarkdownString(BlocksToMarkdown(blocks))
	if got := md[ParentKey]; got != "Intro" {
		t.Errorf("parent = %q, want %q", got, "Intro")
	}
	if got := md["Sub"]; got != "Nested body" {
		t.Errorf("child page = %q, want %q", got, "Nested body")
	}
}

func TestMDStringContent(t *testing.T) {
	tests := []struct {
		name string
		md   MDString
		want string
	}{
		{"nil", nil, ""},
		{"parent", MDString{ParentKey: "body", "Child": "other"}, "body"},
		{"empty parent excludes children", MDString{ParentKey: "", "B": "b", "A": "a"}, ""},
		{"missing parent falls back", MDString{"B": "b", "A": "a"}, "a\n\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.md.Content(); got != tt.want {
				t.Errorf("Content() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChildPageOnlyBody(t *testing.T) {
	blocks := []Block{
		{
			Type:        "child_page",
			ChildPage:   &ChildPageBlock{Title: "Sub"},
			HasChildren: true,
			Children: []Block{
				{Type: "paragraph", Paragraph: &TextBlock{RichText: text("child text")}},
			},
		},
	}
	md := ToMarkdownString(BlocksToMarkdown(blocks))
	if got := md.Content(); got != "" {
		t.Errorf("Content() = %q, want empty body", got)
	}
	if got := md["Sub"]; !strings.Contains(got, "child text") {
		t.Errorf("child page = %q", got)
	}
}

func ptrStr(s string) *string {
	return &s
}
