// Defines Notion API response types.

package notion

import "time"

// PaginatedResponse is the common structure for paginated API responses.
type PaginatedResponse[T any] struct {
	Object     string  `json:"object"`
	Results    []T     `json:"results"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

// QueryResponse is the response from database query endpoint.
type QueryResponse = PaginatedResponse[Page]

// BlocksResponse is the response from block children endpoint.
type BlocksResponse = PaginatedResponse[Block]

// Parent represents the parent of a page or block.
type Parent struct {
	Type       string `json:"type"` // "database_id", "page_id", "workspace", "block_id"
	DatabaseID string `json:"database_id,omitempty"`
	PageID     string `json:"page_id,omitempty"`
	BlockID    string `json:"block_id,omitempty"`
	Workspace  bool   `json:"workspace,omitempty"`
}

// Page represents a Notion page (a database row when queried from a database).
//
// CreatedTime is kept as the string the API sent so it can be emitted
// verbatim.
type Page struct {
	Object         string                   `json:"object"`
	ID             string                   `json:"id"`
	CreatedTime    string                   `json:"created_time"`
	LastEditedTime time.Time                `json:"last_edited_time"`
	Parent         Parent                   `json:"parent"`
	Archived       bool                     `json:"archived"`
	Properties     map[string]PropertyValue `json:"properties"`
	URL            string                   `json:"url"`
	Icon           *Icon                    `json:"icon,omitempty"`
}

// Icon represents a page or callout icon.
type Icon struct {
	Type     string `json:"type"` // "emoji", "external", "file"
	Emoji    string `json:"emoji,omitempty"`
	External *File  `json:"external,omitempty"`
	File     *File  `json:"file,omitempty"`
}

// PropertyValue represents a property value on a page.
type PropertyValue struct {
	ID   string `json:"id"`
	Type string `json:"type"`

	// Value fields based on type
	Title       []RichText    `json:"title,omitempty"`
	RichText    []RichText    `json:"rich_text,omitempty"`
	Number      *float64      `json:"number,omitempty"`
	Select      *SelectValue  `json:"select,omitempty"`
	MultiSelect []SelectValue `json:"multi_select,omitempty"`
	Date        *DateValue    `json:"date,omitempty"`
	Checkbox    *bool         `json:"checkbox,omitempty"`
	URL         *string       `json:"url,omitempty"`
}

// RichText represents formatted text content.
type RichText struct {
	Type        string       `json:"type"` // "text", "mention", "equation"
	Text        *TextContent `json:"text,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
	PlainText   string       `json:"plain_text"`
	Href        *string      `json:"href,omitempty"`
}

// TextContent represents plain text content.
type TextContent struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

// Link represents a hyperlink.
type Link struct {
	URL string `json:"url"`
}

// Annotations represents text formatting.
type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color"`
}

// SelectValue represents a select property value.
type SelectValue struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// DateValue represents a date property value.
type DateValue struct {
	Start    string  `json:"start"`
	End      *string `json:"end,omitempty"`
	TimeZone *string `json:"time_zone,omitempty"`
}

// File represents a file reference.
type File struct {
	URL        string     `json:"url"`
	ExpiryTime *time.Time `json:"expiry_time,omitempty"`
}

// Block represents a Notion block.
type Block struct {
	Object      string `json:"object"`
	ID          string `json:"id"`
	Type        string `json:"type"`
	Archived    bool   `json:"archived"`
	HasChildren bool   `json:"has_children"`

	// Block type content - only the matching type field will be populated
	Paragraph        *TextBlock          `json:"paragraph,omitempty"`
	Heading1         *TextBlock          `json:"heading_1,omitempty"`
	Heading2         *TextBlock          `json:"heading_2,omitempty"`
	Heading3         *TextBlock          `json:"heading_3,omitempty"`
	BulletedListItem *TextBlock          `json:"bulleted_list_item,omitempty"`
	NumberedListItem *TextBlock          `json:"numbered_list_item,omitempty"`
	ToDo             *ToDoBlock          `json:"to_do,omitempty"`
	Toggle           *TextBlock          `json:"toggle,omitempty"`
	Code             *CodeBlock          `json:"code,omitempty"`
	Quote            *TextBlock          `json:"quote,omitempty"`
	Callout          *CalloutBlock       `json:"callout,omitempty"`
	Divider          *struct{}           `json:"divider,omitempty"`
	TableOfContents  *struct{}           `json:"table_of_contents,omitempty"`
	Image            *MediaBlock         `json:"image,omitempty"`
	Video            *MediaBlock         `json:"video,omitempty"`
	File             *MediaBlock         `json:"file,omitempty"`
	PDF              *MediaBlock         `json:"pdf,omitempty"`
	Bookmark         *BookmarkBlock      `json:"bookmark,omitempty"`
	Embed            *URLBlock           `json:"embed,omitempty"`
	LinkPreview      *URLBlock           `json:"link_preview,omitempty"`
	Equation         *EquationBlock      `json:"equation,omitempty"`
	Table            *TableBlock         `json:"table,omitempty"`
	TableRow         *TableRowBlock      `json:"table_row,omitempty"`
	ChildPage        *ChildPageBlock     `json:"child_page,omitempty"`
	ChildDatabase    *ChildDatabaseBlock `json:"child_database,omitempty"`

	// Children is filled by GetBlockChildrenRecursive; the API never sends it.
	Children []Block `json:"-"`
}

// TextBlock is the payload shared by paragraphs, headings, list items,
// toggles and quotes.
type TextBlock struct {
	RichText     []RichText `json:"rich_text"`
	Color        string     `json:"color"`
	IsToggleable bool       `json:"is_toggleable,omitempty"`
}

// ToDoBlock represents a to-do block.
type ToDoBlock struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked"`
	Color    string     `json:"color"`
}

// CodeBlock represents a code block.
type CodeBlock struct {
	RichText []RichText `json:"rich_text"`
	Caption  []RichText `json:"caption"`
	Language string     `json:"language"`
}

// CalloutBlock represents a callout block.
type CalloutBlock struct {
	RichText []RichText `json:"rich_text"`
	Icon     *Icon      `json:"icon,omitempty"`
	Color    string     `json:"color"`
}

// MediaBlock represents an image, video, file, or PDF block.
type MediaBlock struct {
	Type     string     `json:"type"` // "file" or "external"
	File     *File      `json:"file,omitempty"`
	External *File      `json:"external,omitempty"`
	Caption  []RichText `json:"caption,omitempty"`
}

// URL returns the hosted or external URL of the media.
func (m *MediaBlock) URL() string {
	if m.File != nil {
		return m.File.URL
	}
	if m.External != nil {
		return m.External.URL
	}
	return ""
}

// BookmarkBlock represents a bookmark block.
type BookmarkBlock struct {
	URL     string     `json:"url"`
	Caption []RichText `json:"caption"`
}

// URLBlock represents an embed or link preview block.
type URLBlock struct {
	URL string `json:"url"`
}

// EquationBlock represents an equation block.
type EquationBlock struct {
	Expression string `json:"expression"`
}

// TableBlock represents a table block. Its rows are its children.
type TableBlock struct {
	TableWidth      int  `json:"table_width"`
	HasColumnHeader bool `json:"has_column_header"`
	HasRowHeader    bool `json:"has_row_header"`
}

// TableRowBlock represents a table row block.
type TableRowBlock struct {
	Cells [][]RichText `json:"cells"`
}

// ChildPageBlock represents a child page block.
type ChildPageBlock struct {
	Title string `json:"title"`
}

// ChildDatabaseBlock represents a child database block.
type ChildDatabaseBlock struct {
	Title string `json:"title"`
}

// Error represents a Notion API error response.
type Error struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}
