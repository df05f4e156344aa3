// Package notion provides a client for the subset of the Notion API needed to
// export a database as Markdown.
//
// It covers:
//   - Paginated database queries
//   - Recursive retrieval of a page's block tree
//   - Conversion of blocks to Markdown, with child pages split out
//   - Client side request pacing (3 req/sec)
package notion
