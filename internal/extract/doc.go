// Package extract exports a Notion database to a directory of Markdown files
// plus a JSON metadata index, for consumption by a static site generator.
//
// A run lists every page of the database, resets the content directory, then
// for each page in order derives a unique slug, fetches and flattens its
// content, writes <slug>.md with a YAML front matter header, and finally
// writes the metadata index.
package extract
