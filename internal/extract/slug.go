// Derives page titles and unique slugs.

package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/maruel/notion-extract/internal/notion"
)

// titleProperties are the property names checked for the page title, in
// order.
var titleProperties = []string{"Name", "Title", "name"}

var (
	// Matches the whitespace set of ECMAScript's \s, which Notion titles may
	// carry (non-breaking spaces in particular).
	whitespaceRun = regexp.MustCompile(`[\s\x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}\v]+`)
	notSlugChar   = regexp.MustCompile(`[^A-Za-z0-9_-]`)
)

// PageTitle returns the display title of the page at the 0-based index.
//
// It takes the first rich text segment of the first title property found
// with a non-empty text, and falls back to "Page N" (1-based), in which case
// ok is false.
func PageTitle(page *notion.Page, index int) (title string, ok bool) {
	for _, name := range titleProperties {
		prop, found := page.Properties[name]
		if !found || len(prop.Title) == 0 {
			continue
		}
		if s := prop.Title[0].PlainText; s != "" {
			return s, true
		}
	}
	return "Page " + strconv.Itoa(index+1), false
}

// Slugify lowercases the title, turns whitespace runs into a hyphen and drops
// everything but ASCII letters, digits, hyphen and underscore.
//
// Non-ASCII letters are dropped, not transliterated: "Café Notes!" becomes
// "caf-notes".
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = whitespaceRun.ReplaceAllString(s, "-")
	return notSlugChar.ReplaceAllString(s, "")
}

// PageSlug returns the slug candidate for a page title at the 0-based index.
// Titles that reduce to nothing or to "untitled" become "page-N" (1-based).
func PageSlug(title string, index int) string {
	slug := Slugify(title)
	if slug == "" || slug == "untitled" {
		slug = "page-" + strconv.Itoa(index+1)
	}
	return slug
}

// SlugRegistry hands out slugs that are unique within one run.
//
// The zero value is ready to use.
type SlugRegistry struct {
	used map[string]struct{}
}

// Assign registers and returns candidate, or candidate-1, candidate-2, ...
// for the first one not yet taken.
func (r *SlugRegistry) Assign(candidate string) string {
	if r.used == nil {
		r.used = make(map[string]struct{})
	}
	slug := candidate
	for i := 1; r.Has(slug); i++ {
		slug = candidate + "-" + strconv.Itoa(i)
	}
	r.used[slug] = struct{}{}
	return slug
}

// Has reports whether slug was already assigned.
func (r *SlugRegistry) Has(slug string) bool {
	_, ok := r.used[slug]
	return ok
}
