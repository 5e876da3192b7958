package site

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ziadkadry99/folio/internal/catalog"
	"github.com/ziadkadry99/folio/internal/content"
)

// maxSearchText bounds the body text stored per entry.
const maxSearchText = 2000

// SearchEntry represents a single searchable project.
type SearchEntry struct {
	Slug    string   `json:"slug"`
	URL     string   `json:"url"`
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
	Text    string   `json:"text"`
}

// BuildSearchIndex builds one entry per project. href maps a slug to the
// project's page.
func BuildSearchIndex(cat *catalog.Catalog, href func(slug string) string) []SearchEntry {
	entries := make([]SearchEntry, 0, cat.Len())
	if cat == nil {
		return entries
	}
	for _, p := range cat.Projects {
		tags := p.Tags
		if tags == nil {
			tags = []string{}
		}
		entries = append(entries, SearchEntry{
			Slug:    p.Slug,
			URL:     href(p.Slug),
			Title:   p.Title,
			Summary: p.Summary,
			Tags:    tags,
			Text:    plainText(p.Overview, p.Process, p.Results),
		})
	}
	return entries
}

// plainText renders the content blocks of every section and returns their
// text with whitespace collapsed.
func plainText(sections ...[]string) string {
	var parts []string
	for _, items := range sections {
		if len(items) == 0 {
			continue
		}
		markup := content.Join(content.Blocks(items))
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
		if err != nil {
			continue
		}
		doc.Find("script, style").Remove()
		collectText(doc.Selection, &parts)
	}

	text := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	if len(text) > maxSearchText {
		text = truncateUTF8(text, maxSearchText)
	}
	return text
}

// collectText appends every text node under s. Separate nodes stay separate
// words, so "<li>x</li><p>y</p>" yields "x" and "y".
func collectText(s *goquery.Selection, parts *[]string) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			*parts = append(*parts, c.Text())
			return
		}
		collectText(c, parts)
	})
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	for n > 0 && n < len(s) && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// WriteSearchIndex writes the search index as JSON to the given path.
func WriteSearchIndex(entries []SearchEntry, outputPath string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}
