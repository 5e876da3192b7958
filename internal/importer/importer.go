// Package importer converts markdown project write-ups with YAML front matter
// into catalog records.
//
// The body is split on the level-two headings "Overview", "Process" and
// "Results"; every top-level element under one of them becomes a content
// block of that tab. Lists are emitted as separate opening, item and closing
// fragments so the content renderer can reassemble them.
package importer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/adrg/frontmatter"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ziadkadry99/folio/internal/catalog"
	"github.com/ziadkadry99/folio/internal/content"
	"github.com/ziadkadry99/folio/internal/logging"
)

// Section names recognised as level-two headings.
const (
	SectionOverview = "overview"
	SectionProcess  = "process"
	SectionResults  = "results"
)

// frontMatter is the YAML header of a project file.
type frontMatter struct {
	Slug      string   `yaml:"slug"`
	Title     string   `yaml:"title"`
	Summary   string   `yaml:"summary"`
	Timeframe string   `yaml:"timeframe"`
	Role      string   `yaml:"role"`
	Purpose   string   `yaml:"purpose"`
	Outcomes  string   `yaml:"outcomes"`
	Hero      string   `yaml:"hero"`
	Tags      []string `yaml:"tags"`
	Links     []struct {
		Href  string `yaml:"href"`
		Label string `yaml:"label"`
	} `yaml:"links"`
	// Order sorts records; ties and zero values fall back to file name.
	Order int  `yaml:"order"`
	Draft bool `yaml:"draft"`
}

// Importer turns markdown files into project records.
type Importer struct {
	md     goldmark.Markdown
	title  cases.Caser
	logger *zap.Logger
}

// New returns an Importer.
func New(logger *zap.Logger) *Importer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	return &Importer{
		md:     md,
		title:  cases.Title(language.English),
		logger: logging.OrNop(logger),
	}
}

// Import expands the doublestar patterns, converts every matching file and
// returns the validated catalog. Drafts are skipped.
func (im *Importer) Import(patterns []string) (*catalog.Catalog, error) {
	paths, err := expand(patterns)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no markdown files match %s", strings.Join(patterns, ", "))
	}

	type entry struct {
		order int
		path  string
		proj  catalog.Project
	}
	var entries []entry
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		proj, fm, err := im.parse(path, data)
		if err != nil {
			return nil, fmt.Errorf("importing %s: %w", path, err)
		}
		if fm.Draft {
			im.logger.Info("skipping draft", zap.String("file", path))
			continue
		}
		entries = append(entries, entry{order: fm.Order, path: path, proj: proj})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].order != entries[j].order {
			return entries[i].order < entries[j].order
		}
		return entries[i].path < entries[j].path
	})

	cat := &catalog.Catalog{Projects: make([]catalog.Project, 0, len(entries))}
	for _, e := range entries {
		cat.Projects = append(cat.Projects, e.proj)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	im.logger.Info("imported projects", zap.Int("files", len(paths)), zap.Int("projects", cat.Len()))
	return cat, nil
}

// Parse converts a single markdown document. name is used to derive the slug
// when the front matter has none.
func (im *Importer) Parse(name string, data []byte) (catalog.Project, error) {
	proj, _, err := im.parse(name, data)
	return proj, err
}

func (im *Importer) parse(name string, data []byte) (catalog.Project, frontMatter, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(data), &fm)
	if err != nil {
		return catalog.Project{}, fm, fmt.Errorf("front matter: %w", err)
	}

	var buf bytes.Buffer
	if err := im.md.Convert(body, &buf); err != nil {
		return catalog.Project{}, fm, fmt.Errorf("converting markdown: %w", err)
	}

	proj := catalog.Project{
		Slug:      fm.Slug,
		Title:     fm.Title,
		Summary:   fm.Summary,
		Timeframe: fm.Timeframe,
		Role:      fm.Role,
		Purpose:   fm.Purpose,
		Outcomes:  fm.Outcomes,
		Hero:      fm.Hero,
		Tags:      fm.Tags,
	}
	for _, l := range fm.Links {
		proj.Links = append(proj.Links, catalog.Link{Href: l.Href, Label: l.Label})
	}
	if proj.Slug == "" {
		proj.Slug = Slugify(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)))
	}
	if proj.Title == "" {
		proj.Title = im.title.String(strings.NewReplacer("-", " ", "_", " ").Replace(proj.Slug))
	}

	sections, intro, err := split(buf.String())
	if err != nil {
		return catalog.Project{}, fm, err
	}
	proj.Overview = sections[SectionOverview]
	proj.Process = sections[SectionProcess]
	proj.Results = sections[SectionResults]
	if proj.Summary == "" {
		proj.Summary = intro
	}

	im.logger.Debug("parsed project", zap.String("slug", proj.Slug),
		zap.Int("overview", len(proj.Overview)),
		zap.Int("process", len(proj.Process)),
		zap.Int("results", len(proj.Results)),
	)
	return proj, fm, nil
}

// split walks the top-level nodes of the rendered body and files each one
// under the current section. It also returns the text of the first paragraph
// before any section heading.
func split(markup string) (map[string][]string, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, "", fmt.Errorf("parsing rendered markdown: %w", err)
	}

	sections := map[string][]string{}
	current := ""
	intro := ""

	var outerErr error
	doc.Find("body").Contents().EachWithBreak(func(_ int, node *goquery.Selection) bool {
		name := goquery.NodeName(node)
		if name == "#text" {
			if text := strings.TrimSpace(node.Text()); text != "" && current != "" {
				sections[current] = append(sections[current], text)
			}
			return true
		}
		if name == "#comment" {
			return true
		}

		if name == "h2" {
			if s := sectionName(node.Text()); s != "" {
				current = s
				return true
			}
		}

		if current == "" {
			if intro == "" && name == "p" {
				intro = strings.TrimSpace(node.Text())
			}
			return true
		}

		blocks, err := blocksFor(node)
		if err != nil {
			outerErr = err
			return false
		}
		sections[current] = append(sections[current], blocks...)
		return true
	})
	if outerErr != nil {
		return nil, "", outerErr
	}
	return sections, intro, nil
}

// textGuard is prepended to paragraph content that would otherwise not
// classify as text.
const textGuard = "<span></span>"

// soleElement reports whether node holds one element and no other text.
func soleElement(node *goquery.Selection) bool {
	n := 0
	sole := true
	node.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			if strings.TrimSpace(c.Text()) != "" {
				sole = false
			}
			return
		}
		n++
	})
	return sole && n == 1
}

// blocksFor converts one top-level element into content blocks.
func blocksFor(node *goquery.Selection) ([]string, error) {
	switch name := goquery.NodeName(node); name {
	case "ul", "ol":
		open := "<" + name + ">"
		if start, ok := node.Attr("start"); ok {
			open = fmt.Sprintf(`<%s start="%s">`, name, start)
		}
		blocks := []string{open}
		var err error
		node.ChildrenFiltered("li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
			var item string
			item, err = goquery.OuterHtml(li)
			if err != nil {
				return false
			}
			blocks = append(blocks, strings.TrimSpace(item))
			return true
		})
		if err != nil {
			return nil, err
		}
		return append(blocks, "</"+name+">"), nil

	case "p":
		// The renderer wraps text in its own paragraph.
		inner, err := node.Html()
		if err != nil {
			return nil, err
		}
		inner = strings.TrimSpace(inner)
		if inner == "" {
			return nil, nil
		}
		// Prose opening with a link, code span or image would be classified
		// as a raw block and lose its <p>. A lone element stays raw.
		if content.Classify(inner) != content.Text && !soleElement(node) {
			inner = textGuard + inner
		}
		return []string{inner}, nil

	default:
		outer, err := goquery.OuterHtml(node)
		if err != nil {
			return nil, err
		}
		return []string{strings.TrimSpace(outer)}, nil
	}
}

func sectionName(heading string) string {
	switch s := strings.ToLower(strings.TrimSpace(heading)); s {
	case SectionOverview, SectionProcess, SectionResults:
		return s
	}
	return ""
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s and joins its alphanumeric runs with hyphens.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// expand resolves patterns with doublestar, keeping first-seen order and
// dropping duplicates and non-markdown files.
func expand(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			ext := strings.ToLower(filepath.Ext(m))
			if ext != ".md" && ext != ".markdown" {
				continue
			}
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out, nil
}
