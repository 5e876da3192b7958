// Package page fills the index and project HTML templates from the catalog.
// Both renderers guard on their own container and silently do nothing when
// it is absent, so one pass over any template runs both.
package page

import (
	"context"
	"errors"
	"html"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/ziadkadry99/folio/internal/catalog"
	"github.com/ziadkadry99/folio/internal/content"
	"github.com/ziadkadry99/folio/internal/logging"
)

// ErrEmptyCatalog is returned when a project page is rendered from a catalog
// with no records.
var ErrEmptyCatalog = errors.New("catalog has no projects")

// DefaultPlaceholder replaces missing text fields.
const DefaultPlaceholder = "—"

// DefaultTagLimit is the number of tags shown on an index card.
const DefaultTagLimit = 3

// Options controls rendering details.
type Options struct {
	Placeholder string
	TagLimit    int
	QueryParam  string
	// PrettyURLs links cards to projects/<slug>/ instead of project.html?p=<slug>.
	PrettyURLs bool
	// BasePath prefixes card links, e.g. "../../" on a nested page.
	BasePath string
	Now      func() time.Time
}

func (o *Options) defaults() {
	if o.Placeholder == "" {
		o.Placeholder = DefaultPlaceholder
	}
	if o.TagLimit <= 0 {
		o.TagLimit = DefaultTagLimit
	}
	if o.QueryParam == "" {
		o.QueryParam = "p"
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Renderer renders catalog data into template documents.
type Renderer struct {
	content *content.Renderer
	opts    Options
	logger  *zap.Logger
}

// New returns a Renderer. contentRenderer writes the tab panels.
func New(contentRenderer *content.Renderer, opts Options, logger *zap.Logger) *Renderer {
	opts.defaults()
	if contentRenderer == nil {
		contentRenderer = content.NewRenderer(nil, logger)
	}
	return &Renderer{
		content: contentRenderer,
		opts:    opts,
		logger:  logging.OrNop(logger),
	}
}

// Options returns the effective options.
func (r *Renderer) Options() Options {
	return r.opts
}

// Result reports which renderers did work on a document.
type Result struct {
	Index   bool
	Project bool
	Slug    string
}

// Render runs the index and project renderers over doc. slug selects the
// project; empty or unknown slugs fall back to the first record.
func (r *Renderer) Render(ctx context.Context, doc *goquery.Document, cat *catalog.Catalog, slug string) (Result, error) {
	r.renderYear(doc)

	res := Result{Index: r.RenderIndex(doc, cat)}

	rendered, project, err := r.RenderProject(ctx, doc, cat, slug)
	if err != nil {
		return res, err
	}
	res.Project = rendered
	res.Slug = project.Slug
	return res, nil
}

// CardHref is the link from an index card to a project.
func (r *Renderer) CardHref(slug string) string {
	if r.opts.PrettyURLs {
		return r.opts.BasePath + "projects/" + url.PathEscape(slug) + "/"
	}
	return r.opts.BasePath + "project.html?" + url.QueryEscape(r.opts.QueryParam) + "=" + url.QueryEscape(slug)
}

func (r *Renderer) renderYear(doc *goquery.Document) {
	doc.Find("#year").SetText(strconv.Itoa(r.opts.Now().Year()))
}

// esc escapes text for element content and quoted attribute values.
func esc(s string) string {
	return html.EscapeString(s)
}

// orPlaceholder returns s, or the placeholder when s is empty.
func (r *Renderer) orPlaceholder(s string) string {
	if s == "" {
		return r.opts.Placeholder
	}
	return s
}

func isHidden(s *goquery.Selection) bool {
	style, _ := s.Attr("style")
	style = strings.ReplaceAll(strings.ToLower(style), " ", "")
	return strings.Contains(style, "display:none")
}

func hide(s *goquery.Selection) {
	style, _ := s.Attr("style")
	style = strings.TrimSpace(style)
	if style != "" && !strings.HasSuffix(style, ";") {
		style += ";"
	}
	if style != "" {
		style += " "
	}
	s.SetAttr("style", style+"display: none")
}
