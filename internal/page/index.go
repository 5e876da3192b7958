package page

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/ziadkadry99/folio/internal/catalog"
)

// RenderIndex appends one card per project to #project-grid. It returns
// false when the document has no grid.
func (r *Renderer) RenderIndex(doc *goquery.Document, cat *catalog.Catalog) bool {
	grid := doc.Find("#project-grid").First()
	if grid.Length() == 0 {
		return false
	}
	if cat == nil {
		return true
	}

	var b strings.Builder
	for i := range cat.Projects {
		r.writeCard(&b, &cat.Projects[i])
	}
	grid.AppendHtml(b.String())

	r.logger.Debug("rendered index", zap.Int("cards", cat.Len()))
	return true
}

func (r *Renderer) writeCard(b *strings.Builder, p *catalog.Project) {
	b.WriteString(`<a class="card card-link" href="`)
	b.WriteString(esc(r.CardHref(p.Slug)))
	b.WriteString(`" aria-label="`)
	b.WriteString(esc(p.Title + " — view project"))
	b.WriteString(`">`)

	b.WriteString(`<div class="card-media"><img src="`)
	b.WriteString(esc(p.Hero))
	b.WriteString(`" alt=""></div>`)

	b.WriteString(`<div class="pad"><h3>`)
	b.WriteString(esc(p.Title))
	b.WriteString(`</h3><p>`)
	b.WriteString(esc(p.Summary))
	b.WriteString(`</p><div class="tags">`)
	tags := p.Tags
	if len(tags) > r.opts.TagLimit {
		tags = tags[:r.opts.TagLimit]
	}
	for _, t := range tags {
		b.WriteString(`<span class="tag">`)
		b.WriteString(esc(t))
		b.WriteString(`</span>`)
	}
	b.WriteString(`</div></div></a>`)
}
