package page

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/ziadkadry99/folio/internal/catalog"
	"github.com/ziadkadry99/folio/internal/tabs"
)

// metaFields maps project fields to the ids of their meta rows, in the
// order they appear on the page.
var metaFields = []string{"timeframe", "role", "purpose", "outcomes"}

// TabIDs are the content tabs of a project page.
var TabIDs = []string{"overview", "process", "results"}

// RenderProject fills the project template for the project selected by slug.
// It returns false when the document has no #title element.
func (r *Renderer) RenderProject(ctx context.Context, doc *goquery.Document, cat *catalog.Catalog, slug string) (bool, catalog.Project, error) {
	titleEl := doc.Find("#title").First()
	if titleEl.Length() == 0 {
		return false, catalog.Project{}, nil
	}

	proj, ok := cat.Find(slug)
	if !ok {
		return false, catalog.Project{}, ErrEmptyCatalog
	}
	if slug != "" && proj.Slug != slug {
		r.logger.Debug("unknown project, showing first", zap.String("requested", slug), zap.String("shown", proj.Slug))
	}

	if proj.Hero != "" {
		doc.Find("#hero-img").SetAttr("src", proj.Hero)
	}

	titleEl.SetText(proj.Title)
	if proj.Title != "" {
		doc.Find("head title").First().SetText(proj.Title)
	}

	values := map[string]string{
		"summary":   proj.Summary,
		"timeframe": proj.Timeframe,
		"role":      proj.Role,
		"purpose":   proj.Purpose,
		"outcomes":  proj.Outcomes,
	}
	for _, id := range append([]string{"summary"}, metaFields...) {
		doc.Find("#" + id).First().SetText(r.orPlaceholder(values[id]))
	}

	r.renderMeta(doc, values)
	r.renderChips(doc, proj.Tags)
	r.renderLinks(doc, proj.Links)
	r.renderTabs(ctx, doc, map[string][]string{
		"overview": proj.Overview,
		"process":  proj.Process,
		"results":  proj.Results,
	})

	r.logger.Debug("rendered project", zap.String("slug", proj.Slug))
	return true, proj, nil
}

// renderMeta hides the row of every empty meta field and drops the meta
// group entirely once no row is left visible.
func (r *Renderer) renderMeta(doc *goquery.Document, values map[string]string) {
	meta := doc.Find(".project .meta").First()
	if meta.Length() == 0 {
		return
	}

	for _, id := range metaFields {
		if strings.TrimSpace(values[id]) != "" {
			continue
		}
		row := doc.Find("#" + id).First().Parent()
		if row.Length() > 0 {
			hide(row)
		}
	}

	anyVisible := false
	meta.Children().EachWithBreak(func(_ int, ch *goquery.Selection) bool {
		if !isHidden(ch) {
			anyVisible = true
			return false
		}
		return true
	})
	if !anyVisible {
		meta.Remove()
	}
}

func (r *Renderer) renderChips(doc *goquery.Document, tags []string) {
	container := doc.Find("#tags").First()
	if container.Length() == 0 {
		return
	}
	var b strings.Builder
	for _, t := range tags {
		b.WriteString(`<span class="chip">` + esc(t) + `</span>`)
	}
	container.Empty()
	container.AppendHtml(b.String())
}

func (r *Renderer) renderLinks(doc *goquery.Document, links []catalog.Link) {
	container := doc.Find("#links").First()
	if container.Length() == 0 {
		return
	}
	var b strings.Builder
	for _, l := range links {
		b.WriteString(`<a href="` + esc(l.Href) + `" target="_blank" rel="noopener">` + esc(l.Label) + `</a>`)
	}
	container.Empty()
	container.AppendHtml(b.String())
}

// renderTabs writes each tab panel and removes the button and panel of every
// tab with no content, then syncs the active markers.
func (r *Renderer) renderTabs(ctx context.Context, doc *goquery.Document, sources map[string][]string) {
	for _, id := range TabIDs {
		btn := doc.Find(`.tab[data-tab="` + id + `"]`)
		panel := doc.Find("#" + id).First()
		if btn.Length() == 0 || panel.Length() == 0 {
			continue
		}
		if !r.content.Render(ctx, panel, sources[id]) {
			btn.Remove()
			panel.Remove()
			r.logger.Debug("removed empty tab", zap.String("tab", id))
		}
	}

	ctrl := TabController(doc)
	ApplyTabs(doc, ctrl)
}

// TabController builds a controller from the .tab buttons left in doc. The
// initial active panel is the one whose button carries the active class.
func TabController(doc *goquery.Document) *tabs.Controller {
	var names []string
	active := ""
	doc.Find(".tab[data-tab]").Each(func(_ int, btn *goquery.Selection) {
		name, _ := btn.Attr("data-tab")
		if doc.Find("#"+name).Length() == 0 {
			return
		}
		names = append(names, name)
		if active == "" && btn.HasClass("active") {
			active = name
		}
	})
	return tabs.New(names, active)
}

// ApplyTabs writes the controller state back as active classes on the tab
// buttons and panels.
func ApplyTabs(doc *goquery.Document, ctrl *tabs.Controller) {
	doc.Find(".tab[data-tab]").Each(func(_ int, btn *goquery.Selection) {
		name, _ := btn.Attr("data-tab")
		setActive(btn, ctrl.IsActive(name))
	})
	doc.Find(".tab-panel").Each(func(_ int, panel *goquery.Selection) {
		id, _ := panel.Attr("id")
		setActive(panel, ctrl.IsActive(id))
	})
}

func setActive(s *goquery.Selection, on bool) {
	if on {
		s.AddClass("active")
	} else {
		s.RemoveClass("active")
	}
}
