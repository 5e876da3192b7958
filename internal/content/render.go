package content

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/ziadkadry99/folio/internal/logging"
)

// Hydrator activates third-party embeds inside freshly rendered markup.
type Hydrator interface {
	Hydrate(ctx context.Context, scope *goquery.Selection) error
}

// Renderer writes content blocks into a container element.
type Renderer struct {
	hydrator Hydrator
	logger   *zap.Logger
}

// NewRenderer returns a Renderer. hydrator may be nil.
func NewRenderer(hydrator Hydrator, logger *zap.Logger) *Renderer {
	return &Renderer{
		hydrator: hydrator,
		logger:   logging.OrNop(logger),
	}
}

// Render replaces the children of container with a <div class="list">
// holding the rendered blocks and reports whether anything was rendered.
// An empty items slice leaves the container untouched and returns false;
// the caller is expected to drop the section. Embed hydration runs after
// the markup is in place and its failure is only logged.
func (r *Renderer) Render(ctx context.Context, container *goquery.Selection, items []string) bool {
	if len(items) == 0 || container == nil || container.Length() == 0 {
		return false
	}

	blocks := Blocks(items)

	container.Empty()
	container.AppendHtml(`<div class="list"></div>`)
	list := container.Children().Last()

	// Each block is parsed on its own so unbalanced markup in one cannot
	// swallow or restyle its neighbours.
	for _, blk := range blocks {
		if blk.Kind != Text {
			list.AppendHtml(blk.HTML)
			continue
		}
		list.AppendHtml("<p></p>")
		list.Children().Last().SetHtml(blk.body())
	}

	if r.hydrator != nil {
		if err := r.hydrator.Hydrate(ctx, container); err != nil {
			id, _ := container.Attr("id")
			r.logger.Warn("embed hydration failed", zap.String("panel", id), zap.Error(err))
		}
	}

	r.logger.Debug("rendered content blocks", zap.Int("items", len(items)), zap.Int("blocks", len(blocks)))
	return true
}
