package embed

import (
	"context"
	"fmt"
	"html"

	"github.com/PuerkitoBio/goquery"
)

// instagramSelector matches the markup Instagram's embed script processes.
const instagramSelector = `blockquote.instagram-media, iframe[src*="instagram.com"]`

// Instagram injects the Instagram embed script into the document owning a
// rendered scope whenever that scope contains an Instagram embed.
type Instagram struct {
	source ScriptSource
}

// NewInstagram returns a hydrator that takes its script src from source.
func NewInstagram(source ScriptSource) *Instagram {
	return &Instagram{source: source}
}

// Hydrate adds one <script data-embed="instagram"> to the document head.
// Scopes without embeds are left alone and never trigger a script load.
func (h *Instagram) Hydrate(ctx context.Context, scope *goquery.Selection) error {
	if scope == nil || scope.Find(instagramSelector).Length() == 0 {
		return nil
	}

	src, err := h.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading instagram embed script: %w", err)
	}

	head := scope.Closest("html").Find("head").First()
	if head.Length() == 0 {
		return fmt.Errorf("no <head> to attach the instagram embed script to")
	}
	if head.Find(`script[data-embed="instagram"]`).Length() > 0 {
		return nil
	}

	head.AppendHtml(fmt.Sprintf(`<script async src="%s" data-embed="instagram"></script>`, html.EscapeString(src)))
	return nil
}
