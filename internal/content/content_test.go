package content

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"<ul>", ListFragment},
		{"<OL start=\"3\">", ListFragment},
		{"  <li>item</li>  ", ListFragment},
		{"</ul>", ListFragment},
		{"</OL>", ListFragment},
		{"<h2>Heading</h2>", BlockTag},
		{"<H6>x</H6>", BlockTag},
		{"<hr>", BlockTag},
		{"<hr/>", BlockTag},
		{`<img src="a.png">`, BlockTag},
		{"<figure><img src=x></figure>", BlockTag},
		{`<blockquote class="instagram-media"></blockquote>`, BlockTag},
		{`<iframe src="https://example.com"></iframe>`, BlockTag},
		{"<video controls></video>", BlockTag},
		{"<pre>code</pre>", BlockTag},
		{"<code>x</code>", BlockTag},
		{"<table></table>", BlockTag},
		{`<a href="/x">link</a>`, BlockTag},
		{"<abbr>x</abbr>", Text},
		{"<article>x</article>", Text},
		{"<h7>x</h7>", Text},
		{"plain text", Text},
		{"some <strong>inline</strong> html", Text},
		{"", Text},
	}
	for _, tt := range tests {
		if got := Classify(tt.input); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestBlocksListThenText(t *testing.T) {
	got := Blocks([]string{"<ul>", "<li>x</li>", "</ul>", "plain text"})
	want := []Block{
		{Kind: ListFragment, HTML: "<ul><li>x</li></ul>"},
		{Kind: Text, HTML: "<p>plain text</p>"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestBlocksInterleaved(t *testing.T) {
	got := Blocks([]string{
		"intro",
		"<ol>", "<li>one</li>",
		"<h3>Break</h3>",
		"<li>two</li>", "</ol>",
		"  <img src=\"a.png\">  ",
		"outro",
	})
	want := []Block{
		{Kind: Text, HTML: "<p>intro</p>"},
		{Kind: ListFragment, HTML: "<ol><li>one</li>"},
		{Kind: BlockTag, HTML: "<h3>Break</h3>"},
		{Kind: ListFragment, HTML: "<li>two</li></ol>"},
		{Kind: BlockTag, HTML: `<img src="a.png">`},
		{Kind: Text, HTML: "<p>outro</p>"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestBlocksEmpty(t *testing.T) {
	assert.Nil(t, Blocks(nil))
	assert.Nil(t, Blocks([]string{}))
}

// Every item lands in exactly one node, in order, and only list runs merge.
func TestBlocksPreservesItems(t *testing.T) {
	pool := []string{"<ul>", "<li>a</li>", "</ul>", "<h2>h</h2>", "<hr>", "text", "more <em>text</em>"}
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 200; round++ {
		n := 1 + rng.Intn(12)
		items := make([]string, n)
		for i := range items {
			items[i] = pool[rng.Intn(len(pool))]
		}

		wantNodes := 0
		for i, item := range items {
			if Classify(item) != ListFragment {
				wantNodes++
				continue
			}
			if i == 0 || Classify(items[i-1]) != ListFragment {
				wantNodes++
			}
		}

		blocks := Blocks(items)
		require.Len(t, blocks, wantNodes, "items=%q", items)

		var rebuilt strings.Builder
		for _, item := range items {
			if Classify(item) == Text {
				rebuilt.WriteString("<p>" + item + "</p>")
			} else {
				rebuilt.WriteString(item)
			}
		}
		assert.Equal(t, rebuilt.String(), Join(blocks))

		for i := 1; i < len(blocks); i++ {
			assert.False(t, blocks[i].Kind == ListFragment && blocks[i-1].Kind == ListFragment,
				"adjacent list nodes should have been merged: %q", items)
		}
	}
}

type stubHydrator struct {
	calls int
	err   error
	scope *goquery.Selection
}

func (s *stubHydrator) Hydrate(_ context.Context, scope *goquery.Selection) error {
	s.calls++
	s.scope = scope
	return s.err
}

func newPanel(t *testing.T) (*goquery.Document, *goquery.Selection) {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><body><section id="overview" class="tab-panel"><p>placeholder</p></section></body></html>`))
	require.NoError(t, err)
	return doc, doc.Find("#overview")
}

func TestRenderScenario(t *testing.T) {
	_, panel := newPanel(t)
	h := &stubHydrator{}
	r := NewRenderer(h, nil)

	ok := r.Render(context.Background(), panel, []string{"<ul>", "<li>x</li>", "</ul>", "plain text"})
	require.True(t, ok)

	html, err := panel.Html()
	require.NoError(t, err)
	assert.Equal(t, `<div class="list"><ul><li>x</li></ul><p>plain text</p></div>`, html)
	assert.Equal(t, 1, h.calls)
	assert.Equal(t, 1, h.scope.Length())
}

func TestRenderKeepsBlocksApart(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		want  string
		nodes int
	}{
		{
			name:  "list run split by a heading",
			items: []string{"<ol>", "<li>one</li>", "<h3>Break</h3>", "<li>two</li>", "</ol>"},
			want:  `<div class="list"><ol><li>one</li></ol><h3>Break</h3><li>two</li></div>`,
			nodes: 3,
		},
		{
			name:  "unclosed inline tag",
			items: []string{"<b>bold start", "next paragraph"},
			want:  `<div class="list"><p><b>bold start</b></p><p>next paragraph</p></div>`,
			nodes: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, panel := newPanel(t)
			r := NewRenderer(nil, nil)

			require.True(t, r.Render(context.Background(), panel, tt.items))

			html, err := panel.Html()
			require.NoError(t, err)
			assert.Equal(t, tt.want, html)
			assert.Equal(t, len(Blocks(tt.items)), panel.Find("div.list").Children().Length())
			assert.Equal(t, tt.nodes, panel.Find("div.list").Children().Length())
		})
	}
}

func TestRenderEmptyLeavesContainer(t *testing.T) {
	_, panel := newPanel(t)
	h := &stubHydrator{}
	r := NewRenderer(h, nil)

	before, _ := panel.Html()
	assert.False(t, r.Render(context.Background(), panel, nil))
	assert.False(t, r.Render(context.Background(), panel, []string{}))
	after, _ := panel.Html()

	assert.Equal(t, before, after)
	assert.Zero(t, h.calls)
}

func TestRenderMissingContainer(t *testing.T) {
	doc, _ := newPanel(t)
	r := NewRenderer(nil, nil)
	assert.False(t, r.Render(context.Background(), doc.Find("#missing"), []string{"text"}))
}

func TestRenderHydrationFailureIsLogged(t *testing.T) {
	_, panel := newPanel(t)
	core, logs := observer.New(zapcore.WarnLevel)
	h := &stubHydrator{err: errors.New("script blocked")}
	r := NewRenderer(h, zap.New(core))

	ok := r.Render(context.Background(), panel, []string{"<blockquote class=\"instagram-media\"></blockquote>"})
	assert.True(t, ok, "hydration failure must not fail rendering")

	entries := logs.FilterMessage("embed hydration failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "overview", entries[0].ContextMap()["panel"])
}
