package site

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ziadkadry99/folio/internal/walker"
)

// Names looked up in the source directory.
const (
	IndexTemplate   = "index.html"
	ProjectTemplate = "project.html"
	StaticDir       = "static"
)

// Templates are the raw HTML documents pages are rendered from.
type Templates struct {
	Index   []byte
	Project []byte
	// Extra holds any other top-level pages in the source directory, keyed
	// by slash-separated path relative to it.
	Extra map[string][]byte
}

// shellData is passed to the built-in templates.
type shellData struct {
	SiteTitle string
}

// LoadTemplates reads index.html and project.html from dir, falling back to
// the built-in defaults for whichever is missing. Every other HTML file
// outside the static directory is loaded into Extra.
func LoadTemplates(dir, siteTitle string, exclude []string) (*Templates, error) {
	t := &Templates{Extra: map[string][]byte{}}

	var err error
	if t.Index, err = readOrDefault(filepath.Join(dir, IndexTemplate), "index", defaultIndexHTML, siteTitle); err != nil {
		return nil, err
	}
	if t.Project, err = readOrDefault(filepath.Join(dir, ProjectTemplate), "project", defaultProjectHTML, siteTitle); err != nil {
		return nil, err
	}

	pages, err := walker.Walk(walker.WalkerConfig{
		RootDir: dir,
		Include: []string{"**/*.html"},
		Exclude: append([]string{StaticDir + "/**"}, exclude...),
	})
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	for _, f := range pages {
		if f.RelPath == IndexTemplate || f.RelPath == ProjectTemplate {
			continue
		}
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", f.RelPath, err)
		}
		t.Extra[f.RelPath] = data
	}
	return t, nil
}

func readOrDefault(path, name, fallback, siteTitle string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading template %s: %w", path, err)
	}

	tmpl, err := template.New(name).Parse(fallback)
	if err != nil {
		return nil, fmt.Errorf("parsing %s template: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, shellData{SiteTitle: siteTitle}); err != nil {
		return nil, fmt.Errorf("executing %s template: %w", name, err)
	}
	return buf.Bytes(), nil
}

// liveReloadSnippet is appended to pages served with live reload enabled.
const liveReloadSnippet = `<script>window.FOLIO_LIVERELOAD = true;</script>`

const defaultIndexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.SiteTitle}}</title>
  <link rel="stylesheet" href="style.css">
</head>
<body>
  <header class="site-header">
    <a class="brand" href="index.html">{{.SiteTitle}}</a>
  </header>
  <main>
    <section class="hero">
      <div class="hero-copy">
        <h1>{{.SiteTitle}}</h1>
        <p>Selected work.</p>
      </div>
      <img class="hero-photo clickable-img" src="img/portrait.jpg" alt="{{.SiteTitle}}">
    </section>
    <section>
      <h2>Projects</h2>
      <div id="project-grid" class="grid"></div>
    </section>
  </main>
  <div id="lightbox" class="lightbox">
    <button class="close-btn" aria-label="Close">&times;</button>
    <img src="" alt="">
    <p class="caption"></p>
  </div>
  <footer class="site-footer">&copy; <span id="year"></span> {{.SiteTitle}}</footer>
  <script src="app.js" defer></script>
</body>
</html>
`

const defaultProjectHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.SiteTitle}}</title>
  <link rel="stylesheet" href="style.css">
</head>
<body>
  <header class="site-header">
    <a class="brand" href="index.html">{{.SiteTitle}}</a>
  </header>
  <main>
    <article class="project">
      <img id="hero-img" class="project-hero clickable-img" src="" alt="">
      <h1 id="title">Loading…</h1>
      <p id="summary" class="lead"></p>
      <div class="meta">
        <div class="meta-row"><strong>Timeframe</strong> <span id="timeframe"></span></div>
        <div class="meta-row"><strong>Role</strong> <span id="role"></span></div>
        <div class="meta-row"><strong>Purpose</strong> <span id="purpose"></span></div>
        <div class="meta-row"><strong>Outcomes</strong> <span id="outcomes"></span></div>
      </div>
      <div id="tags" class="chips"></div>
      <div id="links" class="links"></div>
      <nav class="tabs" role="tablist">
        <button class="tab active" data-tab="overview" role="tab">Overview</button>
        <button class="tab" data-tab="process" role="tab">Process</button>
        <button class="tab" data-tab="results" role="tab">Results</button>
      </nav>
      <section id="overview" class="tab-panel active" role="tabpanel"></section>
      <section id="process" class="tab-panel" role="tabpanel"></section>
      <section id="results" class="tab-panel" role="tabpanel"></section>
    </article>
  </main>
  <div id="lightbox" class="lightbox">
    <button class="close-btn" aria-label="Close">&times;</button>
    <img src="" alt="">
    <p class="caption"></p>
  </div>
  <footer class="site-footer">&copy; <span id="year"></span> {{.SiteTitle}}</footer>
  <script src="app.js" defer></script>
</body>
</html>
`

const cssContent = `:root {
  --fg: #1d1d1f;
  --muted: #6e6e73;
  --bg: #fbfbfd;
  --card: #fff;
  --accent: #2f6feb;
  --radius: 14px;
}
* { box-sizing: border-box; }
body {
  margin: 0;
  font: 16px/1.6 -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
  color: var(--fg);
  background: var(--bg);
}
main { max-width: 1100px; margin: 0 auto; padding: 0 1.5rem 4rem; }
.site-header, .site-footer { max-width: 1100px; margin: 0 auto; padding: 1.25rem 1.5rem; }
.site-footer { color: var(--muted); font-size: .9rem; }
.brand { font-weight: 700; color: inherit; text-decoration: none; }

.hero { display: flex; gap: 2.5rem; align-items: center; padding: 3rem 0; }
.hero-copy { flex: 1; }
.hero-photo { border-radius: 50%; object-fit: cover; width: 320px; height: 320px; }

.grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(280px, 1fr)); gap: 1.25rem; }
.card { background: var(--card); border-radius: var(--radius); overflow: hidden; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
.card-link { color: inherit; text-decoration: none; transition: transform .15s ease; }
.card-link:hover { transform: translateY(-3px); }
.card-media img { width: 100%; aspect-ratio: 16 / 9; object-fit: cover; display: block; background: #eee; }
.pad { padding: 1rem 1.25rem 1.25rem; }
.pad h3 { margin: 0 0 .35rem; }
.pad p { margin: 0 0 .75rem; color: var(--muted); }
.tags, .chips { display: flex; flex-wrap: wrap; gap: .4rem; }
.tag, .chip { font-size: .78rem; padding: .15rem .6rem; border-radius: 999px; background: #eef2ff; color: var(--accent); }

.project-hero { width: 100%; max-height: 460px; object-fit: cover; border-radius: var(--radius); margin-top: 1rem; }
.lead { font-size: 1.15rem; color: var(--muted); }
.meta { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: .75rem; margin: 1.5rem 0; }
.meta-row strong { display: block; font-size: .8rem; text-transform: uppercase; color: var(--muted); }
.links { display: flex; gap: 1rem; margin: 1rem 0 2rem; }
.links a { color: var(--accent); }

.tabs { display: flex; gap: .5rem; border-bottom: 1px solid #e5e5ea; }
.tab { border: 0; background: none; padding: .6rem 1rem; cursor: pointer; font: inherit; color: var(--muted); border-bottom: 2px solid transparent; }
.tab.active { color: var(--fg); border-bottom-color: var(--accent); }
.tab-panel { display: none; padding: 1.5rem 0; }
.tab-panel.active { display: block; }
.list img, .list video, .list iframe { max-width: 100%; border-radius: 10px; }
.clickable-img { cursor: zoom-in; }

.lightbox { display: none; position: fixed; inset: 0; background: rgba(0,0,0,.88); z-index: 100; align-items: center; justify-content: center; flex-direction: column; overflow: hidden; }
.lightbox img { max-width: 90vw; max-height: 85vh; transition: transform .2s ease; cursor: zoom-in; }
.lightbox img.zoomed { cursor: grab; max-width: none; max-height: none; }
.lightbox .caption { color: #eee; margin-top: .75rem; }
.lightbox .close-btn { position: absolute; top: 1rem; right: 1.25rem; font-size: 2rem; color: #fff; background: none; border: 0; cursor: pointer; }

@media (max-width: 720px) {
  .hero { flex-direction: column-reverse; text-align: center; }
}
`

// jsContent boots the WebAssembly binding when the site ships one and
// connects to the dev server's live reload socket when asked to.
const jsContent = `(function () {
  "use strict";

  function boot() {
    if (typeof WebAssembly === "undefined") return;
    var base = document.querySelector("script[src$='app.js']").src.replace(/app\.js.*$/, "");
    var shim = document.createElement("script");
    shim.src = base + "wasm_exec.js";
    shim.onload = function () {
      var go = new Go();
      WebAssembly.instantiateStreaming(fetch(base + "folio.wasm"), go.importObject)
        .then(function (res) { go.run(res.instance); })
        .catch(function (err) { console.error("folio.wasm:", err); });
    };
    shim.onerror = function () {};
    document.head.appendChild(shim);
  }

  function liveReload() {
    if (!window.FOLIO_LIVERELOAD) return;
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(proto + location.host + "/livereload");
    ws.onmessage = function (ev) {
      try {
        if (JSON.parse(ev.data).type === "reload") location.reload();
      } catch (e) {}
    };
    ws.onclose = function () { setTimeout(liveReload, 1000); };
  }

  boot();
  liveReload();
})();
`
