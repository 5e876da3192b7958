package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/folio/internal/catalog"
	"github.com/ziadkadry99/folio/internal/config"
	"github.com/ziadkadry99/folio/internal/content"
	"github.com/ziadkadry99/folio/internal/embed"
	"github.com/ziadkadry99/folio/internal/logging"
	"github.com/ziadkadry99/folio/internal/page"
	"github.com/ziadkadry99/folio/internal/progress"
	"github.com/ziadkadry99/folio/internal/walker"
)

// Output file names written next to the pages.
const (
	CatalogFile     = "projects.json"
	SearchIndexFile = "search-index.json"
	ManifestFile    = "build.json"
	StyleFile       = "style.css"
	ScriptFile      = "app.js"
)

// Build is the immutable result of one generation pass. The dev server
// renders live pages from it.
type Build struct {
	ID          string
	GeneratedAt time.Time
	Catalog     *catalog.Catalog
	Templates   *Templates
	Pages       []string
	Assets      []walker.FileInfo
}

// Generator converts a project catalog and HTML templates into a static site.
type Generator struct {
	cfg      *config.Config
	pages    *page.Renderer
	logger   *zap.Logger
	reporter progress.Reporter
}

// NewGenerator creates a Generator for cfg. reporter may be nil.
func NewGenerator(cfg *config.Config, logger *zap.Logger, reporter progress.Reporter) *Generator {
	logger = logging.OrNop(logger)
	if reporter == nil {
		reporter = progress.Nop{}
	}

	var hydrator content.Hydrator
	if cfg.Embeds.Instagram {
		loader := embed.NewLoader(embed.LoaderOptions{
			ScriptURL:  cfg.Embeds.ScriptURL,
			Vendor:     cfg.Embeds.Vendor,
			AssetDir:   cfg.OutputDir,
			PublicPath: cfg.PublicPath(),
			Timeout:    cfg.FetchTimeout,
			Logger:     logger,
		})
		hydrator = embed.NewInstagram(loader)
	}

	renderer := page.New(content.NewRenderer(hydrator, logger), page.Options{
		Placeholder: cfg.Placeholder,
		TagLimit:    cfg.CardTagLimit,
		QueryParam:  cfg.QueryParam,
		PrettyURLs:  cfg.PrettyURLs,
	}, logger)

	return &Generator{
		cfg:      cfg,
		pages:    renderer,
		logger:   logger,
		reporter: reporter,
	}
}

// pageJob is one output page.
type pageJob struct {
	out  string // slash path under the output directory
	tmpl []byte
	slug string
	base string // <base href> for nested pages, empty at the root
}

// Load reads the catalog and templates without writing anything.
func (g *Generator) Load(ctx context.Context) (*Build, error) {
	cat, err := catalog.Load(ctx, g.cfg.Catalog, &catalog.Options{
		Timeout:   g.cfg.FetchTimeout,
		UserAgent: catalog.DefaultUserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	tmpls, err := LoadTemplates(g.cfg.SourceDir, g.cfg.SiteTitle, g.cfg.Exclude)
	if err != nil {
		return nil, err
	}

	return &Build{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Catalog:     cat,
		Templates:   tmpls,
	}, nil
}

// Generate builds the full static site. A catalog that cannot be loaded
// aborts the build before anything is written.
func (g *Generator) Generate(ctx context.Context) (*Build, error) {
	build, err := g.Load(ctx)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(g.cfg.OutputDir, 0o755); err != nil {
		return nil, err
	}

	// Built-in assets first so the static directory can override them.
	if err := writeFile(filepath.Join(g.cfg.OutputDir, StyleFile), []byte(cssContent)); err != nil {
		return nil, err
	}
	if err := writeFile(filepath.Join(g.cfg.OutputDir, ScriptFile), []byte(jsContent)); err != nil {
		return nil, err
	}

	assets, err := g.copyStatic()
	if err != nil {
		return nil, fmt.Errorf("copying static files: %w", err)
	}
	build.Assets = assets

	jobs := g.jobs(build)
	g.reporter.Start(len(jobs))

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())
	for _, job := range jobs {
		eg.Go(func() error {
			if err := g.writePage(egctx, build.Catalog, job); err != nil {
				return fmt.Errorf("rendering %s: %w", job.out, err)
			}
			g.reporter.Step(job.out)
			return nil
		})
	}
	err = eg.Wait()
	g.reporter.Finish()
	if err != nil {
		return nil, err
	}

	for _, job := range jobs {
		build.Pages = append(build.Pages, job.out)
	}
	sort.Strings(build.Pages)

	if err := build.Catalog.Write(filepath.Join(g.cfg.OutputDir, CatalogFile)); err != nil {
		return nil, fmt.Errorf("writing catalog: %w", err)
	}

	entries := BuildSearchIndex(build.Catalog, g.pages.CardHref)
	if err := WriteSearchIndex(entries, filepath.Join(g.cfg.OutputDir, SearchIndexFile)); err != nil {
		return nil, fmt.Errorf("writing search index: %w", err)
	}

	if err := WriteManifest(build, filepath.Join(g.cfg.OutputDir, ManifestFile)); err != nil {
		return nil, fmt.Errorf("writing manifest: %w", err)
	}

	g.logger.Info("site generated",
		zap.String("build", build.ID),
		zap.Int("pages", len(build.Pages)),
		zap.Int("projects", build.Catalog.Len()),
		zap.Int("assets", len(build.Assets)),
		zap.String("output", g.cfg.OutputDir),
	)
	return build, nil
}

// jobs lists every page of the site.
func (g *Generator) jobs(b *Build) []pageJob {
	jobs := []pageJob{
		{out: IndexTemplate, tmpl: b.Templates.Index},
		{out: ProjectTemplate, tmpl: b.Templates.Project},
	}

	extra := make([]string, 0, len(b.Templates.Extra))
	for rel := range b.Templates.Extra {
		extra = append(extra, rel)
	}
	sort.Strings(extra)
	for _, rel := range extra {
		jobs = append(jobs, pageJob{out: rel, tmpl: b.Templates.Extra[rel], base: relativeBase(rel)})
	}

	if g.cfg.PrettyURLs {
		for _, p := range b.Catalog.Projects {
			out := path.Join("projects", p.Slug, "index.html")
			jobs = append(jobs, pageJob{out: out, tmpl: b.Templates.Project, slug: p.Slug, base: relativeBase(out)})
		}
	}
	return jobs
}

// relativeBase returns the "../" prefix leading from the directory of a
// slash path back to the site root, or "" for a root-level file.
func relativeBase(rel string) string {
	depth := strings.Count(rel, "/")
	return strings.Repeat("../", depth)
}

func (g *Generator) writePage(ctx context.Context, cat *catalog.Catalog, job pageJob) error {
	data, err := g.RenderPage(ctx, cat, job.tmpl, job.slug, PageOptions{Base: job.base})
	if err != nil {
		return err
	}
	out := filepath.Join(g.cfg.OutputDir, filepath.FromSlash(job.out))
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	return writeFile(out, data)
}

// PageOptions adjusts a single rendered page.
type PageOptions struct {
	// Base is written as <base href> when the template has none.
	Base string
	// LiveReload appends the dev server's reload hook.
	LiveReload bool
}

// RenderPage parses tmpl and runs both page renderers over it. slug selects
// the project on a project template. An empty catalog leaves the project
// template in its pre-render state.
func (g *Generator) RenderPage(ctx context.Context, cat *catalog.Catalog, tmpl []byte, slug string, opts PageOptions) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(tmpl))
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}

	res, err := g.pages.Render(ctx, doc, cat, slug)
	switch {
	case errors.Is(err, page.ErrEmptyCatalog):
		g.logger.Warn("catalog is empty, project page left unrendered")
	case err != nil:
		return nil, err
	}
	g.logger.Debug("rendered page",
		zap.Bool("index", res.Index),
		zap.Bool("project", res.Project),
		zap.String("slug", res.Slug),
	)

	if opts.Base != "" {
		if head := doc.Find("head").First(); head.Length() > 0 && head.Find("base").Length() == 0 {
			head.PrependHtml(`<base href="` + opts.Base + `">`)
		}
	}
	if opts.LiveReload {
		doc.Find("body").First().AppendHtml(liveReloadSnippet)
	}

	out, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("serializing page: %w", err)
	}
	return []byte(out), nil
}

// Pages exposes the page renderer, e.g. for card links.
func (g *Generator) Pages() *page.Renderer {
	return g.pages
}

// copyStatic copies <source>/static into the output root, skipping the
// configured exclude globs.
func (g *Generator) copyStatic() ([]walker.FileInfo, error) {
	files, err := walker.Walk(walker.WalkerConfig{
		RootDir: filepath.Join(g.cfg.SourceDir, StaticDir),
		Exclude: g.cfg.Exclude,
	})
	if err != nil {
		return nil, err
	}

	for _, f := range files {
		dst := filepath.Join(g.cfg.OutputDir, filepath.FromSlash(f.RelPath))
		if err := copyFile(f.Path, dst); err != nil {
			return nil, fmt.Errorf("copying %s: %w", f.RelPath, err)
		}
	}
	g.logger.Debug("copied static files", zap.Int("files", len(files)))
	return files, nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
