// Package embed activates third-party embeds (Instagram posts) inside
// rendered project panels. The embed script is resolved at most once per
// process and shared by every page that needs it.
package embed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ziadkadry99/folio/internal/logging"
)

// InstagramScriptURL is the public Instagram embed script.
const InstagramScriptURL = "https://www.instagram.com/embed.js"

// ScriptSource resolves the src attribute used for an embed script.
type ScriptSource interface {
	Load(ctx context.Context) (string, error)
}

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	// ScriptURL is the remote script. Defaults to InstagramScriptURL.
	ScriptURL string
	// Vendor downloads the script once into AssetDir and serves it locally.
	Vendor bool
	// AssetDir is the site output directory the vendored copy is written under.
	AssetDir string
	// PublicPath is the URL prefix of AssetDir on the published site.
	PublicPath string
	// Timeout bounds the download. Defaults to 30s.
	Timeout time.Duration
	Logger  *zap.Logger
}

// Loader memoizes the first script resolution. Concurrent callers share one
// in-flight load and every later caller receives the cached result, success
// or failure, so the script is fetched and injected from a single source.
type Loader struct {
	opts   LoaderOptions
	client *http.Client
	logger *zap.Logger
	group  singleflight.Group

	mu     sync.Mutex
	loaded bool
	src    string
	err    error
}

// vendoredName is the file name of the vendored script under AssetDir.
const vendoredName = "vendor/instagram-embed.js"

// NewLoader returns a Loader for the given options.
func NewLoader(opts LoaderOptions) *Loader {
	if opts.ScriptURL == "" {
		opts.ScriptURL = InstagramScriptURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.PublicPath == "" {
		opts.PublicPath = "/"
	}
	return &Loader{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
		logger: logging.OrNop(opts.Logger),
	}
}

// Load returns the script src, resolving it on first use.
func (l *Loader) Load(ctx context.Context) (string, error) {
	l.mu.Lock()
	if l.loaded {
		src, err := l.src, l.err
		l.mu.Unlock()
		return src, err
	}
	l.mu.Unlock()

	v, err, _ := l.group.Do("script", func() (interface{}, error) {
		l.mu.Lock()
		if l.loaded {
			src, err := l.src, l.err
			l.mu.Unlock()
			return src, err
		}
		l.mu.Unlock()

		// The result outlives the caller, so its cancellation must not
		// end up cached. The client timeout still bounds the download.
		src, err := l.resolve(context.WithoutCancel(ctx))

		l.mu.Lock()
		l.loaded = true
		l.src, l.err = src, err
		l.mu.Unlock()
		return src, err
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (l *Loader) resolve(ctx context.Context) (string, error) {
	if !l.opts.Vendor {
		return l.opts.ScriptURL, nil
	}
	if l.opts.AssetDir == "" {
		return "", fmt.Errorf("vendoring %s: no asset directory configured", l.opts.ScriptURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.opts.ScriptURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request for %s: %w", l.opts.ScriptURL, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", l.opts.ScriptURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("downloading %s: HTTP %d", l.opts.ScriptURL, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", l.opts.ScriptURL, err)
	}

	outPath := filepath.Join(l.opts.AssetDir, filepath.FromSlash(vendoredName))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(outPath, body, 0o644); err != nil {
		return "", fmt.Errorf("writing vendored script: %w", err)
	}

	l.logger.Info("vendored embed script", zap.String("url", l.opts.ScriptURL), zap.Int("bytes", len(body)))
	return path.Join(l.opts.PublicPath, vendoredName), nil
}
