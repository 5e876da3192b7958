package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.SourceDir != "site" {
		t.Errorf("expected default source_dir %q, got %q", "site", cfg.SourceDir)
	}
	if cfg.OutputDir != "public" {
		t.Errorf("expected default output_dir %q, got %q", "public", cfg.OutputDir)
	}
	if cfg.QueryParam != "p" {
		t.Errorf("expected default query_param %q, got %q", "p", cfg.QueryParam)
	}
	if cfg.CardTagLimit != 3 {
		t.Errorf("expected default card_tag_limit 3, got %d", cfg.CardTagLimit)
	}
	if cfg.Serve.Port != 8080 {
		t.Errorf("expected default serve.port 8080, got %d", cfg.Serve.Port)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.folio.yml")

	original := DefaultConfig()
	original.SiteTitle = "Jane Doe"
	original.Catalog = "https://example.com/projects.json"
	original.PrettyURLs = true
	original.Exclude = []string{"**/*.psd", "drafts/**"}
	original.FetchTimeout = 5 * time.Second
	original.Embeds.Vendor = true
	original.Serve.Port = 9000

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify round-trip.
	if loaded.SiteTitle != original.SiteTitle {
		t.Errorf("site_title: got %q, want %q", loaded.SiteTitle, original.SiteTitle)
	}
	if loaded.Catalog != original.Catalog {
		t.Errorf("catalog: got %q, want %q", loaded.Catalog, original.Catalog)
	}
	if !loaded.PrettyURLs {
		t.Error("pretty_urls: got false, want true")
	}
	if loaded.FetchTimeout != original.FetchTimeout {
		t.Errorf("fetch_timeout: got %v, want %v", loaded.FetchTimeout, original.FetchTimeout)
	}
	if !loaded.Embeds.Vendor {
		t.Error("embeds.vendor: got false, want true")
	}
	if loaded.Serve.Port != 9000 {
		t.Errorf("serve.port: got %d, want 9000", loaded.Serve.Port)
	}
	if len(loaded.Exclude) != len(original.Exclude) {
		t.Fatalf("exclude length: got %d, want %d", len(loaded.Exclude), len(original.Exclude))
	}
	for i, v := range loaded.Exclude {
		if v != original.Exclude[i] {
			t.Errorf("exclude[%d]: got %q, want %q", i, v, original.Exclude[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.OutputDir != "public" {
		t.Errorf("expected default output_dir, got %q", cfg.OutputDir)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yml")
	if err := os.WriteFile(path, []byte("site_title: Mine\nserve:\n  live_reload: false\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SiteTitle != "Mine" {
		t.Errorf("site_title: got %q", cfg.SiteTitle)
	}
	if cfg.Serve.LiveReload {
		t.Error("serve.live_reload should be overridden to false")
	}
	if cfg.Serve.Port != 8080 {
		t.Errorf("serve.port should keep its default, got %d", cfg.Serve.Port)
	}
	if cfg.QueryParam != "p" {
		t.Errorf("query_param should keep its default, got %q", cfg.QueryParam)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("FOLIO_OUTPUT_DIR", "dist")
	t.Setenv("FOLIO_SERVE__PORT", "9090")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.OutputDir != "dist" {
		t.Errorf("env override failed: got %q, want %q", loaded.OutputDir, "dist")
	}
	if loaded.Serve.Port != 9090 {
		t.Errorf("nested env override failed: got %d, want 9090", loaded.Serve.Port)
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"FOLIO_CATALOG":            "catalog",
		"FOLIO_CARD_TAG_LIMIT":     "card_tag_limit",
		"FOLIO_EMBEDS__VENDOR":     "embeds.vendor",
		"FOLIO_SERVE__LIVE_RELOAD": "serve.live_reload",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty source_dir", func(c *Config) { c.SourceDir = "" }},
		{"empty output_dir", func(c *Config) { c.OutputDir = "" }},
		{"empty catalog", func(c *Config) { c.Catalog = "" }},
		{"empty query_param", func(c *Config) { c.QueryParam = "" }},
		{"query_param with separator", func(c *Config) { c.QueryParam = "a&b" }},
		{"negative tag limit", func(c *Config) { c.CardTagLimit = -1 }},
		{"negative timeout", func(c *Config) { c.FetchTimeout = -time.Second }},
		{"port out of range", func(c *Config) { c.Serve.Port = 70000 }},
		{"script url scheme", func(c *Config) { c.Embeds.ScriptURL = "ftp://example.com/embed.js" }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestPublicPath(t *testing.T) {
	tests := map[string]string{
		"":          "/",
		"/":         "/",
		"/folio":    "/folio/",
		"/folio///": "/folio/",
	}
	for in, want := range tests {
		cfg := DefaultConfig()
		cfg.BaseURL = in
		if got := cfg.PublicPath(); got != want {
			t.Errorf("PublicPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"**/*.psd", []string{"**/*.psd"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}
