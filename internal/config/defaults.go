package config

import "time"

// DefaultFile is the config file read when --config is not given.
const DefaultFile = ".folio.yml"

// DefaultExcludes are glob patterns under the static directory that are not
// copied to the output.
var DefaultExcludes = []string{
	"**/.DS_Store",
	"**/Thumbs.db",
	"**/*.psd",
	"**/.*.swp",
	"**/*~",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SiteTitle:    "Portfolio",
		SourceDir:    "site",
		OutputDir:    "public",
		Catalog:      "projects.json",
		QueryParam:   "p",
		Placeholder:  "—",
		CardTagLimit: 3,
		BaseURL:      "/",
		Exclude:      DefaultExcludes,
		FetchTimeout: 30 * time.Second,
		Embeds: EmbedConfig{
			Instagram: true,
			ScriptURL: "https://www.instagram.com/embed.js",
		},
		Serve: ServeConfig{
			Port:       8080,
			LiveReload: true,
		},
	}
}
