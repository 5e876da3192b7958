package config

import "time"

// Config is the top-level folio configuration, corresponding to .folio.yml.
type Config struct {
	SiteTitle    string        `yaml:"site_title" koanf:"site_title"`
	SourceDir    string        `yaml:"source_dir" koanf:"source_dir"`
	OutputDir    string        `yaml:"output_dir" koanf:"output_dir"`
	Catalog      string        `yaml:"catalog" koanf:"catalog"`
	QueryParam   string        `yaml:"query_param" koanf:"query_param"`
	Placeholder  string        `yaml:"placeholder" koanf:"placeholder"`
	CardTagLimit int           `yaml:"card_tag_limit" koanf:"card_tag_limit"`
	PrettyURLs   bool          `yaml:"pretty_urls" koanf:"pretty_urls"`
	BaseURL      string        `yaml:"base_url" koanf:"base_url"`
	Exclude      []string      `yaml:"exclude" koanf:"exclude"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" koanf:"fetch_timeout"`
	Embeds       EmbedConfig   `yaml:"embeds" koanf:"embeds"`
	Serve        ServeConfig   `yaml:"serve" koanf:"serve"`
}

// EmbedConfig controls third-party embed hydration.
type EmbedConfig struct {
	Instagram bool   `yaml:"instagram" koanf:"instagram"`
	ScriptURL string `yaml:"script_url" koanf:"script_url"`
	// Vendor downloads the embed script into the output directory at build
	// time instead of linking the remote copy.
	Vendor bool `yaml:"vendor" koanf:"vendor"`
}

// ServeConfig holds dev server settings.
type ServeConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	LiveReload      bool `yaml:"live_reload" koanf:"live_reload"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
