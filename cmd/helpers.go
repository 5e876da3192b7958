package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/folio/internal/config"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `folio init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// applySiteFlags overlays the flags shared by build and serve.
func applySiteFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		cfg.OutputDir = v
	}
	if v, _ := cmd.Flags().GetString("catalog"); v != "" {
		cfg.Catalog = v
	}
	if cmd.Flags().Changed("pretty-urls") {
		cfg.PrettyURLs, _ = cmd.Flags().GetBool("pretty-urls")
	}
}

func addSiteFlags(cmd *cobra.Command) {
	cmd.Flags().String("output", "", "override output directory")
	cmd.Flags().String("catalog", "", "override catalog file or URL")
	cmd.Flags().Bool("pretty-urls", false, "also write projects/<slug>/ pages")
}
