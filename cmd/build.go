package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/folio/internal/progress"
	"github.com/ziadkadry99/folio/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate the static site",
	Long:  `Loads the project catalog, renders every page from the templates in the source directory and writes the site to the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applySiteFlags(cmd, cfg)

		gen := site.NewGenerator(cfg, logger, progress.NewReporter())
		build, err := gen.Generate(cmd.Context())
		if err != nil {
			return fmt.Errorf("generating site: %w", err)
		}

		fmt.Printf("Site generated: %s (%d pages, %d projects)\n", cfg.OutputDir, len(build.Pages), build.Catalog.Len())
		return nil
	},
}

func init() {
	addSiteFlags(buildCmd)
	rootCmd.AddCommand(buildCmd)
}
