package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/folio/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <glob>...",
	Short: "Build a project catalog from markdown files",
	Long: `Reads markdown files with YAML front matter and writes a project catalog.
Each file's "## Overview", "## Process" and "## Results" sections become the
project's tabs. Globs support ** (e.g. "projects/**/*.md").`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			out = cfg.Catalog
		}

		cat, err := importer.New(logger).Import(args)
		if err != nil {
			return err
		}
		if err := cat.Write(out); err != nil {
			return fmt.Errorf("writing catalog: %w", err)
		}

		fmt.Printf("Imported %d projects into %s\n", cat.Len(), out)
		return nil
	},
}

func init() {
	importCmd.Flags().StringP("out", "o", "", "catalog file to write (defaults to the configured catalog)")
	rootCmd.AddCommand(importCmd)
}
