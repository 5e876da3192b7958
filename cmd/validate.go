package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/folio/internal/catalog"
)

var validateCmd = &cobra.Command{
	Use:   "validate [catalog]",
	Short: "Check a project catalog against the schema",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		source := cfg.Catalog
		if len(args) == 1 {
			source = args[0]
		}

		cat, err := catalog.Load(cmd.Context(), source, &catalog.Options{
			Timeout:   cfg.FetchTimeout,
			UserAgent: catalog.DefaultUserAgent,
		})
		if err != nil {
			var verr *catalog.ValidationError
			if errors.As(err, &verr) {
				return fmt.Errorf("%s: %d problems\n%w", source, len(verr.Errors), err)
			}
			return err
		}

		fmt.Printf("%s: %d projects OK\n", source, cat.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
