package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/folio/internal/catalog"
	"github.com/ziadkadry99/folio/internal/progress"
	"github.com/ziadkadry99/folio/internal/server"
	"github.com/ziadkadry99/folio/internal/site"
	"github.com/ziadkadry99/folio/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the site and serve it locally",
	Long: `Builds the site, then serves it with the index and project pages rendered
live from the latest build. With --watch, edits to the templates, static
files or catalog trigger a rebuild and open browsers reload.`,
	RunE: runServe,
}

func init() {
	addSiteFlags(serveCmd)
	serveCmd.Flags().Int("port", 0, "port for the dev server (defaults to serve.port)")
	serveCmd.Flags().Bool("open", false, "open browser automatically")
	serveCmd.Flags().Bool("watch", false, "rebuild when sources change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applySiteFlags(cmd, cfg)
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Serve.Port = port
	}
	watching, _ := cmd.Flags().GetBool("watch")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen := site.NewGenerator(cfg, logger, progress.NewReporter())
	build, err := gen.Generate(ctx)
	if err != nil {
		return fmt.Errorf("generating site: %w", err)
	}

	srv := server.New(server.Config{
		Port:       cfg.Serve.Port,
		OutputDir:  cfg.OutputDir,
		QueryParam: cfg.QueryParam,
		AllowAll:   cfg.Serve.AllowAllOrigins,
		LiveReload: cfg.Serve.LiveReload && watching,
	}, gen, build, logger)

	if watching {
		// Background rebuilds report nothing.
		bg := site.NewGenerator(cfg, logger, progress.Nop{})
		opts := watch.Options{
			Dirs:    []string{cfg.SourceDir},
			Ignore:  []string{cfg.OutputDir},
			Exclude: []string{"*.swp", "*~", ".#*", "4913"},
			Logger:  logger,
		}
		if !catalog.IsRemote(cfg.Catalog) {
			opts.Files = []string{cfg.Catalog}
		}
		w, err := watch.New(opts, func(ctx context.Context) error {
			next, err := bg.Generate(ctx)
			if err != nil {
				return err
			}
			srv.Swap(next)
			return nil
		})
		if err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		defer w.Stop()
	}

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	url := fmt.Sprintf("http://localhost:%d", cfg.Serve.Port)
	if open, _ := cmd.Flags().GetBool("open"); open {
		go server.OpenBrowser(url)
	}
	fmt.Printf("Serving %s at %s, press Ctrl+C to stop\n", cfg.OutputDir, url)

	return srv.Start()
}
