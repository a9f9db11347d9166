package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"filmcatalog/internal/app"
	"filmcatalog/internal/catalog"
	"filmcatalog/pkg/models"
	"filmcatalog/pkg/utils"
)

var (
	// Global flags
	fixturePath string
	driver      string
	verbose     bool

	cfg    utils.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Maintenance commands for the film catalog store",
	Long: `catalogctl seeds, wipes and previews the film catalog outside the API server.

Configuration comes from CATALOG_* environment variables and an optional .env
file, the same way the server reads it. Flags override both.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = utils.LoadConfig()
		if err != nil {
			return err
		}
		if fixturePath != "" {
			cfg.FixturePath = fixturePath
		}
		if driver != "" {
			cfg.DBDriver = driver
		}
		if verbose {
			cfg.LogLevel = "debug"
		}

		logger, err = utils.NewLogger(cfg.LogLevel, cfg.Development)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Wipe the catalog and seed it from the fixture",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			sum, err := a.Seed(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "films: %d\ncomments: %d\nmalformed: %d\n",
				sum.Films, sum.Comments, sum.Malformed)
			for field, n := range sum.CoercionMisses {
				fmt.Fprintf(cmd.OutOrStdout(), "coercion misses (%s): %d\n", field, n)
			}
			return nil
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every film and comment",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			films, comments := a.Loader.Reset(ctx)
			a.Cache.Invalidate(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "deleted films: %d\ndeleted comments: %d\n", films, comments)
			return nil
		})
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the normalized fixture as JSON without touching the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		fx, err := catalog.ReadFixture(cfg.FixturePath)
		if err != nil {
			return err
		}
		return writePreview(cmd.OutOrStdout(), fx.Records, catalog.NewExtractor())
	},
}

type previewEntry struct {
	Film     models.Film      `json:"film"`
	Comments []models.Comment `json:"comments"`
	Misses   []string         `json:"coercionMisses,omitempty"`
}

func writePreview(w io.Writer, records []models.RawFilm, ex *catalog.Extractor) error {
	out := make([]previewEntry, 0, len(records))
	for _, rec := range records {
		d := catalog.Normalize(rec)
		comments, err := ex.Extract(d.RawComments)
		if err != nil {
			return err
		}

		film := d.Film
		film.Comments = make([]string, len(comments))
		for i, c := range comments {
			film.Comments[i] = c.ID
		}
		out = append(out, previewEntry{Film: film, Comments: comments, Misses: d.Report.Misses()})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func withApp(ctx context.Context, fn func(context.Context, *app.App) error) error {
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			logger.Warn("close failed", zap.Error(err))
		}
	}()
	return fn(ctx, a)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&fixturePath, "fixture", "f", "", "fixture path (overrides CATALOG_FIXTURE_PATH)")
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", "store driver: mongo or sqlite (overrides CATALOG_DB_DRIVER)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(loadCmd, resetCmd, previewCmd, exportCmd, watchCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
