package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelsort/internal/trailer"
	"reelsort/internal/workflow"
)

func newSeriesCommand(ctx *commandContext) *cobra.Command {
	var (
		language      string
		format        string
		layout        string
		cover         bool
		seasonPosters bool
		noClean       bool
		noPrune       bool
		wantTrailer   bool
		dryRun        bool
		forceShow     string
		forceYear     int
	)

	cmd := &cobra.Command{
		Use:   "series <path>",
		Short: "Identify and rename TV episode files",
		Long: `Identify episode files (SxxEyy or NxM tags) against TMDB and rename them
into the flat or folders layout. Show identification falls back from the
filename to the surrounding directory names; --force-show and --force-year
pin the show when the guesses miss.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if language != "" {
				cfg.TMDB.Language = language
			}
			if layout != "" && layout != "flat" && layout != "folders" {
				return fmt.Errorf("invalid layout %q: expected flat or folders", layout)
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}
			catalog, err := ctx.newCatalog(cfg)
			if err != nil {
				return err
			}
			jnl, err := ctx.newJournal(cfg, dryRun)
			if err != nil {
				return err
			}
			fetcher := trailer.NewCommandFetcher(cfg.Trailer.Binary, cfg.Trailer.Strict, logger)

			runner := workflow.NewRunner(cfg, catalog, fetcher, jnl, logger, workflow.Options{
				DryRun:        dryRun,
				Cover:         cover,
				SeasonPosters: seasonPosters,
				Trailer:       wantTrailer || cfg.Trailer.Enabled,
				Clean:         cfg.Cleanup.Clean && !noClean,
				Prune:         cfg.Cleanup.Prune && !noPrune,
				Lock:          cfg.Run.Lock,
				Layout:        layout,
				SeriesFormat:  format,
				ForceShow:     forceShow,
				ForceYear:     forceYear,
			})
			summary, err := runner.RunSeries(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSummary(cmd, summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "TMDB language, e.g. en-US")
	cmd.Flags().StringVar(&format, "format", "", "Output path template (defaults depend on layout)")
	cmd.Flags().StringVar(&layout, "layout", "", "Destination layout: flat or folders")
	cmd.Flags().BoolVar(&cover, "cover", false, "Download the series poster into the target folder")
	cmd.Flags().BoolVar(&seasonPosters, "season-posters", false, "Download per-season posters")
	cmd.Flags().BoolVar(&noClean, "no-clean", false, "Skip clutter cleanup")
	cmd.Flags().BoolVar(&noPrune, "no-prune", false, "Skip empty directory pruning")
	cmd.Flags().BoolVar(&wantTrailer, "trailer", false, "Download the best trailer with yt-dlp")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log intended actions without touching files")
	cmd.Flags().StringVar(&forceShow, "force-show", "", "Override the show name used for matching")
	cmd.Flags().IntVar(&forceYear, "force-year", 0, "Override the show's first-air year")

	return cmd
}
