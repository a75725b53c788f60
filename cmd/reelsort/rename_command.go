package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelsort/internal/trailer"
	"reelsort/internal/workflow"
)

func newRenameCommand(ctx *commandContext) *cobra.Command {
	var (
		language    string
		format      string
		noCover     bool
		noClean     bool
		noPrune     bool
		wantTrailer bool
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "rename <path>",
		Short: "Identify and rename movie files",
		Long: `Identify movie files against TMDB and rename them into the configured
template, relative to each file's own directory. Accepts a single file or a
directory walked recursively. Subtitle sidecars follow the video, release
clutter is cleaned from touched directories, and emptied directories are
pruned afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if language != "" {
				cfg.TMDB.Language = language
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
				DryRun:      dryRun,
				Cover:       !noCover,
				Trailer:     wantTrailer || cfg.Trailer.Enabled,
				Clean:       cfg.Cleanup.Clean && !noClean,
				Prune:       cfg.Cleanup.Prune && !noPrune,
				Lock:        cfg.Run.Lock,
				MovieFormat: format,
			})
			summary, err := runner.RunMovies(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSummary(cmd, summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "TMDB language, e.g. en-US")
	cmd.Flags().StringVar(&format, "format", "", "Output path template (default {ny}/{ny})")
	cmd.Flags().BoolVar(&noCover, "no-cover", false, "Skip poster download")
	cmd.Flags().BoolVar(&noClean, "no-clean", false, "Skip clutter cleanup")
	cmd.Flags().BoolVar(&noPrune, "no-prune", false, "Skip empty directory pruning")
	cmd.Flags().BoolVar(&wantTrailer, "trailer", false, "Download the best trailer with yt-dlp")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log intended actions without touching files")

	return cmd
}

func printSummary(cmd *cobra.Command, summary workflow.Summary) {
	fmt.Fprintf(cmd.OutOrStdout(),
		"processed %d, unmatched %d, skipped %d, failed %d\n",
		summary.Processed, summary.Unmatched, summary.Skipped, summary.Failed)
}
