package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reelsort/internal/match"
	"reelsort/internal/parse"
)

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var (
		language   string
		debugMatch bool
		forceShow  string
		forceYear  int
	)

	cmd := &cobra.Command{
		Use:   "identify <file>",
		Short: "Resolve a file against TMDB without renaming",
		Long: `Parse the filename, search TMDB, and print the best match. Useful for
checking what a rename would do. --debug-match prints the scored candidate
tables behind the decision.`,
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

			path := args[0]
			stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			titleGuess, yearGuess := parse.SplitStemYear(stem)
			fmt.Fprintf(cmd.OutOrStdout(), "guess: %q", titleGuess)
			if yearGuess > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), " (%d)", yearGuess)
			}
			fmt.Fprintln(cmd.OutOrStdout())

			movieWeights := match.MovieWeights()
			if cfg.Match.MovieGate > 0 {
				movieWeights.Gate = cfg.Match.MovieGate
			}
			seriesWeights := match.SeriesWeights()
			if cfg.Match.SeriesGate > 0 {
				seriesWeights.Gate = cfg.Match.SeriesGate
			}

			runCtx := cmd.Context()
			if debugMatch {
				movies, err := catalog.SearchMovie(runCtx, titleGuess, yearGuess)
				if err == nil {
					printMovieScores(cmd, match.ScoreMovies(movies, titleGuess, yearGuess, movieWeights))
				}
				series, err := catalog.SearchTV(runCtx, titleGuess, 0)
				if err == nil {
					printSeriesScores(cmd, match.ScoreSeries(series, titleGuess, yearGuess, seriesWeights))
				}
			}

			resolver := match.NewResolver(catalog, movieWeights, seriesWeights, logger)
			identity, err := resolver.ResolveAuto(runCtx, path, match.SeriesQuery{
				Path:      path,
				ForceShow: forceShow,
				ForceYear: forceYear,
			})
			if err != nil {
				return err
			}
			switch identity.Kind {
			case match.KindMovie:
				fmt.Fprintf(cmd.OutOrStdout(), "movie: %s (%d)  tmdb id %d\n",
					identity.Movie.DisplayTitle(), identity.Movie.Year(), identity.Movie.ID)
			case match.KindSeries:
				fmt.Fprintf(cmd.OutOrStdout(), "series: %s (%d)  tmdb id %d\n",
					identity.Series.DisplayName(), identity.Series.Year(), identity.Series.ID)
			default:
				fmt.Fprintln(cmd.OutOrStdout(), "no confident match")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "TMDB language, e.g. en-US")
	cmd.Flags().BoolVar(&debugMatch, "debug-match", false, "Print scored candidate tables")
	cmd.Flags().StringVar(&forceShow, "force-show", "", "Override the show name used for matching")
	cmd.Flags().IntVar(&forceYear, "force-year", 0, "Override the show's first-air year")

	return cmd
}

func printMovieScores(cmd *cobra.Command, scored []match.ScoredMovie) {
	if len(scored) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no movie candidates")
		return
	}
	rows := make([][]string, 0, len(scored))
	for _, s := range scored {
		rows = append(rows, []string{
			s.Movie.DisplayTitle(),
			yearCell(s.Movie.Year()),
			fmt.Sprintf("%.1f", s.Movie.Popularity),
			fmt.Sprintf("%.3f", s.Score),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Movie", "Year", "Popularity", "Score"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	))
}

func printSeriesScores(cmd *cobra.Command, scored []match.ScoredSeries) {
	if len(scored) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no series candidates")
		return
	}
	rows := make([][]string, 0, len(scored))
	for _, s := range scored {
		rows = append(rows, []string{
			s.Series.DisplayName(),
			yearCell(s.Series.Year()),
			fmt.Sprintf("%.1f", s.Series.Popularity),
			fmt.Sprintf("%.3f", s.Score),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Series", "Year", "Popularity", "Score"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	))
}

func yearCell(year int) string {
	if year == 0 {
		return "-"
	}
	return strconv.Itoa(year)
}
