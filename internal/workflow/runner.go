package workflow

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"reelsort/internal/config"
	"reelsort/internal/journal"
	"reelsort/internal/logging"
	"reelsort/internal/match"
	"reelsort/internal/organize"
	"reelsort/internal/parse"
	"reelsort/internal/poster"
	"reelsort/internal/render"
	"reelsort/internal/services"
	"reelsort/internal/tmdb"
	"reelsort/internal/trailer"
)

// Catalog is the metadata surface the pipeline needs. *tmdb.Client satisfies
// it.
type Catalog interface {
	match.Searcher
	GetEpisode(ctx context.Context, seriesID int64, season, episode int) (*tmdb.Episode, error)
	GetSeasonDetails(ctx context.Context, seriesID int64, season int) (*tmdb.SeasonDetails, error)
	MovieVideos(ctx context.Context, movieID int64) ([]tmdb.Video, error)
	TVVideos(ctx context.Context, seriesID int64) ([]tmdb.Video, error)
	PosterURL(ctx context.Context, posterPath, size string) (string, error)
	Language() string
}

// Options carries the per-run switches assembled from config and CLI flags.
type Options struct {
	DryRun        bool
	Cover         bool
	SeasonPosters bool
	Trailer       bool
	Clean         bool
	Prune         bool
	Lock          bool

	// Layout selects the series template when SeriesFormat is empty:
	// "flat" or "folders".
	Layout string
	// MovieFormat / SeriesFormat override the configured templates.
	MovieFormat  string
	SeriesFormat string

	ForceShow string
	ForceYear int
}

// Summary counts per-file outcomes of one run.
type Summary struct {
	Processed int
	Unmatched int
	Skipped   int
	Failed    int
	Cleaned   int
	Pruned    int
}

// Runner drives the per-file pipeline over a file or directory root. Files
// are processed strictly sequentially; one file's failure never aborts the
// run unless the error is a configuration fault.
type Runner struct {
	cfg      *config.Config
	catalog  Catalog
	resolver *match.Resolver
	mover    *organize.Mover
	posters  *poster.Downloader
	fetcher  trailer.Fetcher
	journal  *journal.Journal
	logger   *slog.Logger
	opts     Options
}

// NewRunner assembles a pipeline. fetcher may be nil when trailers are off.
func NewRunner(cfg *config.Config, catalog Catalog, fetcher trailer.Fetcher, jnl *journal.Journal, logger *slog.Logger, opts Options) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	movieWeights := match.MovieWeights()
	if cfg.Match.MovieGate > 0 {
		movieWeights.Gate = cfg.Match.MovieGate
	}
	seriesWeights := match.SeriesWeights()
	if cfg.Match.SeriesGate > 0 {
		seriesWeights.Gate = cfg.Match.SeriesGate
	}
	return &Runner{
		cfg:      cfg,
		catalog:  catalog,
		resolver: match.NewResolver(catalog, movieWeights, seriesWeights, logger),
		mover:    organize.NewMover(opts.DryRun, logger),
		posters:  poster.NewDownloader(catalog, opts.DryRun, logger),
		fetcher:  fetcher,
		journal:  jnl,
		logger:   logger,
		opts:     opts,
	}
}

// RunMovies identifies and renames movie files under root.
func (r *Runner) RunMovies(ctx context.Context, root string) (Summary, error) {
	return r.run(ctx, root, r.processMovie)
}

// RunSeries identifies and renames episode files under root.
func (r *Runner) RunSeries(ctx context.Context, root string) (Summary, error) {
	return r.run(ctx, root, r.processEpisode)
}

type fileOutcome int

const (
	outcomeDone fileOutcome = iota
	outcomeUnmatched
	outcomeSkipped
)

func (r *Runner) run(ctx context.Context, root string, process func(context.Context, string) (fileOutcome, string, error)) (Summary, error) {
	var summary Summary

	files, rootDir, err := collectVideos(root)
	if err != nil {
		return summary, err
	}
	if len(files) == 0 {
		r.logger.Warn("no video files found", logging.String("root", root))
		return summary, nil
	}

	if r.opts.Lock && !r.opts.DryRun {
		lock, err := organize.AcquireLock(rootDir)
		if err != nil {
			return summary, err
		}
		defer lock.Release()
	}

	touched := map[string]struct{}{}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		outcome, sourceDir, err := process(ctx, file)
		switch {
		case err != nil && services.IsFatal(err):
			return summary, err
		case err != nil:
			summary.Failed++
			r.logger.Error("file failed", logging.String("file", file), logging.Error(err))
			r.record(journal.Entry{Event: journal.EventSkip, Source: file, Reason: err.Error()})
		case outcome == outcomeUnmatched:
			summary.Unmatched++
		case outcome == outcomeSkipped:
			summary.Skipped++
		default:
			summary.Processed++
			touched[sourceDir] = struct{}{}
		}
	}

	if r.opts.Clean && len(touched) > 0 {
		dirs := make([]string, 0, len(touched))
		for dir := range touched {
			dirs = append(dirs, dir)
		}
		sort.Strings(dirs)
		for _, path := range r.mover.CleanClutter(dirs) {
			summary.Cleaned++
			r.record(journal.Entry{Event: journal.EventClean, Source: path})
		}
	}
	if r.opts.Prune {
		pruned, err := r.mover.PruneEmptyDirs(rootDir)
		if err != nil {
			r.logger.Warn("prune failed", logging.Error(err))
		}
		for _, path := range pruned {
			summary.Pruned++
			r.record(journal.Entry{Event: journal.EventPrune, Source: path})
		}
	}

	r.logger.Info("run complete",
		logging.Int("processed", summary.Processed),
		logging.Int("unmatched", summary.Unmatched),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed))
	return summary, nil
}

// collectVideos expands root into the ordered list of video files plus the
// directory that cleanup operations scope to.
func collectVideos(root string) ([]string, string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, "", services.Wrap(services.ErrInputSkip, "discover", "stat root", "cannot access input path", err)
	}
	if !info.IsDir() {
		if !parse.IsVideo(root) {
			return nil, "", services.Wrap(services.ErrInputSkip, "discover", "check extension", "not a supported video file", nil)
		}
		return []string{root}, filepath.Dir(root), nil
	}
	var files []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && parse.IsVideo(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, "", services.Wrap(services.ErrFilesystem, "discover", "walk", "failed to walk input directory", err)
	}
	sort.Strings(files)
	return files, root, nil
}

func (r *Runner) processMovie(ctx context.Context, path string) (fileOutcome, string, error) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	titleGuess, yearGuess := parse.SplitStemYear(stem)
	r.logger.Info("identifying",
		logging.String("file", filepath.Base(path)),
		logging.String("guess", titleGuess),
		logging.Int("year", yearGuess))

	identity, err := r.resolver.ResolveMovie(ctx, titleGuess, yearGuess)
	if err != nil {
		return 0, "", services.Wrap(services.ErrCatalog, "identify", "search movie", "catalog lookup failed", err)
	}
	if identity.Kind != match.KindMovie {
		r.logger.Warn("no confident match, skipping", logging.String("file", filepath.Base(path)))
		r.record(journal.Entry{Event: journal.EventSkip, Source: path, Reason: "no confident movie match"})
		return outcomeUnmatched, "", nil
	}
	movie := identity.Movie

	title := movie.DisplayTitle()
	if title == "" {
		title = titleGuess
	}
	year := movie.Year()
	if year == 0 {
		year = yearGuess
	}

	dest, err := r.allocatePath(path, r.movieFormat(), render.Context{Name: title, Year: year})
	if err != nil {
		return 0, "", err
	}
	if err := r.mover.Move(path, dest); err != nil {
		return 0, "", err
	}
	r.record(journal.Entry{
		Event:  journal.EventRenameMovie,
		Source: path,
		Target: dest,
		Title:  title,
		Year:   year,
	})
	r.moveSidecars(path, dest)
	if r.opts.Cover {
		r.downloadPoster(ctx, movie.PosterPath, filepath.Dir(dest), false)
	}
	r.handleTrailer(ctx, dest, func() ([]tmdb.Video, error) {
		return r.catalog.MovieVideos(ctx, movie.ID)
	})
	return outcomeDone, filepath.Dir(path), nil
}

func (r *Runner) processEpisode(ctx context.Context, path string) (fileOutcome, string, error) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	season, episode, ok := parse.ParseEpisodeTag(stem)
	if !ok {
		r.logger.Warn("no episode tag, skipping", logging.String("file", filepath.Base(path)))
		r.record(journal.Entry{Event: journal.EventSkip, Source: path, Reason: "no episode tag"})
		return outcomeSkipped, "", nil
	}

	titleGuess, yearGuess := parse.SplitStemYear(stem)
	r.logger.Info("identifying",
		logging.String("file", filepath.Base(path)),
		logging.String("guess", titleGuess),
		logging.String("tag", render.Context{Season: season, Episode: episode}.SxxEyy()))

	identity, err := r.resolver.ResolveSeries(ctx, match.SeriesQuery{
		Path:      path,
		ForceShow: r.opts.ForceShow,
		ForceYear: r.opts.ForceYear,
	})
	if err != nil {
		return 0, "", services.Wrap(services.ErrCatalog, "identify", "search series", "catalog lookup failed", err)
	}
	if identity.Kind != match.KindSeries {
		r.logger.Warn("no confident match, skipping", logging.String("file", filepath.Base(path)))
		r.record(journal.Entry{Event: journal.EventSkip, Source: path, Reason: "no confident series match"})
		return outcomeUnmatched, "", nil
	}
	show := identity.Series

	showName := show.DisplayName()
	if showName == "" {
		showName = titleGuess
	}
	showYear := show.Year()
	if showYear == 0 {
		showYear = yearGuess
	}
	episodeTitle := r.episodeTitle(ctx, show.ID, season, episode)

	dest, err := r.allocatePath(path, r.seriesFormat(), render.Context{
		Name:         showName,
		Year:         showYear,
		Season:       season,
		Episode:      episode,
		EpisodeTitle: episodeTitle,
	})
	if err != nil {
		return 0, "", err
	}
	if err := r.mover.Move(path, dest); err != nil {
		return 0, "", err
	}
	r.record(journal.Entry{
		Event:   journal.EventRenameEpisode,
		Source:  path,
		Target:  dest,
		Title:   showName,
		Year:    showYear,
		Season:  season,
		Episode: episode,
	})
	r.moveSidecars(path, dest)
	if r.opts.Cover {
		r.downloadPoster(ctx, show.PosterPath, filepath.Dir(dest), false)
	}
	if r.opts.SeasonPosters {
		r.downloadSeasonPoster(ctx, show.ID, season, filepath.Dir(dest))
	}
	r.handleTrailer(ctx, dest, func() ([]tmdb.Video, error) {
		return r.catalog.TVVideos(ctx, show.ID)
	})
	return outcomeDone, filepath.Dir(path), nil
}

// allocatePath renders the destination relative to the file's own directory
// and resolves collisions. The extension is lowercased on the way through.
func (r *Runner) allocatePath(src, format string, ctx render.Context) (string, error) {
	components, err := render.Render(format, ctx)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "allocate", "render template", "invalid path template", err)
	}
	parts := append([]string{filepath.Dir(src)}, components...)
	dest := filepath.Join(parts...) + strings.ToLower(filepath.Ext(src))
	dest, err = organize.EnsureUniquePath(dest)
	if err != nil {
		return "", err
	}
	return dest, nil
}

func (r *Runner) moveSidecars(src, dest string) {
	moved, err := r.mover.MoveSidecars(src, dest)
	if err != nil {
		r.logger.Warn("sidecar move failed", logging.Error(err))
	}
	for _, target := range moved {
		r.record(journal.Entry{Event: journal.EventSidecar, Source: src, Target: target})
	}
}

func (r *Runner) episodeTitle(ctx context.Context, seriesID int64, season, episode int) string {
	ep, err := r.catalog.GetEpisode(ctx, seriesID, season, episode)
	if err != nil || ep == nil || strings.TrimSpace(ep.Name) == "" {
		if err != nil {
			r.logger.Warn("episode lookup failed",
				logging.Int("season", season),
				logging.Int("episode", episode),
				logging.Error(err))
		}
		return "Episode " + strconv.Itoa(episode)
	}
	return ep.Name
}

func (r *Runner) downloadPoster(ctx context.Context, posterPath, dir string, season bool) {
	target, err := r.posters.Download(ctx, posterPath, dir, season)
	if err != nil {
		r.logger.Warn("poster download failed", logging.Error(err))
		return
	}
	if target != "" {
		event := journal.EventPoster
		if season {
			event = journal.EventSeasonPoster
		}
		r.record(journal.Entry{Event: event, Target: target})
	}
}

func (r *Runner) downloadSeasonPoster(ctx context.Context, seriesID int64, season int, dir string) {
	details, err := r.catalog.GetSeasonDetails(ctx, seriesID, season)
	if err != nil {
		r.logger.Warn("season lookup failed", logging.Int("season", season), logging.Error(err))
		return
	}
	r.downloadPoster(ctx, details.PosterPath, dir, true)
}

// handleTrailer logs the best trailer and downloads it when enabled. Trailer
// trouble never fails the file.
func (r *Runner) handleTrailer(ctx context.Context, dest string, list func() ([]tmdb.Video, error)) {
	videos, err := list()
	if err != nil {
		r.logger.Warn("trailer lookup failed", logging.Error(err))
		return
	}
	best, ok := trailer.PickBest(videos, r.catalog.Language())
	if !ok {
		r.logger.Info("no trailer found")
		return
	}
	url := trailer.WatchURL(best)
	if url == "" {
		return
	}
	r.logger.Info("best trailer", logging.String("url", url))
	if !r.opts.Trailer || r.fetcher == nil {
		return
	}
	destDir := filepath.Dir(dest)
	base := filepath.Join(destDir, filepath.Base(destDir))
	if r.opts.DryRun {
		r.record(journal.Entry{Event: journal.EventTrailer, Target: base, Reason: url})
		return
	}
	if err := r.fetcher.Fetch(ctx, url, base); err != nil {
		r.logger.Warn("trailer download failed", logging.Error(err))
		return
	}
	r.record(journal.Entry{Event: journal.EventTrailer, Target: base, Reason: url})
}

func (r *Runner) movieFormat() string {
	if r.opts.MovieFormat != "" {
		return r.opts.MovieFormat
	}
	return r.cfg.Library.MovieFormat
}

func (r *Runner) seriesFormat() string {
	if r.opts.SeriesFormat != "" {
		return r.opts.SeriesFormat
	}
	if r.layout() == "folders" {
		return r.cfg.Library.SeriesFormatFolders
	}
	return r.cfg.Library.SeriesFormatFlat
}

func (r *Runner) layout() string {
	if r.opts.Layout != "" {
		return r.opts.Layout
	}
	return r.cfg.Library.Layout
}

func (r *Runner) record(entry journal.Entry) {
	if r.journal == nil {
		return
	}
	if err := r.journal.Record(entry); err != nil {
		r.logger.Warn("journal write failed", logging.Error(err))
	}
}
