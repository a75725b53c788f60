package workflow_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelsort/internal/config"
	"reelsort/internal/journal"
	"reelsort/internal/tmdb"
	"reelsort/internal/workflow"
)

type fakeCatalog struct {
	movies   map[string][]tmdb.Movie
	tv       map[string][]tmdb.Series
	episodes map[string]*tmdb.Episode
	seasons  map[int]*tmdb.SeasonDetails
	videos   []tmdb.Video
}

func (f *fakeCatalog) SearchMovie(_ context.Context, query string, year int) ([]tmdb.Movie, error) {
	return f.movies[query], nil
}

func (f *fakeCatalog) SearchTV(_ context.Context, query string, year int) ([]tmdb.Series, error) {
	return f.tv[query], nil
}

func (f *fakeCatalog) GetEpisode(_ context.Context, seriesID int64, season, episode int) (*tmdb.Episode, error) {
	key := episodeKey(season, episode)
	if ep, ok := f.episodes[key]; ok {
		return ep, nil
	}
	return nil, &tmdb.StatusError{Code: 404, Path: key}
}

func (f *fakeCatalog) GetSeasonDetails(_ context.Context, seriesID int64, season int) (*tmdb.SeasonDetails, error) {
	if det, ok := f.seasons[season]; ok {
		return det, nil
	}
	return nil, &tmdb.StatusError{Code: 404, Path: "season"}
}

func (f *fakeCatalog) MovieVideos(context.Context, int64) ([]tmdb.Video, error) { return f.videos, nil }

func (f *fakeCatalog) TVVideos(context.Context, int64) ([]tmdb.Video, error) { return f.videos, nil }

func (f *fakeCatalog) PosterURL(_ context.Context, posterPath, _ string) (string, error) {
	return "https://img.example/w500" + posterPath, nil
}

func (f *fakeCatalog) Language() string { return "en-US" }

func episodeKey(season, episode int) string {
	return fmt.Sprintf("%dx%d", season, episode)
}

type recordingFetcher struct {
	calls []string
}

func (r *recordingFetcher) Fetch(_ context.Context, url, basePath string) error {
	r.calls = append(r.calls, url+" -> "+basePath)
	return nil
}

func writeVideo(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("video"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.TMDB.APIKey = "test"
	return &cfg
}

func newJournal(t *testing.T) *journal.Journal {
	t.Helper()
	j, err := journal.New(filepath.Join(t.TempDir(), "journal.jsonl"), false)
	if err != nil {
		t.Fatal(err)
	}
	return j
}

func TestRunMoviesRenamesIntoTemplate(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Heat.1995.1080p.BluRay.x264-GRP.mkv")
	writeVideo(t, src)
	writeVideo(t, filepath.Join(dir, "Heat.1995.1080p.BluRay.x264-GRP.en.srt"))

	catalog := &fakeCatalog{movies: map[string][]tmdb.Movie{
		"Heat": {{ID: 949, Title: "Heat", ReleaseDate: "1995-12-15", Popularity: 60}},
	}}
	runner := workflow.NewRunner(testConfig(), catalog, nil, newJournal(t), nil, workflow.Options{})

	summary, err := runner.RunMovies(context.Background(), dir)
	if err != nil {
		t.Fatalf("RunMovies returned error: %v", err)
	}
	if summary.Processed != 1 {
		t.Fatalf("expected 1 processed, got %+v", summary)
	}
	dest := filepath.Join(dir, "Heat (1995)", "Heat (1995).mkv")
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("expected %s: %v", dest, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Heat (1995)", "Heat (1995).en.srt")); err != nil {
		t.Fatalf("sidecar missing: %v", err)
	}
}

func TestRunMoviesUnmatchedFileStaysPut(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Obscure.Home.Recording.mkv")
	writeVideo(t, src)

	runner := workflow.NewRunner(testConfig(), &fakeCatalog{}, nil, newJournal(t), nil, workflow.Options{})
	summary, err := runner.RunMovies(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Unmatched != 1 || summary.Processed != 0 {
		t.Fatalf("expected 1 unmatched, got %+v", summary)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatal("unmatched file must not move")
	}
}

func TestRunMoviesDryRunMovesNothing(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Heat.1995.mkv")
	writeVideo(t, src)

	catalog := &fakeCatalog{movies: map[string][]tmdb.Movie{
		"Heat": {{ID: 949, Title: "Heat", ReleaseDate: "1995-12-15", Popularity: 60}},
	}}
	runner := workflow.NewRunner(testConfig(), catalog, nil, newJournal(t), nil, workflow.Options{DryRun: true})

	summary, err := runner.RunMovies(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Processed != 1 {
		t.Fatalf("dry-run still counts the file, got %+v", summary)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatal("dry-run must leave the source untouched")
	}
}

func TestRunMoviesCleansAndPrunes(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "Heat.1995.1080p")
	writeVideo(t, filepath.Join(sub, "Heat.1995.mkv"))
	writeVideo(t, filepath.Join(sub, "RARBG.txt"))
	empty := filepath.Join(dir, "Leftover.Release")
	if err := os.MkdirAll(empty, 0o755); err != nil {
		t.Fatal(err)
	}

	catalog := &fakeCatalog{movies: map[string][]tmdb.Movie{
		"Heat": {{ID: 949, Title: "Heat", ReleaseDate: "1995-12-15", Popularity: 60}},
	}}
	runner := workflow.NewRunner(testConfig(), catalog, nil, newJournal(t), nil, workflow.Options{
		Clean: true,
		Prune: true,
	})

	summary, err := runner.RunMovies(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Cleaned != 1 {
		t.Fatalf("expected clutter removal, got %+v", summary)
	}
	if summary.Pruned != 1 {
		t.Fatalf("expected leftover dir pruned, got %+v", summary)
	}
	if _, err := os.Stat(empty); !os.IsNotExist(err) {
		t.Fatal("empty leftover directory must be pruned")
	}
}

func TestRunSeriesFlatLayout(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "The.Wire.S02E05.720p.mkv")
	writeVideo(t, src)

	catalog := &fakeCatalog{
		tv: map[string][]tmdb.Series{
			"The Wire": {{ID: 1438, Name: "The Wire", FirstAirDate: "2002-06-02", Popularity: 40}},
		},
		episodes: map[string]*tmdb.Episode{
			episodeKey(2, 5): {Name: "Undertow", SeasonNumber: 2, EpisodeNumber: 5},
		},
	}
	runner := workflow.NewRunner(testConfig(), catalog, nil, newJournal(t), nil, workflow.Options{})

	summary, err := runner.RunSeries(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Processed != 1 {
		t.Fatalf("expected 1 processed, got %+v", summary)
	}
	dest := filepath.Join(dir, "The Wire (2002) - S02E05 - Undertow.mkv")
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("expected %s: %v", dest, err)
	}
}

func TestRunSeriesFoldersLayout(t *testing.T) {
	dir := t.TempDir()
	writeVideo(t, filepath.Join(dir, "The.Wire.S02E05.mkv"))

	catalog := &fakeCatalog{
		tv: map[string][]tmdb.Series{
			"The Wire": {{ID: 1438, Name: "The Wire", FirstAirDate: "2002-06-02", Popularity: 40}},
		},
	}
	runner := workflow.NewRunner(testConfig(), catalog, nil, newJournal(t), nil, workflow.Options{
		Layout: "folders",
	})

	if _, err := runner.RunSeries(context.Background(), dir); err != nil {
		t.Fatal(err)
	}
	// Episode title lookup 404s, so the fallback name is used.
	dest := filepath.Join(dir,
		"The Wire (2002)",
		"The Wire (2002) - Season 02",
		"The Wire (2002) - S02E05 - Episode 5.mkv")
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("expected %s: %v", dest, err)
	}
}

func TestRunSeriesSkipsFilesWithoutEpisodeTag(t *testing.T) {
	dir := t.TempDir()
	writeVideo(t, filepath.Join(dir, "Some.Movie.2020.mkv"))

	runner := workflow.NewRunner(testConfig(), &fakeCatalog{}, nil, newJournal(t), nil, workflow.Options{})
	summary, err := runner.RunSeries(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Skipped != 1 {
		t.Fatalf("expected 1 skipped, got %+v", summary)
	}
}

func TestRunMoviesDownloadsTrailerWhenEnabled(t *testing.T) {
	dir := t.TempDir()
	writeVideo(t, filepath.Join(dir, "Heat.1995.mkv"))

	catalog := &fakeCatalog{
		movies: map[string][]tmdb.Movie{
			"Heat": {{ID: 949, Title: "Heat", ReleaseDate: "1995-12-15", Popularity: 60}},
		},
		videos: []tmdb.Video{{
			Site: "YouTube", Key: "abc123", Name: "Official Trailer",
			Type: "Trailer", Official: true, Size: 1080, Language: "en",
		}},
	}
	fetcher := &recordingFetcher{}
	runner := workflow.NewRunner(testConfig(), catalog, fetcher, newJournal(t), nil, workflow.Options{
		Trailer: true,
	})

	if _, err := runner.RunMovies(context.Background(), dir); err != nil {
		t.Fatal(err)
	}
	if len(fetcher.calls) != 1 {
		t.Fatalf("expected 1 trailer fetch, got %v", fetcher.calls)
	}
	call := fetcher.calls[0]
	if !strings.Contains(call, "watch?v=abc123") {
		t.Fatalf("unexpected trailer url in %q", call)
	}
	if !strings.HasSuffix(call, filepath.Join(dir, "Heat (1995)", "Heat (1995)")) {
		t.Fatalf("trailer base must sit in the destination dir, got %q", call)
	}
}

func TestRunSingleFileRoot(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Heat.1995.mkv")
	writeVideo(t, src)

	catalog := &fakeCatalog{movies: map[string][]tmdb.Movie{
		"Heat": {{ID: 949, Title: "Heat", ReleaseDate: "1995-12-15", Popularity: 60}},
	}}
	runner := workflow.NewRunner(testConfig(), catalog, nil, newJournal(t), nil, workflow.Options{})

	summary, err := runner.RunMovies(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Processed != 1 {
		t.Fatalf("expected single file processed, got %+v", summary)
	}
}

func TestRunNonVideoSingleFileFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	runner := workflow.NewRunner(testConfig(), &fakeCatalog{}, nil, newJournal(t), nil, workflow.Options{})
	if _, err := runner.RunMovies(context.Background(), path); err == nil {
		t.Fatal("expected error for unsupported file")
	}
}
