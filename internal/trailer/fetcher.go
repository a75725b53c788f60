package trailer

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"reelsort/internal/logging"
	"reelsort/internal/services"
)

// Fetcher downloads a trailer next to the media file it belongs to.
type Fetcher interface {
	// Fetch downloads url to "<basePath> - trailer.<ext>", extension chosen
	// by the downloader.
	Fetch(ctx context.Context, url, basePath string) error
}

// CommandFetcher shells out to yt-dlp. When the first attempt fails with
// symptoms of YouTube's SABR streaming experiments, a second attempt forces
// the android player client, which still serves conventional formats; Strict
// disables that retry.
type CommandFetcher struct {
	Binary string
	Strict bool

	logger *slog.Logger
	runner func(ctx context.Context, name string, args []string) ([]byte, error)
}

// NewCommandFetcher builds a fetcher around the given yt-dlp binary.
func NewCommandFetcher(binary string, strict bool, logger *slog.Logger) *CommandFetcher {
	if binary == "" {
		binary = "yt-dlp"
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &CommandFetcher{
		Binary: binary,
		Strict: strict,
		logger: logger,
		runner: runCommand,
	}
}

func runCommand(ctx context.Context, name string, args []string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// sabrMarkers are output fragments that indicate the failure came from
// YouTube withholding conventional formats rather than from the video itself.
var sabrMarkers = []string{
	"sabr",
	"requested format is not available",
	"only images are available",
	"missing a url",
}

func (f *CommandFetcher) Fetch(ctx context.Context, url, basePath string) error {
	if strings.TrimSpace(url) == "" {
		return services.Wrap(services.ErrInputSkip, "trailer", "fetch", "no trailer url", nil)
	}
	args := f.arguments(url, basePath, false)
	output, err := f.runner(ctx, f.Binary, args)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if f.Strict || !looksLikeSABR(output) {
		return services.Wrap(services.ErrFilesystem, "trailer", "fetch",
			fmt.Sprintf("%s failed: %s", f.Binary, firstLine(output)), err)
	}

	f.logger.Warn("trailer download blocked, retrying with android client",
		logging.String("url", url))
	output, err = f.runner(ctx, f.Binary, f.arguments(url, basePath, true))
	if err != nil {
		return services.Wrap(services.ErrFilesystem, "trailer", "fetch",
			fmt.Sprintf("%s retry failed: %s", f.Binary, firstLine(output)), err)
	}
	return nil
}

func (f *CommandFetcher) arguments(url, basePath string, androidClient bool) []string {
	args := []string{
		"-f", "bv*+ba/best",
		"--merge-output-format", "mp4",
		"--embed-metadata",
		"--embed-thumbnail",
		"-o", basePath + " - trailer.%(ext)s",
	}
	if androidClient {
		args = append(args, "--extractor-args", "youtube:player_client=android")
	}
	return append(args, url)
}

func looksLikeSABR(output []byte) bool {
	lower := strings.ToLower(string(output))
	for _, marker := range sabrMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func firstLine(output []byte) string {
	text := strings.TrimSpace(string(output))
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}
	if len(text) > 200 {
		text = text[:200]
	}
	if text == "" {
		text = "no output"
	}
	return text
}
