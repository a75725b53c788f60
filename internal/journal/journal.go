package journal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"reelsort/internal/services"
)

// Event types recorded by the journal.
const (
	EventRenameMovie   = "rename.movie"
	EventRenameEpisode = "rename.episode"
	EventSidecar       = "sidecar.moved"
	EventPoster        = "poster.downloaded"
	EventSeasonPoster  = "poster.season"
	EventTrailer       = "trailer.downloaded"
	EventClean         = "clean.removed"
	EventPrune         = "prune.removed"
	EventSkip          = "skip"
)

// Entry is one journal line. Source/Target describe filesystem effects; Title
// and the episode fields carry the resolved identity where one exists.
type Entry struct {
	Timestamp string `json:"ts"`
	Run       string `json:"run"`
	Event     string `json:"event"`
	Source    string `json:"source,omitempty"`
	Target    string `json:"target,omitempty"`
	Title     string `json:"title,omitempty"`
	Year      int    `json:"year,omitempty"`
	Season    int    `json:"season,omitempty"`
	Episode   int    `json:"episode,omitempty"`
	Reason    string `json:"reason,omitempty"`
	DryRun    bool   `json:"dry_run,omitempty"`
}

// Journal appends one JSON line per recorded action. Each write opens the
// file in append mode and closes it again, so a crash mid-run loses at most
// the line being written and concurrent processes interleave whole lines.
type Journal struct {
	mu     sync.Mutex
	path   string
	runID  string
	dryRun bool
}

// New creates a journal writing to path. Every entry carries the same
// generated run id so one invocation's actions group together.
func New(path string, dryRun bool) (*Journal, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "journal", "open", "journal path must not be empty", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "journal", "open", "failed to create journal directory", err)
	}
	return &Journal{path: path, runID: uuid.NewString(), dryRun: dryRun}, nil
}

// RunID returns this invocation's identifier.
func (j *Journal) RunID() string { return j.runID }

// Record appends one entry. The timestamp and run id are filled in here.
func (j *Journal) Record(entry Entry) error {
	entry.Timestamp = time.Now().UTC().Format(time.RFC3339)
	entry.Run = j.runID
	entry.DryRun = j.dryRun

	line, err := json.Marshal(entry)
	if err != nil {
		return services.Wrap(services.ErrFilesystem, "journal", "encode", "failed to encode journal entry", err)
	}
	line = append(line, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return services.Wrap(services.ErrFilesystem, "journal", "append", "failed to open journal", err)
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return services.Wrap(services.ErrFilesystem, "journal", "append", "failed to append journal entry", err)
	}
	if err := f.Close(); err != nil {
		return services.Wrap(services.ErrFilesystem, "journal", "append", "failed to flush journal entry", err)
	}
	return nil
}
