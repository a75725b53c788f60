package journal_test

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"reelsort/internal/journal"
)

func readEntries(t *testing.T, path string) []journal.Entry {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var entries []journal.Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry journal.Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("invalid journal line %q: %v", scanner.Text(), err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestRecordAppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs", "journal.jsonl")
	j, err := journal.New(path, false)
	if err != nil {
		t.Fatal(err)
	}

	if err := j.Record(journal.Entry{
		Event:  journal.EventRenameMovie,
		Source: "/in/movie.mkv",
		Target: "/lib/Movie (1999)/Movie (1999).mkv",
		Title:  "Movie",
		Year:   1999,
	}); err != nil {
		t.Fatal(err)
	}
	if err := j.Record(journal.Entry{Event: journal.EventClean, Source: "/in/rarbg.txt"}); err != nil {
		t.Fatal(err)
	}

	entries := readEntries(t, path)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	first := entries[0]
	if first.Event != journal.EventRenameMovie || first.Year != 1999 {
		t.Fatalf("unexpected entry %+v", first)
	}
	if first.Timestamp == "" || first.Run == "" {
		t.Fatal("timestamp and run id must be stamped")
	}
	if entries[1].Run != first.Run {
		t.Fatal("entries of one invocation must share a run id")
	}
}

func TestSeparateJournalsGetDistinctRunIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	a, err := journal.New(path, false)
	if err != nil {
		t.Fatal(err)
	}
	b, err := journal.New(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if a.RunID() == b.RunID() {
		t.Fatal("run ids must differ between invocations")
	}
}

func TestDryRunFlagStamped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	j, err := journal.New(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := j.Record(journal.Entry{Event: journal.EventSkip, Reason: "no match"}); err != nil {
		t.Fatal(err)
	}
	entries := readEntries(t, path)
	if len(entries) != 1 || !entries[0].DryRun {
		t.Fatalf("dry-run flag must be stamped, got %+v", entries)
	}
}

func TestNewRejectsEmptyPath(t *testing.T) {
	if _, err := journal.New("   ", false); err == nil {
		t.Fatal("expected error for empty path")
	}
}
