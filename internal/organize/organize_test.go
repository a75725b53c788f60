package organize_test

import (
	"os"
	"path/filepath"
	"testing"

	"reelsort/internal/organize"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestEnsureUniquePathFreeTarget(t *testing.T) {
	target := filepath.Join(t.TempDir(), "Movie (1999).mkv")
	got, err := organize.EnsureUniquePath(target)
	if err != nil {
		t.Fatal(err)
	}
	if got != target {
		t.Fatalf("free target must pass through, got %q", got)
	}
}

func TestEnsureUniquePathAppendsCounter(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "Movie (1999).mkv")
	writeFile(t, target, "a")
	writeFile(t, filepath.Join(dir, "Movie (1999) (2).mkv"), "b")

	got, err := organize.EnsureUniquePath(target)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got) != "Movie (1999) (3).mkv" {
		t.Fatalf("expected counter 3, got %q", got)
	}
}

func TestMoveCreatesParentsAndMoves(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in", "movie.mkv")
	dst := filepath.Join(dir, "library", "Movie (1999)", "Movie (1999).mkv")
	writeFile(t, src, "content")

	if err := organize.NewMover(false, nil).Move(src, dst); err != nil {
		t.Fatalf("Move returned error: %v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("target missing: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatal("source must be gone after move")
	}
}

func TestMoveDryRunTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "movie.mkv")
	dst := filepath.Join(dir, "out", "movie.mkv")
	writeFile(t, src, "content")

	if err := organize.NewMover(true, nil).Move(src, dst); err != nil {
		t.Fatalf("Move returned error: %v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatal("dry-run must leave the source in place")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatal("dry-run must not create the target")
	}
}

func TestMoveSidecarsPreservesSuffix(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in", "Movie.1999.mkv")
	writeFile(t, src, "video")
	writeFile(t, filepath.Join(dir, "in", "Movie.1999.en.srt"), "subs")
	writeFile(t, filepath.Join(dir, "in", "Movie.1999.srt"), "subs")
	writeFile(t, filepath.Join(dir, "in", "Other.srt"), "unrelated")

	dst := filepath.Join(dir, "lib", "Movie (1999).mkv")
	moved, err := organize.NewMover(false, nil).MoveSidecars(src, dst)
	if err != nil {
		t.Fatalf("MoveSidecars returned error: %v", err)
	}
	if len(moved) != 2 {
		t.Fatalf("expected 2 sidecars, got %v", moved)
	}
	for _, want := range []string{"Movie (1999).en.srt", "Movie (1999).srt"} {
		if _, err := os.Stat(filepath.Join(dir, "lib", want)); err != nil {
			t.Errorf("expected sidecar %q: %v", want, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "in", "Other.srt")); err != nil {
		t.Error("unrelated subtitle must stay behind")
	}
}

func TestCleanClutterRemovesKnownPatterns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "RARBG.txt"), "x")
	writeFile(t, filepath.Join(dir, "movie.nfo"), "x")
	writeFile(t, filepath.Join(dir, "keep.srt"), "x")
	writeFile(t, filepath.Join(dir, "Sample", "sample.mkv"), "x")
	writeFile(t, filepath.Join(dir, "Extras", "extra.mkv"), "x")

	removed := organize.NewMover(false, nil).CleanClutter([]string{dir})
	if len(removed) != 3 {
		t.Fatalf("expected 3 removals, got %v", removed)
	}
	if _, err := os.Stat(filepath.Join(dir, "keep.srt")); err != nil {
		t.Error("subtitle must survive cleanup")
	}
	if _, err := os.Stat(filepath.Join(dir, "Extras")); err != nil {
		t.Error("non-sample directory must survive cleanup")
	}
	if _, err := os.Stat(filepath.Join(dir, "Sample")); !os.IsNotExist(err) {
		t.Error("sample directory must be removed")
	}
}

func TestCleanClutterRestrictsReadmeFamilyToText(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "readme.txt"), "x")
	writeFile(t, filepath.Join(dir, "README.docx"), "x")

	removed := organize.NewMover(false, nil).CleanClutter([]string{dir})
	if len(removed) != 1 {
		t.Fatalf("expected only the text readme removed, got %v", removed)
	}
	if _, err := os.Stat(filepath.Join(dir, "README.docx")); err != nil {
		t.Error("non-text readme must survive cleanup")
	}
}

func TestPruneEmptyDirs(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "a", "b", "c"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, "keep", "file.mkv"), "x")

	removed, err := organize.NewMover(false, nil).PruneEmptyDirs(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(removed) != 3 {
		t.Fatalf("expected nested empty tree removed, got %v", removed)
	}
	if _, err := os.Stat(filepath.Join(root, "a")); !os.IsNotExist(err) {
		t.Error("empty tree must collapse")
	}
	if _, err := os.Stat(filepath.Join(root, "keep")); err != nil {
		t.Error("occupied directory must survive")
	}
	if _, err := os.Stat(root); err != nil {
		t.Error("root itself must never be pruned")
	}
}

func TestAcquireLockExcludesSecondRun(t *testing.T) {
	root := t.TempDir()
	lock, err := organize.AcquireLock(root)
	if err != nil {
		t.Fatalf("first lock failed: %v", err)
	}
	defer lock.Release()

	if _, err := organize.AcquireLock(root); err == nil {
		t.Fatal("second lock on the same root must fail")
	}

	lock.Release()
	relock, err := organize.AcquireLock(root)
	if err != nil {
		t.Fatalf("lock must be reacquirable after release: %v", err)
	}
	relock.Release()
}
