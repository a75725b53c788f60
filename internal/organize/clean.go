package organize

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"reelsort/internal/logging"
	"reelsort/internal/services"
)

// clutterPatterns match release-group droppings by lowercased base name. The
// readme family is restricted to .txt so documents with other extensions
// survive.
var clutterPatterns = []string{
	"*.nfo",
	"*.sfv",
	"*.nzb",
	"*.torrent",
	"rarbg*.txt",
	"sample*",
	"readme*.txt",
	"thanks*.txt",
	"how to*.txt",
	"instructions*.txt",
	"verify*.txt",
	"serial*.txt",
	"keygen*.txt",
}

// sampleDirPattern matches directory names carrying the word "sample".
var sampleDirPattern = regexp.MustCompile(`(?i)\bsample\b`)

// IsClutterFile reports whether a base name matches a known clutter pattern.
func IsClutterFile(name string) bool {
	lower := strings.ToLower(name)
	for _, pattern := range clutterPatterns {
		if ok, _ := filepath.Match(pattern, lower); ok {
			return true
		}
	}
	return false
}

// CleanClutter removes clutter files and sample directories from each given
// directory, non-recursively. Returns the paths removed (or that would be
// removed under dry-run). Unremovable entries are logged and skipped; cleanup
// never fails a run.
func (m *Mover) CleanClutter(dirs []string) []string {
	var removed []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			m.logger.Warn("cannot scan directory for cleanup",
				logging.String("dir", dir), logging.Error(err))
			continue
		}
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				if !sampleDirPattern.MatchString(entry.Name()) {
					continue
				}
				if m.DryRun {
					m.logger.Info("dry-run: would remove directory", logging.String("path", path))
					removed = append(removed, path)
					continue
				}
				if err := os.RemoveAll(path); err != nil {
					m.logger.Warn("failed to remove sample directory",
						logging.String("path", path), logging.Error(err))
					continue
				}
				removed = append(removed, path)
				continue
			}
			if !IsClutterFile(entry.Name()) {
				continue
			}
			if m.DryRun {
				m.logger.Info("dry-run: would remove file", logging.String("path", path))
				removed = append(removed, path)
				continue
			}
			if err := os.Remove(path); err != nil {
				m.logger.Warn("failed to remove clutter file",
					logging.String("path", path), logging.Error(err))
				continue
			}
			removed = append(removed, path)
		}
	}
	return removed
}

// PruneEmptyDirs removes directories under root that became empty, walking
// bottom-up so nested empty trees collapse in one pass. root itself is never
// removed. Returns the removed directories.
func (m *Mover) PruneEmptyDirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "organizing", "prune", "failed to walk source tree", err)
	}

	var removed []string
	for i := len(dirs) - 1; i >= 0; i-- {
		dir := dirs[i]
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			continue
		}
		if m.DryRun {
			m.logger.Info("dry-run: would prune empty directory", logging.String("path", dir))
			removed = append(removed, dir)
			continue
		}
		if err := os.Remove(dir); err != nil {
			m.logger.Warn("failed to prune directory",
				logging.String("path", dir), logging.Error(err))
			continue
		}
		removed = append(removed, dir)
	}
	return removed, nil
}
