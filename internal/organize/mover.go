package organize

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"reelsort/internal/logging"
	"reelsort/internal/parse"
	"reelsort/internal/services"
)

// Mover executes library moves. With DryRun set, every operation logs what it
// would do and touches nothing.
type Mover struct {
	DryRun bool
	logger *slog.Logger
}

// NewMover builds a mover.
func NewMover(dryRun bool, logger *slog.Logger) *Mover {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Mover{DryRun: dryRun, logger: logger}
}

// EnsureUniquePath returns target unchanged when nothing occupies it,
// otherwise the first free " (2)", " (3)", ... variant with the counter
// inserted before the extension.
func EnsureUniquePath(target string) (string, error) {
	if _, err := os.Lstat(target); errors.Is(err, os.ErrNotExist) {
		return target, nil
	} else if err != nil {
		return "", services.Wrap(services.ErrFilesystem, "organizing", "probe target", "failed to stat target path", err)
	}
	ext := filepath.Ext(target)
	stem := strings.TrimSuffix(target, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, n, ext)
		if _, err := os.Lstat(candidate); errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		} else if err != nil {
			return "", services.Wrap(services.ErrFilesystem, "organizing", "probe target", "failed to stat target path", err)
		}
	}
}

// Move relocates src to dst, creating parent directories as needed. A rename
// across filesystems falls back to a verified copy followed by source
// removal. dst must already be collision-free; use EnsureUniquePath first.
func (m *Mover) Move(src, dst string) error {
	if m.DryRun {
		m.logger.Info("dry-run: would move",
			logging.String("source", src),
			logging.String("target", dst))
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return services.Wrap(services.ErrFilesystem, "organizing", "create directories", "failed to create target directory", err)
	}
	if err := os.Rename(src, dst); err != nil {
		var linkErr *os.LinkError
		if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
			return services.Wrap(services.ErrFilesystem, "organizing", "move file", "failed to move file into library", err)
		}
		if copyErr := copyFile(src, dst); copyErr != nil {
			return services.Wrap(services.ErrFilesystem, "organizing", "copy file", "cross-device copy failed", copyErr)
		}
		if removeErr := os.Remove(src); removeErr != nil {
			return services.Wrap(services.ErrFilesystem, "organizing", "remove source", "copied file but failed to remove source", removeErr)
		}
	}
	m.logger.Info("moved",
		logging.String("source", src),
		logging.String("target", dst))
	return nil
}

// MoveSidecars relocates subtitle files that share src's stem, preserving
// each sidecar's suffix ("<stem>.en.srt" keeps ".en.srt"). Returns the moved
// target paths.
func (m *Mover) MoveSidecars(src, dst string) ([]string, error) {
	srcDir := filepath.Dir(src)
	srcStem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	dstStem := strings.TrimSuffix(dst, filepath.Ext(dst))

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "organizing", "scan sidecars", "failed to read source directory", err)
	}

	var moved []string
	for _, entry := range entries {
		if entry.IsDir() || !parse.IsSubtitle(entry.Name()) {
			continue
		}
		name := entry.Name()
		if len(name) <= len(srcStem) || !strings.EqualFold(name[:len(srcStem)], srcStem) {
			continue
		}
		suffix := name[len(srcStem):]
		target := dstStem + suffix
		if !m.DryRun {
			if target, err = EnsureUniquePath(target); err != nil {
				return moved, err
			}
		}
		if err := m.Move(filepath.Join(srcDir, name), target); err != nil {
			return moved, err
		}
		moved = append(moved, target)
	}
	return moved, nil
}

// copyFile copies src to dst, verifying size and content hash so a silent
// cross-device corruption never lets the source get deleted.
func copyFile(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(out, dstHasher), io.TeeReader(in, srcHasher))
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if written != srcInfo.Size() {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written)
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}
	return nil
}
