package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInputSkip marks files the pipeline declines to process (unsupported
	// extension, missing episode tag).
	ErrInputSkip = errors.New("input skipped")
	// ErrNoMatch marks lookups where no candidate cleared the confidence gate.
	ErrNoMatch = errors.New("no confident match")
	// ErrCatalog marks metadata service failures after retries are exhausted.
	ErrCatalog = errors.New("catalog error")
	// ErrFilesystem marks move/cleanup failures (permissions, locks, disk full).
	ErrFilesystem = errors.New("filesystem error")
	// ErrConfiguration marks invalid or missing configuration; the only class
	// that aborts an entire run.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrCatalog
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether an error should abort the whole run rather than just
// the current file. Only configuration failures qualify; every per-file error
// class is contained to that file.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
