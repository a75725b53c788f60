// Package logging builds the slog loggers used across the pipeline.
//
// Two formats are supported: a compact console handler for interactive runs
// (color only when every sink is a terminal) and a JSON handler for log files
// and scripting. Typed attribute helpers keep call sites consistent, and
// NewNop provides a silent logger for tests.
package logging
