// Package render expands destination path templates into sanitized path
// components.
//
// Templates use brace placeholders ({n}, {y}, {ny}, {s}, {e}, {s00e00}, {t});
// slashes in the template, never in placeholder values, decide directory
// structure. Components are cleaned of artifacts from missing values and run
// through filesystem sanitization, so the output joins into a safe relative
// path on any platform.
package render
