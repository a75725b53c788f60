// Package journal records every filesystem action as one JSON line in an
// append-only file, tagged with a per-invocation run id. The journal is the
// audit trail for undoing or reviewing a run; nothing in the tool reads it
// back.
package journal
