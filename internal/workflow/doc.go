// Package workflow drives the per-file pipeline: discover video files under
// a root, resolve each against the catalog, render the destination path,
// move the file with its subtitle sidecars, then optionally fetch artwork
// and a trailer. Files are processed one at a time; a file's failure is
// contained and counted unless it signals a configuration fault, which
// aborts the run. Cleanup of release clutter and empty directories happens
// once at the end over the directories a successful rename touched.
package workflow
