// Package organize performs the filesystem half of a run: collision-safe
// moves into the library, sidecar subtitle relocation, clutter cleanup, and
// empty directory pruning.
//
// Moves rename in place and fall back to a hash-verified copy when the
// library sits on another filesystem. Name collisions resolve by appending a
// numeric suffix before the extension, and an advisory lock on the source
// root keeps concurrent runs from racing the collision probe. All mutation
// respects dry-run.
package organize
