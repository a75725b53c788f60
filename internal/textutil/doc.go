// Package textutil provides text processing utilities for filename
// sanitization and title similarity.
//
// The primary use cases are:
//   - Sanitizing path components for safe cross-platform filesystem use
//   - Computing token-set Jaccard similarity between titles
//
// Tokenization lowercases text, strips punctuation, and splits on whitespace.
// Sanitization targets the most restrictive supported filesystem, so sanitized
// components are legal everywhere the library can be mounted.
package textutil
