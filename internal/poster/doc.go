// Package poster downloads catalog artwork next to organized media, named
// after the containing directory so library scanners attribute it correctly.
// Downloads are validated by content type and a minimum size, written via a
// temp file, and skipped entirely when artwork already exists.
package poster
