// Package trailer selects the best promotional video for a title and
// downloads it alongside the media file.
//
// Selection scores each catalog video entry on type, official status, site,
// resolution, name, and language fit against the configured locale; a stable
// hash of the publish timestamp breaks exact ties. Download goes through
// yt-dlp with merged best video+audio and embedded metadata, retrying once
// with the android player client when YouTube withholds regular formats.
package trailer
