// Package model provides the data structures exchanged between the catalog
// client, the download pipeline, and the archive step: albums, media items,
// and the naming rules that turn them into filesystem paths.
package model

import (
	"strings"
	"unicode"
)

// downloadSuffix requests the download rendition of a media item. The remote
// service treats this as best effort; video items in particular may not come
// back at original quality.
const downloadSuffix = "=d"

// Album is one remote album. Identity is the ID; Title is display-only and
// must pass through SafeTitle before use as a path component.
type Album struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// SafeTitle returns the album title reduced to a filesystem-safe form:
// letters, digits, spaces, underscores and hyphens are kept, everything else
// is dropped, and trailing spaces are trimmed. An album whose title is empty
// after sanitization falls back to "Album_<id>".
func (a Album) SafeTitle() string {
	var b strings.Builder
	for _, r := range a.Title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	safe := strings.TrimRight(b.String(), " ")
	if safe == "" {
		return "Album_" + a.ID
	}
	return safe
}

// MediaItem is one downloadable item in an album. BaseURL is a short-lived
// capability token handed out by the catalog API; an item without one cannot
// be fetched at all.
type MediaItem struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	BaseURL  string `json:"baseUrl"`
}

// EffectiveFilename returns the filename to store the item under,
// defaulting to "untitled_<id>" when the API omitted one.
func (m MediaItem) EffectiveFilename() string {
	if m.Filename == "" {
		return "untitled_" + m.ID
	}
	return m.Filename
}

// DownloadURL returns the direct-download URL for the item, or an empty
// string when the item has no source.
func (m MediaItem) DownloadURL() string {
	if m.BaseURL == "" {
		return ""
	}
	return m.BaseURL + downloadSuffix
}
