// Package hook runs user-provided Tengo scripts at fixed points of an album
// run: before downloads start and after an archive has been written.
package hook

// Type identifies the point in an album run a script is attached to.
type Type string

// Supported hook types.
const (
	// PreAlbum runs before an album's media items are listed. The script can
	// set skip = true to leave the album out of the run.
	PreAlbum Type = "pre-album"
	// PostArchive runs after an album's archive has been written.
	PostArchive Type = "post-archive"
)

// Context carries album state into a script. Every field is exposed to the
// script as a global variable.
type Context struct {
	AlbumID     string
	AlbumTitle  string
	ArchivePath string
	Succeeded   int
	Failed      int
	Vars        map[string]interface{}
}
