// Package testutil provides a fake Photos Library API backend for the
// integration tests: paginated album and media item listings, album lookup,
// and the download URLs the listed items point at.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/glorpus-work/photozip/pkg/model"
)

// AccessToken is the bearer token the fake library accepts. WriteToken caches
// it with a comfortable expiry, so a test run authorizes without any OAuth
// round trip.
const AccessToken = "itest-access-token"

// FakeItem is a single media item served by the fake library.
type FakeItem struct {
	ID       string
	Filename string
	Content  string

	// Broken makes every download of the item fail with HTTP 500.
	Broken bool

	// NoSource omits the item's baseUrl from listings, as the real API does
	// for items that are still processing.
	NoSource bool
}

// FakeAlbum is an album served by the fake library.
type FakeAlbum struct {
	ID    string
	Title string
	Items []FakeItem
}

// FakeLibrary emulates the slice of the Photos Library API the client talks
// to. Listings honor the pageSize and pageToken parameters of the real API;
// page tokens are plain item offsets.
type FakeLibrary struct {
	Albums []FakeAlbum

	// PageSize caps every listing page regardless of what the client asks
	// for. Zero honors the request.
	PageSize int

	baseURL string

	mu        sync.Mutex
	downloads map[string]int
}

// Start serves the library on a local HTTP server that is torn down with the
// test. The returned server's URL is what a config's api_base_url should be
// pointed at.
func (l *FakeLibrary) Start(t *testing.T) *httptest.Server {
	t.Helper()

	l.downloads = make(map[string]int)
	server := httptest.NewServer(http.HandlerFunc(l.route))
	t.Cleanup(server.Close)
	l.baseURL = server.URL
	return server
}

// Downloads reports how many download requests the item has received,
// counting failed attempts.
func (l *FakeLibrary) Downloads(itemID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.downloads[itemID]
}

func (l *FakeLibrary) route(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/v1/albums":
		l.listAlbums(w, r)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v1/albums/"):
		l.getAlbum(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/v1/mediaItems:search":
		l.searchMediaItems(w, r)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/media/"):
		l.serveMedia(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (l *FakeLibrary) listAlbums(w http.ResponseWriter, r *http.Request) {
	if !l.authorized(w, r) {
		return
	}

	albums := make([]model.Album, 0, len(l.Albums))
	for _, album := range l.Albums {
		albums = append(albums, model.Album{ID: album.ID, Title: album.Title})
	}

	pageSize := l.pageSize(r.URL.Query().Get("pageSize"))
	from, to, next := paginate(len(albums), pageSize, r.URL.Query().Get("pageToken"))
	writeJSON(w, struct {
		Albums        []model.Album `json:"albums"`
		NextPageToken string        `json:"nextPageToken,omitempty"`
	}{Albums: albums[from:to], NextPageToken: next})
}

func (l *FakeLibrary) getAlbum(w http.ResponseWriter, r *http.Request) {
	if !l.authorized(w, r) {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/albums/")
	album, ok := l.findAlbum(id)
	if !ok {
		writeAPIError(w, http.StatusNotFound, "NOT_FOUND", "album not found: "+id)
		return
	}
	writeJSON(w, model.Album{ID: album.ID, Title: album.Title})
}

func (l *FakeLibrary) searchMediaItems(w http.ResponseWriter, r *http.Request) {
	if !l.authorized(w, r) {
		return
	}

	var req struct {
		AlbumID   string `json:"albumId"`
		PageSize  int    `json:"pageSize"`
		PageToken string `json:"pageToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "malformed search request")
		return
	}

	album, ok := l.findAlbum(req.AlbumID)
	if !ok {
		writeAPIError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "unknown album: "+req.AlbumID)
		return
	}

	items := make([]model.MediaItem, 0, len(album.Items))
	for _, item := range album.Items {
		wire := model.MediaItem{ID: item.ID, Filename: item.Filename}
		if !item.NoSource {
			wire.BaseURL = l.baseURL + "/media/" + item.ID
		}
		items = append(items, wire)
	}

	pageSize := req.PageSize
	if l.PageSize > 0 && (pageSize <= 0 || pageSize > l.PageSize) {
		pageSize = l.PageSize
	}
	if pageSize <= 0 {
		pageSize = 100
	}
	from, to, next := paginate(len(items), pageSize, req.PageToken)
	writeJSON(w, struct {
		MediaItems    []model.MediaItem `json:"mediaItems"`
		NextPageToken string            `json:"nextPageToken,omitempty"`
	}{MediaItems: items[from:to], NextPageToken: next})
}

// serveMedia handles the download URLs handed out by searchMediaItems. The
// requested path must carry the "=d" download suffix the client appends.
func (l *FakeLibrary) serveMedia(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/media/")
	id, ok := strings.CutSuffix(name, "=d")
	if !ok {
		writeAPIError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "missing download suffix")
		return
	}

	for _, album := range l.Albums {
		for _, item := range album.Items {
			if item.ID != id {
				continue
			}
			l.mu.Lock()
			l.downloads[id]++
			l.mu.Unlock()

			if item.Broken {
				http.Error(w, "media unavailable", http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(item.Content))
			return
		}
	}
	writeAPIError(w, http.StatusNotFound, "NOT_FOUND", "no such media item: "+id)
}

// authorized rejects API calls that do not carry the expected bearer token,
// which keeps the tests honest about the OAuth transport being wired in.
func (l *FakeLibrary) authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Authorization") != "Bearer "+AccessToken {
		writeAPIError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing or invalid bearer token")
		return false
	}
	return true
}

func (l *FakeLibrary) findAlbum(id string) (FakeAlbum, bool) {
	for _, album := range l.Albums {
		if album.ID == id {
			return album, true
		}
	}
	return FakeAlbum{}, false
}

func (l *FakeLibrary) pageSize(raw string) int {
	size, err := strconv.Atoi(raw)
	if err != nil || size <= 0 {
		size = 50
	}
	if l.PageSize > 0 && size > l.PageSize {
		size = l.PageSize
	}
	return size
}

func paginate(total, pageSize int, token string) (from, to int, next string) {
	if token != "" {
		from, _ = strconv.Atoi(token)
	}
	if from > total {
		from = total
	}
	to = from + pageSize
	if to > total {
		to = total
	}
	if to < total {
		next = strconv.Itoa(to)
	}
	return from, to, next
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeAPIError writes the standard Google API error envelope.
func writeAPIError(w http.ResponseWriter, code int, status, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": code, "message": message, "status": status},
	})
}

// WriteCredentials writes an installed-app OAuth client secret file into dir
// and returns its path. tokenURL overrides the token endpoint for tests that
// exercise the code exchange; empty keeps the Google default, which is never
// contacted while the cached token is still valid.
func WriteCredentials(t *testing.T, dir, tokenURL string) string {
	t.Helper()

	if tokenURL == "" {
		tokenURL = "https://oauth2.googleapis.com/token"
	}
	blob := fmt.Sprintf(`{
  "installed": {
    "client_id": "itest-client.apps.googleusercontent.com",
    "client_secret": "itest-secret",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": %q,
    "redirect_uris": ["urn:ietf:wg:oauth:2.0:oob", "http://localhost"]
  }
}`, tokenURL)

	path := filepath.Join(dir, "credentials.json")
	if err := os.WriteFile(path, []byte(blob), 0o600); err != nil {
		t.Fatalf("Failed to write credentials file: %v", err)
	}
	return path
}

// WriteToken caches a token that authorizes against the fake library for the
// next hour and returns the cache file's path.
func WriteToken(t *testing.T, dir string) string {
	t.Helper()

	token := oauth2.Token{
		AccessToken:  AccessToken,
		TokenType:    "Bearer",
		RefreshToken: "itest-refresh-token",
		Expiry:       time.Now().Add(time.Hour),
	}
	data, err := json.Marshal(token)
	if err != nil {
		t.Fatalf("Failed to encode token: %v", err)
	}

	path := filepath.Join(dir, "token.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("Failed to write token file: %v", err)
	}
	return path
}
