// Package photos is the client for the Google Photos Library API: album and
// media item listings as cursor pages, plus the generic traversal that walks
// them. The client never handles credentials itself; it is handed an already
// authorized http.Client.
package photos

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/glorpus-work/photozip/pkg/errors"
	"github.com/glorpus-work/photozip/pkg/model"
)

// DefaultBaseURL is the production Library API endpoint.
const DefaultBaseURL = "https://photoslibrary.googleapis.com"

const userAgent = "photozip/1.0"

// Client talks to the Library API.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	albumPageSize int
	mediaPageSize int
	pageDelay     time.Duration
}

// Options configure a Client. Zero values fall back to the API maximums and
// no inter-page delay.
type Options struct {
	BaseURL       string
	AlbumPageSize int
	MediaPageSize int

	// PageDelay is a courtesy pause inserted between successive page
	// requests of one traversal.
	PageDelay time.Duration
}

// New creates a Library API client on top of an authorized HTTP client.
func New(httpClient *http.Client, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.AlbumPageSize == 0 {
		opts.AlbumPageSize = 50
	}
	if opts.MediaPageSize == 0 {
		opts.MediaPageSize = 100
	}
	return &Client{
		baseURL:       opts.BaseURL,
		httpClient:    httpClient,
		albumPageSize: opts.AlbumPageSize,
		mediaPageSize: opts.MediaPageSize,
		pageDelay:     opts.PageDelay,
	}
}

type albumsResponse struct {
	Albums        []model.Album `json:"albums"`
	NextPageToken string        `json:"nextPageToken"`
}

type searchRequest struct {
	AlbumID   string `json:"albumId"`
	PageSize  int    `json:"pageSize"`
	PageToken string `json:"pageToken,omitempty"`
}

type searchResponse struct {
	MediaItems    []model.MediaItem `json:"mediaItems"`
	NextPageToken string            `json:"nextPageToken"`
}

// errorEnvelope is the standard Google API error body.
type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// ListAlbums fetches one page of the album listing.
func (c *Client) ListAlbums(ctx context.Context, pageSize int, cursor string) (Page[model.Album], error) {
	query := url.Values{}
	query.Set("pageSize", strconv.Itoa(pageSize))
	if cursor != "" {
		query.Set("pageToken", cursor)
	}

	resp, err := c.do(ctx, http.MethodGet, "/v1/albums?"+query.Encode(), nil)
	if err != nil {
		return Page[model.Album]{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Page[model.Album]{}, c.statusError(resp)
	}

	var body albumsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Page[model.Album]{}, errors.Wrap(err, "failed to decode album listing")
	}
	return Page[model.Album]{Items: body.Albums, NextCursor: body.NextPageToken}, nil
}

// GetAlbum fetches a single album by ID.
func (c *Client) GetAlbum(ctx context.Context, id string) (model.Album, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/albums/"+url.PathEscape(id), nil)
	if err != nil {
		return model.Album{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		// Continue processing
	case http.StatusNotFound:
		return model.Album{}, errors.Wrapf(errors.ErrAlbumNotFound, "album %s", id)
	default:
		return model.Album{}, c.statusError(resp)
	}

	var album model.Album
	if err := json.NewDecoder(resp.Body).Decode(&album); err != nil {
		return model.Album{}, errors.Wrap(err, "failed to decode album")
	}
	return album, nil
}

// SearchMediaItems fetches one page of an album's media items.
func (c *Client) SearchMediaItems(ctx context.Context, albumID string, pageSize int, cursor string) (Page[model.MediaItem], error) {
	reqBody, err := json.Marshal(searchRequest{
		AlbumID:   albumID,
		PageSize:  pageSize,
		PageToken: cursor,
	})
	if err != nil {
		return Page[model.MediaItem]{}, errors.Wrap(err, "failed to encode search request")
	}

	resp, err := c.do(ctx, http.MethodPost, "/v1/mediaItems:search", reqBody)
	if err != nil {
		return Page[model.MediaItem]{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Page[model.MediaItem]{}, c.statusError(resp)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Page[model.MediaItem]{}, errors.Wrap(err, "failed to decode media item listing")
	}
	return Page[model.MediaItem]{Items: body.MediaItems, NextCursor: body.NextPageToken}, nil
}

// Albums returns a page function over the full album listing, suitable for
// Each/Collect. The configured page delay is applied between successive
// pages of one traversal.
func (c *Client) Albums() PageFunc[model.Album] {
	first := true
	return func(ctx context.Context, cursor string) (Page[model.Album], error) {
		if err := c.pause(ctx, &first); err != nil {
			return Page[model.Album]{}, err
		}
		return c.ListAlbums(ctx, c.albumPageSize, cursor)
	}
}

// MediaItems returns a page function over one album's media items.
func (c *Client) MediaItems(albumID string) PageFunc[model.MediaItem] {
	first := true
	return func(ctx context.Context, cursor string) (Page[model.MediaItem], error) {
		if err := c.pause(ctx, &first); err != nil {
			return Page[model.MediaItem]{}, err
		}
		return c.SearchMediaItems(ctx, albumID, c.mediaPageSize, cursor)
	}
}

// pause sleeps the page delay between successive fetches of one traversal.
func (c *Client) pause(ctx context.Context, first *bool) error {
	if *first {
		*first = false
		return nil
	}
	if c.pageDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.pageDelay):
		return nil
	}
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "catalog request failed")
	}
	return resp, nil
}

// statusError turns a non-OK response into an error, decoding the Google
// error envelope when the body carries one.
func (c *Client) statusError(resp *http.Response) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return errors.Wrapf(errors.ErrAPIRequest, "HTTP %d", resp.StatusCode)
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error.Message != "" {
		return errors.Wrapf(errors.ErrAPIRequest, "HTTP %d (%s): %s",
			resp.StatusCode, envelope.Error.Status, envelope.Error.Message)
	}
	return errors.Wrapf(errors.ErrAPIRequest, "HTTP %d: %s", resp.StatusCode, firstLine(data))
}

func firstLine(data []byte) string {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		data = data[:i]
	}
	const max = 200
	if len(data) > max {
		data = data[:max]
	}
	return string(data)
}
