// Package auth provides the OAuth2 credential flow for the Library API:
// loading the installed-app client secret, caching the token on disk, and
// handing out authorized HTTP clients that refresh transparently.
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/glorpus-work/photozip/internal/logger"
	"github.com/glorpus-work/photozip/pkg/errors"
	"github.com/glorpus-work/photozip/pkg/fsutil"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ScopeReadonly grants read access to the photo library. Listing and
// downloading need nothing beyond it.
const ScopeReadonly = "https://www.googleapis.com/auth/photoslibrary.readonly"

// Provider hands out authorized HTTP clients backed by a token cached on
// disk. All clients built from one Provider share a token source, so a
// refresh happens once regardless of how many clients are in play.
type Provider struct {
	config    *oauth2.Config
	tokenFile string

	mu     sync.Mutex
	source oauth2.TokenSource
}

// New builds a Provider from an installed-app client credentials file and a
// token cache path. The credentials file is the client secret JSON downloaded
// from the Google Cloud console.
func New(credentialsFile, tokenFile string) (*Provider, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCredentialsLoad, err.Error())
	}

	config, err := google.ConfigFromJSON(data, ScopeReadonly)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCredentialsLoad, err.Error())
	}

	return &Provider{config: config, tokenFile: tokenFile}, nil
}

// AuthCodeURL returns the URL the user must visit to authorize access.
func (p *Provider) AuthCodeURL() string {
	return p.config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
}

// Login exchanges an authorization code for a token and caches it for later
// runs.
func (p *Provider) Login(ctx context.Context, authCode string) error {
	token, err := p.config.Exchange(ctx, authCode)
	if err != nil {
		return errors.Wrap(errors.ErrTokenExchange, err.Error())
	}
	return saveToken(p.tokenFile, token)
}

// Token returns the token cached on disk. Its absence means the user never
// ran login.
func (p *Provider) Token() (*oauth2.Token, error) {
	file, err := os.Open(p.tokenFile)
	if err != nil {
		return nil, errors.Wrap(errors.ErrAuthRequired, err.Error())
	}
	defer func() { _ = file.Close() }()

	token := &oauth2.Token{}
	if err := json.NewDecoder(file).Decode(token); err != nil {
		return nil, errors.Wrap(errors.ErrAuthRequired, err.Error())
	}
	return token, nil
}

// Client returns an authorized HTTP client with the given request timeout.
// Tokens refresh transparently; refreshed tokens are written back to the
// cache file so later runs skip the refresh. Clients share the process-wide
// connection pool.
func (p *Provider) Client(ctx context.Context, timeout time.Duration) (*http.Client, error) {
	source, err := p.tokenSource(ctx)
	if err != nil {
		return nil, err
	}

	return &http.Client{
		Transport: &oauth2.Transport{Source: source},
		Timeout:   timeout,
	}, nil
}

func (p *Provider) tokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.source != nil {
		return p.source, nil
	}

	token, err := p.Token()
	if err != nil {
		return nil, err
	}

	p.source = &savingTokenSource{
		tokenFile: p.tokenFile,
		base:      p.config.TokenSource(ctx, token),
		lastSaved: token.AccessToken,
	}
	return p.source, nil
}

// savingTokenSource persists refreshed tokens back to the cache file.
// A failed write is only a warning: the refreshed token still authorizes the
// current run, the next run just refreshes again.
type savingTokenSource struct {
	tokenFile string
	base      oauth2.TokenSource

	mu        sync.Mutex
	lastSaved string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, errors.Wrap(errors.ErrAuthRequired, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token.AccessToken != s.lastSaved {
		if err := saveToken(s.tokenFile, token); err != nil {
			logger.Warnf("could not persist refreshed token: %v", err)
		} else {
			s.lastSaved = token.AccessToken
		}
	}
	return token, nil
}

func saveToken(path string, token *oauth2.Token) error {
	if err := fsutil.EnsureFileDir(path); err != nil {
		return errors.Wrap(errors.ErrTokenSave, err.Error())
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModePrivate)
	if err != nil {
		return errors.Wrap(errors.ErrTokenSave, err.Error())
	}
	defer func() { _ = file.Close() }()

	if err := json.NewEncoder(file).Encode(token); err != nil {
		return errors.Wrap(errors.ErrTokenSave, err.Error())
	}
	return nil
}
