package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glorpus-work/photozip/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const credentialsJSON = `{"installed":{"client_id":"test-client.apps.googleusercontent.com","project_id":"photozip-test","auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token","client_secret":"shhh","redirect_uris":["http://localhost"]}}`

func writeCredentials(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(credentialsJSON), 0o600))
	return path
}

// tokenEndpoint serves the OAuth token URL, answering every exchange or
// refresh with the given access token.
func tokenEndpoint(t *testing.T, accessToken string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  accessToken,
			"token_type":    "Bearer",
			"expires_in":    3600,
			"refresh_token": "refresh-1",
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func testProvider(t *testing.T, tokenURL string) *Provider {
	t.Helper()
	return &Provider{
		config: &oauth2.Config{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			Scopes:       []string{ScopeReadonly},
			Endpoint: oauth2.Endpoint{
				AuthURL:  tokenURL + "/auth",
				TokenURL: tokenURL + "/token",
			},
		},
		tokenFile: filepath.Join(t.TempDir(), "token.json"),
	}
}

func TestNew(t *testing.T) {
	provider, err := New(writeCredentials(t), filepath.Join(t.TempDir(), "token.json"))
	require.NoError(t, err)

	url := provider.AuthCodeURL()
	assert.Contains(t, url, "test-client.apps.googleusercontent.com")
	assert.Contains(t, url, "photoslibrary.readonly")
	assert.Contains(t, url, "access_type=offline")
}

func TestNew_MissingCredentials(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.json"), "token.json")
	assert.ErrorIs(t, err, errors.ErrCredentialsLoad)
}

func TestNew_MalformedCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, err := New(path, "token.json")
	assert.ErrorIs(t, err, errors.ErrCredentialsLoad)
}

func TestLogin_CachesToken(t *testing.T) {
	endpoint := tokenEndpoint(t, "fresh-token")
	provider := testProvider(t, endpoint.URL)

	require.NoError(t, provider.Login(context.Background(), "auth-code"))

	info, err := os.Stat(provider.tokenFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	token, err := provider.Token()
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token.AccessToken)
}

func TestLogin_ExchangeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	t.Cleanup(server.Close)
	provider := testProvider(t, server.URL)

	err := provider.Login(context.Background(), "bad-code")
	assert.ErrorIs(t, err, errors.ErrTokenExchange)
}

func TestToken_NotLoggedIn(t *testing.T) {
	provider := testProvider(t, "http://irrelevant")

	_, err := provider.Token()
	assert.ErrorIs(t, err, errors.ErrAuthRequired)
}

func TestClient_NotLoggedIn(t *testing.T) {
	provider := testProvider(t, "http://irrelevant")

	_, err := provider.Client(context.Background(), time.Second)
	assert.ErrorIs(t, err, errors.ErrAuthRequired)
}

func TestTokenSource_PersistsRefreshedToken(t *testing.T) {
	endpoint := tokenEndpoint(t, "refreshed-token")
	provider := testProvider(t, endpoint.URL)

	// Cache an expired token so the first use forces a refresh.
	expired := &oauth2.Token{
		AccessToken:  "stale-token",
		TokenType:    "Bearer",
		RefreshToken: "refresh-0",
		Expiry:       time.Now().Add(-time.Hour),
	}
	require.NoError(t, saveToken(provider.tokenFile, expired))

	source, err := provider.tokenSource(context.Background())
	require.NoError(t, err)

	token, err := source.Token()
	require.NoError(t, err)
	assert.Equal(t, "refreshed-token", token.AccessToken)

	// The refreshed token ended up back in the cache file.
	cached, err := provider.Token()
	require.NoError(t, err)
	assert.Equal(t, "refreshed-token", cached.AccessToken)
}

func TestClient_SharesTokenSource(t *testing.T) {
	endpoint := tokenEndpoint(t, "refreshed-token")
	provider := testProvider(t, endpoint.URL)

	valid := &oauth2.Token{
		AccessToken: "valid-token",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}
	require.NoError(t, saveToken(provider.tokenFile, valid))

	apiClient, err := provider.Client(context.Background(), 30*time.Second)
	require.NoError(t, err)
	downloadClient, err := provider.Client(context.Background(), 60*time.Second)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, apiClient.Timeout)
	assert.Equal(t, 60*time.Second, downloadClient.Timeout)

	apiTransport, ok := apiClient.Transport.(*oauth2.Transport)
	require.True(t, ok)
	dlTransport, ok := downloadClient.Transport.(*oauth2.Transport)
	require.True(t, ok)
	assert.Same(t, apiTransport.Source, dlTransport.Source)
}
