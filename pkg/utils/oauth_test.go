package utils

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/oivas000/duty-roster/internal/config"
)

func TestGetOAuthConfig(t *testing.T) {
	cfg := &config.OAuthClientConfig{Installed: config.OAuthInstalled{
		ClientID:     "123.apps.googleusercontent.com",
		AuthURI:      "https://accounts.google.com/o/oauth2/auth",
		TokenURI:     "https://oauth2.googleapis.com/token",
		ClientSecret: "secret",
		RedirectURIs: []string{"http://localhost"},
	}}

	oauthConfig, err := GetOAuthConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{ScopeSheets}, oauthConfig.Scopes)
	assert.Equal(t, "http://localhost:3000/oauth/callback", oauthConfig.RedirectURL)
	assert.Equal(t, "123.apps.googleusercontent.com", oauthConfig.ClientID)
}

func TestTokenStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tokens")
	store := NewTokenStoreAt(dir, "test")

	token, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, token)

	saved := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}
	require.NoError(t, store.Save(saved))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(tokenFilePerms), info.Mode().Perm())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "access", loaded.AccessToken)
	assert.Equal(t, "refresh", loaded.RefreshToken)

	require.NoError(t, store.Delete())
	require.NoError(t, store.Delete())

	token, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestTokenStore_CorruptFile(t *testing.T) {
	store := NewTokenStoreAt(t.TempDir(), "test")
	require.NoError(t, os.WriteFile(store.Path(), []byte("{"), 0600))

	_, err := store.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse token file")
}

func TestServeAuthCallback(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	type result struct {
		code string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		code, err := serveAuthCallback(context.Background(), listener)
		done <- result{code, err}
	}()

	url := fmt.Sprintf("http://%s%s?code=abc123", listener.Addr(), callbackPath)
	resp, err := http.Get(url)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	select {
	case r := <-done:
		require.NoError(t, r.err)
		assert.Equal(t, "abc123", r.code)
	case <-time.After(5 * time.Second):
		t.Fatal("callback server did not return")
	}
}

func TestServeAuthCallback_MissingCode(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := serveAuthCallback(context.Background(), listener)
		done <- err
	}()

	resp, err := http.Get(fmt.Sprintf("http://%s%s", listener.Addr(), callbackPath))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no authorization code")
	case <-time.After(5 * time.Second):
		t.Fatal("callback server did not return")
	}
}
