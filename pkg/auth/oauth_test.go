package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestRedirectURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "http://localhost:6789/oauth2callback"},
		{"oob", "urn:ietf:wg:oauth:2.0:oob", "http://localhost:6789/oauth2callback"},
		{"localhost no port", "http://localhost", "http://localhost:6789"},
		{"localhost wrong port", "http://localhost:8080/cb", "http://localhost:6789/cb"},
		{"loopback ip", "http://127.0.0.1/cb", "http://127.0.0.1:6789/cb"},
		{"already right", "http://localhost:6789/cb", "http://localhost:6789/cb"},
		{"remote host kept", "https://example.com/cb", "https://example.com/cb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, redirectURL(tt.in, nil))
		})
	}
}

func TestTokenFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", TokenFile)
	tok := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, saveToken(path, tok))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := tokenFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, tok.AccessToken, got.AccessToken)
	assert.Equal(t, tok.RefreshToken, got.RefreshToken)
	assert.True(t, tok.Expiry.Equal(got.Expiry))
}

type staticSource struct {
	tok *oauth2.Token
	err error
}

func (s staticSource) Token() (*oauth2.Token, error) { return s.tok, s.err }

func TestSavingTokenSourceWritesOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), TokenFile)
	old := &oauth2.Token{AccessToken: "old", RefreshToken: "r"}
	fresh := &oauth2.Token{AccessToken: "new", RefreshToken: "r"}

	src := &savingTokenSource{base: staticSource{tok: old}, path: path, last: old}
	_, err := src.Token()
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist), "unchanged token must not be written")

	src.base = staticSource{tok: fresh}
	got, err := src.Token()
	require.NoError(t, err)
	assert.Equal(t, "new", got.AccessToken)

	saved, err := tokenFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", saved.AccessToken)
}

func TestSavingTokenSourcePropagatesError(t *testing.T) {
	src := &savingTokenSource{base: staticSource{err: errors.New("refresh failed")}, path: filepath.Join(t.TempDir(), TokenFile)}
	_, err := src.Token()
	assert.EqualError(t, err, "refresh failed")
}
