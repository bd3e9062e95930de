package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

const (
	// ClientSecretsFile is the Google API "Desktop app" credentials file,
	// looked up in the config directory.
	ClientSecretsFile = "credentials.json"

	// TokenFile caches the access and refresh token in the config directory.
	TokenFile = "token.json"

	// LocalhostAuthPort is where the redirect listener waits for the code.
	LocalhostAuthPort = "6789"

	appName = "leaguetasks"

	authTimeout = 5 * time.Minute
)

// Scopes needed to read a task list from Google Sheets.
var Scopes = []string{sheets.SpreadsheetsReadonlyScope}

// ConfigDir returns ~/.config/leaguetasks.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// TokenPath returns the path of the cached token.
func TokenPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, TokenFile), nil
}

// GetConfig builds an oauth2.Config from the client secrets file.
func GetConfig(scopes []string, logger *log.Logger) (*oauth2.Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}

	secretsPath := filepath.Join(dir, ClientSecretsFile)
	b, err := os.ReadFile(secretsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", secretsPath, err)
	}

	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	config.RedirectURL = redirectURL(config.RedirectURL, logger)
	return config, nil
}

// redirectURL points localhost and out-of-band redirects at the local
// listener port. Anything else is kept.
func redirectURL(raw string, logger *log.Logger) string {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	fallback := fmt.Sprintf("http://localhost:%s/oauth2callback", LocalhostAuthPort)

	if raw == "" || raw == "urn:ietf:wg:oauth:2.0:oob" {
		return fallback
	}

	u, err := url.Parse(raw)
	if err != nil {
		logger.Warn("could not parse redirect URL, using it as is", "url", raw, "err", err)
		return raw
	}
	if u.Hostname() != "localhost" && u.Hostname() != "127.0.0.1" {
		logger.Warn("redirect URL is not a localhost callback", "url", raw)
		return raw
	}
	if u.Port() != LocalhostAuthPort {
		if u.Port() != "" {
			logger.Warn("overriding redirect port", "configured", u.Port(), "port", LocalhostAuthPort)
		}
		u.Host = net.JoinHostPort(u.Hostname(), LocalhostAuthPort)
	}
	return u.String()
}

// GetClient returns an HTTP client authorized for scopes. A cached token is
// used when present; otherwise the browser flow runs. Refreshed tokens are
// written back to the cache.
func GetClient(ctx context.Context, scopes []string, logger *log.Logger) (*http.Client, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	config, err := GetConfig(scopes, logger)
	if err != nil {
		return nil, err
	}

	tokenPath, err := TokenPath()
	if err != nil {
		return nil, err
	}

	tok, err := tokenFromFile(tokenPath)
	if err != nil {
		logger.Info("no cached token, starting browser authorization", "path", tokenPath)
		tok, err = getTokenFromWeb(ctx, config, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to get token from web: %w", err)
		}
		if err := saveToken(tokenPath, tok); err != nil {
			return nil, err
		}
	}

	src := &savingTokenSource{
		base:   config.TokenSource(ctx, tok),
		path:   tokenPath,
		last:   tok,
		logger: logger,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src)), nil
}

// Authorize discards any cached token and runs the browser flow again.
func Authorize(ctx context.Context, logger *log.Logger) error {
	tokenPath, err := TokenPath()
	if err != nil {
		return fmt.Errorf("could not find token path: %w", err)
	}
	if err := os.Remove(tokenPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not delete token file %s, delete it manually: %w", tokenPath, err)
	}
	_, err = GetClient(ctx, Scopes, logger)
	return err
}

// savingTokenSource persists a token whenever the refresh flow changes it.
type savingTokenSource struct {
	base   oauth2.TokenSource
	path   string
	logger *log.Logger

	mu   sync.Mutex
	last *oauth2.Token
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil || tok.AccessToken != s.last.AccessToken || tok.RefreshToken != s.last.RefreshToken {
		if err := saveToken(s.path, tok); err != nil && s.logger != nil {
			s.logger.Warn("could not save refreshed token", "err", err)
		}
		s.last = tok
	}
	return tok, nil
}

// getTokenFromWeb runs the authorization code flow through a local
// redirect listener.
func getTokenFromWeb(ctx context.Context, config *oauth2.Config, logger *log.Logger) (*oauth2.Token, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	listener, err := net.Listen("tcp", net.JoinHostPort("localhost", LocalhostAuthPort))
	if err != nil {
		return nil, fmt.Errorf("failed to start listener on port %s: %w", LocalhostAuthPort, err)
	}

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "Authorization code not found", http.StatusBadRequest)
				select {
				case errCh <- errors.New("authorization code not found in redirect URL"):
				default:
				}
				return
			}
			fmt.Fprintln(w, "Authentication successful! You can close this window.")
			select {
			case codeCh <- code:
			default:
			}
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}
	defer server.Close()

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			select {
			case errCh <- fmt.Errorf("HTTP server error: %w", err):
			default:
			}
		}
	}()

	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Printf("Open the following URL in your browser to authorize leaguetasks:\n%s\n", authURL)
	logger.Info("waiting for authorization code", "redirect", config.RedirectURL)

	ctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	select {
	case code := <-codeCh:
		tok, err := config.Exchange(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve token from Google: %w", err)
		}
		return tok, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, fmt.Errorf("authorization timed out or was cancelled: %w", ctx.Err())
	}
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token from file %s: %w", path, err)
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache OAuth token to %s: %w", path, err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	return nil
}
