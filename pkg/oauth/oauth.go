// Package oauth keeps a YouTube login on disk and renews its access token.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
)

var (
	ErrTokenNotFound = errors.New("token not found")
	ErrRefreshFailed = errors.New("token refresh failed")
)

// YouTubeScope grants playlist management on the user's channel.
const YouTubeScope = "https://www.googleapis.com/auth/youtube"

// googleTokenURL is Google's token endpoint for the refresh_token grant.
const googleTokenURL = "https://oauth2.googleapis.com/token" // #nosec G101 -- public endpoint

// Config holds the OAuth client registration used to renew tokens.
type Config struct {
	ClientID     string
	ClientSecret string // #nosec G117 -- client registration, not a user credential
	TokenURL     string
}

// YouTubeOAuthConfig returns the Google token endpoint configuration.
func YouTubeOAuthConfig(clientID, clientSecret string) Config {
	return Config{ClientID: clientID, ClientSecret: clientSecret, TokenURL: googleTokenURL}
}

// Token is a stored user login. ExpiresIn is only set on fresh grant
// responses; Expiry is what gets persisted.
type Token struct {
	AccessToken  string    `json:"access_token"`  // #nosec G117 -- persisted with 0600
	RefreshToken string    `json:"refresh_token"` // #nosec G117 -- persisted with 0600
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// Expired reports whether the access token is unusable at now. Tokens
// without a known expiry are treated as valid.
func (t *Token) Expired(now time.Time) bool {
	if t.Expiry.IsZero() {
		return false
	}
	return !now.Before(t.Expiry)
}

// OAuth2 converts the token for use with golang.org/x/oauth2 transports.
func (t *Token) OAuth2() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}
}

func fromOAuth2(t *oauth2.Token) *Token {
	return &Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.Type(),
		Expiry:       t.Expiry,
	}
}

// Flow performs the refresh_token grant against a token endpoint.
type Flow struct {
	config     Config
	httpClient *http.Client
}

type FlowOption func(*Flow)

// WithHTTPClient sets the client used to reach the token endpoint.
func WithHTTPClient(client *http.Client) FlowOption {
	return func(f *Flow) { f.httpClient = client }
}

func NewFlow(config Config, opts ...FlowOption) *Flow {
	f := &Flow{config: config}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flow) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     f.config.ClientID,
		ClientSecret: f.config.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  f.config.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: []string{YouTubeScope},
	}
}

// RefreshAccessToken exchanges refreshToken for a new access token. It makes
// exactly one request. Every failure wraps ErrRefreshFailed.
func (f *Flow) RefreshAccessToken(ctx context.Context, refreshToken string) (*Token, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: no refresh token stored", ErrRefreshFailed)
	}
	if f.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, f.httpClient)
	}

	token, err := f.oauth2Config().TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			return nil, fmt.Errorf("%w: %s", ErrRefreshFailed, describeGrantError(rerr))
		}
		return nil, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}

	return fromOAuth2(token), nil
}

func describeGrantError(e *oauth2.RetrieveError) string {
	status := 0
	if e.Response != nil {
		status = e.Response.StatusCode
	}
	switch {
	case e.ErrorCode != "" && e.ErrorDescription != "":
		return fmt.Sprintf("token endpoint returned %d: %s (%s)", status, e.ErrorCode, e.ErrorDescription)
	case e.ErrorCode != "":
		return fmt.Sprintf("token endpoint returned %d: %s", status, e.ErrorCode)
	default:
		return fmt.Sprintf("token endpoint returned %d", status)
	}
}

// TokenStorage persists one token file per provider under dir.
type TokenStorage struct {
	dir string
}

func NewTokenStorage(dir string) *TokenStorage {
	return &TokenStorage{dir: dir}
}

// path confines provider to a file name inside the storage directory.
func (s *TokenStorage) path(provider string) string {
	return filepath.Join(s.dir, filepath.Base(provider)+"_token.json")
}

// Save writes token readable by the owner only. The file is replaced
// atomically so a crash never leaves a truncated login behind.
func (s *TokenStorage) Save(provider string, token *Token) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".token-*")
	if err != nil {
		return fmt.Errorf("create token file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("restrict token file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close token file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path(provider)); err != nil {
		return fmt.Errorf("store token file: %w", err)
	}
	return nil
}

// Load reads the stored token for provider, or returns ErrTokenNotFound.
func (s *TokenStorage) Load(provider string) (*Token, error) {
	data, err := os.ReadFile(s.path(provider)) // #nosec G304 -- provider is reduced to a base name
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("read token: %w", err)
	}

	var token Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}

	return &token, nil
}
